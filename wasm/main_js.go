//go:build js && wasm

package main

import (
	"strings"
	"syscall/js"

	"github.com/voxelsplace/voxconv/api"
)

func bytesArg(args []js.Value) []byte {
	buf := make([]byte, args[0].Get("length").Int())
	js.CopyBytesToGo(buf, args[0])
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func xraw2ovox(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing xraw bytes")
	}
	out, err := api.XRAWToOVOXBytes(bytesArg(args))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func ovox2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing ovox bytes")
	}
	out, err := api.OVOXToGLB(bytesArg(args))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func inspectOvox(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing ovox bytes")
	}
	var sb strings.Builder
	if err := api.Inspect(&sb, bytesArg(args)); err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(sb.String())
}

func main() {
	js.Global().Set("xraw2ovox", js.FuncOf(xraw2ovox))
	js.Global().Set("ovox2glb", js.FuncOf(ovox2glb))
	js.Global().Set("inspectOvox", js.FuncOf(inspectOvox))
	select {}
}
