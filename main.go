//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"

	"github.com/voxelsplace/voxconv/utils"
)

func usage() {
	fmt.Println("Usage: voxconv [command] [args]")
	fmt.Println("Without a command, converts ./*.xraw into ./ConvertedFiles/*.ovox")
	fmt.Println("Commands:")
	fmt.Println("  xraw2ovox input.xraw output.ovox        (convert one file)")
	fmt.Println("  convertdir <srcdir> <outdir> [workers]  (convert every .xraw in srcdir)")
	fmt.Println("  ovox2glb input.ovox output.glb          (greedy-meshed .glb preview)")
	fmt.Println("  inspect input.ovox                      (print header and palette)")
	fmt.Println("  gennoise <w> <h> <d> <percentage> <paletteSize> <amount> <output_dir>")
	fmt.Println("                                          (generate random .xraw files)")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func convertDir(opts utils.BatchOptions) {
	if _, err := utils.RunConvertDir(opts, utils.NewLogger()); err != nil {
		fail(err)
	}
}

func main() {
	if len(os.Args) < 2 {
		convertDir(utils.DefaultBatchOptions())
		return
	}

	switch os.Args[1] {
	case "xraw2ovox":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		rep, err := utils.RunXRAW2OVOXFile(os.Args[2], os.Args[3])
		if err != nil {
			fail(err)
		}
		fmt.Println(rep)
	case "convertdir":
		if len(os.Args) != 4 && len(os.Args) != 5 {
			usage()
			os.Exit(1)
		}
		opts := utils.DefaultBatchOptions()
		opts.SourceDir = os.Args[2]
		opts.OutputDir = os.Args[3]
		if len(os.Args) == 5 {
			if _, err := fmt.Sscan(os.Args[4], &opts.Workers); err != nil {
				fail(err)
			}
		}
		convertDir(opts)
	case "ovox2glb":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunOVOX2GLB(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
		fmt.Println("Operation completed!")
	case "inspect":
		if len(os.Args) != 3 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInspect(os.Args[2], os.Stdout); err != nil {
			fail(err)
		}
	case "gennoise":
		if len(os.Args) != 9 {
			usage()
			os.Exit(1)
		}
		var opts utils.NoiseOptions
		targets := []any{&opts.Width, &opts.Height, &opts.Depth, &opts.Percentage, &opts.PaletteSize, &opts.Amount}
		for i, t := range targets {
			if _, err := fmt.Sscan(os.Args[2+i], t); err != nil {
				fail(err)
			}
		}
		opts.OutDir = os.Args[8]
		if err := utils.RunGenerateNoiseXRAW(opts); err != nil {
			fail(err)
		}
		fmt.Println("Operation completed!")
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}
