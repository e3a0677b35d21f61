package xraw

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/voxelsplace/voxconv/voxel"
)

func header(w, h, d, pal int32, bpi, channels, bpc uint8) Header {
	return Header{
		ChannelNum:     channels,
		BitsPerChannel: bpc,
		BitsPerIndex:   bpi,
		Width:          w,
		Height:         h,
		Depth:          d,
		PaletteSize:    pal,
	}
}

func mustEncode(t *testing.T, hdr Header, indices []uint16, channels []uint32) []byte {
	t.Helper()
	data, err := Encode(hdr, indices, channels)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return data
}

func TestDecode_Scenario(t *testing.T) {
	data := mustEncode(t, header(2, 1, 1, 3, 8, 1, 8), []uint16{0, 2}, []uint32{10, 20, 30})
	if len(data) != HeaderSize+2+3 {
		t.Fatalf("fixture length = %d", len(data))
	}
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(c.Voxels) != 1 {
		t.Fatalf("got %d voxels, want 1", len(c.Voxels))
	}
	v := c.Voxels[0]
	if v.Position != (voxel.Vec3{X: 1, Y: 0, Z: 0}) || v.Index != 0 {
		t.Fatalf("voxel = %+v, want (1,0,0) index 0", v)
	}
	if len(c.Palette) != 1 || c.Palette[0].Colour != (voxel.Vec4{X: 30}) {
		t.Fatalf("palette = %+v, want [{30 0 0 0}]", c.Palette)
	}
	if c.NumColourChannels != 1 || c.BitsPerChannel != 8 {
		t.Fatalf("channels = %d x %d bits", c.NumColourChannels, c.BitsPerChannel)
	}
	if c.FrameSize != (voxel.Vec3{X: 2, Y: 1, Z: 1}) {
		t.Fatalf("frame = %+v", c.FrameSize)
	}
}

func TestDecode_SkipsEmptyCells(t *testing.T) {
	indices := []uint16{0, 3, 0, 1, 0, 0, 3, 2, 0, 0, 0, 1}
	data := mustEncode(t, header(2, 3, 2, 4, 8, 3, 8), indices, make([]uint32, 12))
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(c.Voxels) != 5 {
		t.Fatalf("got %d voxels, want 5", len(c.Voxels))
	}
	if len(c.Palette) != 3 {
		t.Fatalf("palette length = %d, want 3", len(c.Palette))
	}
	for _, v := range c.Voxels {
		x, y, z := int(v.Position.X), int(v.Position.Y), int(v.Position.Z)
		raw := indices[x+y*2+z*2*3]
		if raw == 0 {
			t.Fatalf("voxel emitted for empty cell (%d,%d,%d)", x, y, z)
		}
		if want := uint16(raw - 1); v.Index != want {
			t.Errorf("voxel (%d,%d,%d) index = %d, want %d", x, y, z, v.Index, want)
		}
	}
}

func TestDecode_ScanOrder(t *testing.T) {
	// 2x2x2, every cell occupied with its own index
	indices := make([]uint16, 8)
	for i := range indices {
		indices[i] = uint16(i + 1)
	}
	c, err := Decode(mustEncode(t, header(2, 2, 2, 9, 8, 1, 8), indices, make([]uint32, 9)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []voxel.Vec3{
		{X: 0, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1},
		{X: 0, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 0}, {X: 1, Y: 1, Z: 1},
	}
	for i, v := range c.Voxels {
		if v.Position != want[i] {
			t.Errorf("voxel %d at %+v, want %+v", i, v.Position, want[i])
		}
	}
}

func TestDecode_AllEmpty(t *testing.T) {
	c, err := Decode(mustEncode(t, header(3, 3, 3, 2, 8, 4, 8), make([]uint16, 27), make([]uint32, 8)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(c.Voxels) != 0 || len(c.Palette) != 0 {
		t.Fatalf("got %d voxels / %d colours, want 0 / 0", len(c.Voxels), len(c.Palette))
	}
}

func TestDecode_ZeroDimension(t *testing.T) {
	// a zero width leaves a 2^30 x 2^30 frame with no cells to scan
	hdr := header(0, 1<<30, 1<<30, 2, 8, 1, 8)
	data := mustEncode(t, header(0, 1, 1, 2, 8, 1, 8), nil, []uint32{1, 2})
	binary.LittleEndian.PutUint32(data[12:], uint32(hdr.Height))
	binary.LittleEndian.PutUint32(data[16:], uint32(hdr.Depth))

	done := make(chan struct{})
	var c *voxel.Container
	var err error
	go func() {
		c, err = Decode(data)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("Decode scanned an empty grid")
	}
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(c.Voxels) != 0 || len(c.Palette) != 0 {
		t.Fatalf("got %d voxels / %d colours, want 0 / 0", len(c.Voxels), len(c.Palette))
	}
	if c.FrameSize != (voxel.Vec3{X: 0, Y: 1 << 30, Z: 1 << 30}) {
		t.Fatalf("frame = %+v", c.FrameSize)
	}
}

func TestReadGrid_EmptyBlock(t *testing.T) {
	if v := readGrid(nil, header(1<<30, 1<<30, 0, 1, 16, 1, 8)); v != nil {
		t.Fatalf("readGrid = %+v, want nil", v)
	}
}

func TestDecode_WideIndicesAndChannels(t *testing.T) {
	tests := []struct {
		name     string
		channels uint8
		bits     uint8
		values   []uint32
		want     voxel.Vec4
	}{
		{"rgba32", 4, 32, []uint32{0, 0, 0, 0, 0xDEADBEEF, 1, 2, 0xFFFFFFFF}, voxel.Vec4{X: 0xDEADBEEF, Y: 1, Z: 2, W: 0xFFFFFFFF}},
		{"rgb16", 3, 16, []uint32{0, 0, 0, 0xABCD, 7, 0xFFFF}, voxel.Vec4{X: 0xABCD, Y: 7, Z: 0xFFFF}},
		{"rg8", 2, 8, []uint32{0, 0, 200, 100}, voxel.Vec4{X: 200, Y: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pal := int32(len(tt.values) / int(tt.channels))
			// 16-bit index 1 at cell (0,0,1)
			data := mustEncode(t, header(1, 1, 2, pal, 16, tt.channels, tt.bits), []uint16{0, 1}, tt.values)
			c, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if len(c.Voxels) != 1 || c.Voxels[0].Position != (voxel.Vec3{Z: 1}) {
				t.Fatalf("voxels = %+v", c.Voxels)
			}
			if c.Palette[0].Colour != tt.want {
				t.Fatalf("colour = %+v, want %+v", c.Palette[0].Colour, tt.want)
			}
			if c.Palette[0].Properties != (voxel.Vec3{}) {
				t.Fatalf("properties = %+v, want zero", c.Palette[0].Properties)
			}
		})
	}
}

func TestDecode_LargeIndex16(t *testing.T) {
	const pal = 300
	data := mustEncode(t, header(1, 1, 1, pal, 16, 1, 8), []uint16{299}, make([]uint32, pal))
	// mark the referenced entry so it is recognisable after compaction
	data[len(data)-1] = 42
	c, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(c.Palette) != 1 || c.Palette[0].Colour.X != 42 || c.Voxels[0].Index != 0 {
		t.Fatalf("got palette %+v voxels %+v", c.Palette, c.Voxels)
	}
}

func TestDecode_Malformed(t *testing.T) {
	good := mustEncode(t, header(2, 2, 1, 2, 8, 4, 8), []uint16{1, 0, 0, 1}, make([]uint32, 8))
	withByte := func(off int, b byte) []byte {
		d := append([]byte(nil), good...)
		d[off] = b
		return d
	}
	withInt := func(off int, v int32) []byte {
		d := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(d[off:], uint32(v))
		return d
	}
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, voxel.ErrMalformedSource},
		{"short header", good[:HeaderSize-1], voxel.ErrMalformedSource},
		{"truncated grid", good[:HeaderSize+3], voxel.ErrMalformedSource},
		{"truncated palette", good[:len(good)-1], voxel.ErrMalformedSource},
		{"no palette", withByte(7, 0), voxel.ErrMalformedSource},
		{"bits per index 4", withByte(7, 4), voxel.ErrMalformedSource},
		{"bits per channel 12", withByte(6, 12), voxel.ErrMalformedSource},
		{"zero channels", withByte(5, 0), voxel.ErrMalformedSource},
		{"five channels", withByte(5, 5), voxel.ErrMalformedSource},
		{"negative width", withInt(8, -1), voxel.ErrMalformedSource},
		{"huge frame", withInt(16, 1<<30), voxel.ErrMalformedSource},
		{"negative palette", withInt(20, -2), voxel.ErrMalformedSource},
		{"huge palette", withInt(20, 1<<30), voxel.ErrMalformedSource},
		{"index past palette", withInt(20, 1), voxel.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(tt.data)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if c != nil {
				t.Fatalf("expected no container on failure")
			}
		})
	}
}

func TestDecode_AnyMagic(t *testing.T) {
	hdr := header(1, 1, 1, 2, 8, 1, 8)
	copy(hdr.Magic[:], "ABCD")
	if _, err := Decode(mustEncode(t, hdr, []uint16{1}, []uint32{0, 1})); err != nil {
		t.Fatalf("Decode rejected foreign magic: %v", err)
	}
}

func TestGroupMaterials_Mismatch(t *testing.T) {
	if _, err := groupMaterials(make([]uint32, 7), 3); !errors.Is(err, voxel.ErrMalformedSource) {
		t.Fatalf("expected ErrMalformedSource, got %v", err)
	}
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	if _, err := DecodeFile(filepath.Join(dir, "missing.xraw")); !errors.Is(err, voxel.ErrSourceUnreadable) {
		t.Fatalf("expected ErrSourceUnreadable, got %v", err)
	}
	path := filepath.Join(dir, "one.xraw")
	if err := os.WriteFile(path, mustEncode(t, header(1, 1, 1, 2, 8, 1, 8), []uint16{1}, []uint32{5, 6}), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(c.Voxels) != 1 || c.Palette[0].Colour.X != 6 {
		t.Fatalf("unexpected container %+v", c)
	}
}

func TestEncode_Rejects(t *testing.T) {
	if _, err := Encode(header(2, 1, 1, 1, 8, 1, 8), []uint16{1}, []uint32{0}); err == nil {
		t.Fatalf("expected error for short index grid")
	}
	if _, err := Encode(header(1, 1, 1, 1, 8, 1, 8), []uint16{256}, []uint32{0}); err == nil {
		t.Fatalf("expected error for 8-bit overflow")
	}
	if _, err := Encode(header(1, 1, 1, 2, 8, 2, 8), []uint16{1}, []uint32{0}); err == nil {
		t.Fatalf("expected error for short palette")
	}
}

func TestEncode_HeaderLayout(t *testing.T) {
	hdr := header(3, 1, 2, 2, 16, 2, 32)
	hdr.ChannelType = 7
	data := mustEncode(t, hdr, []uint16{0, 0x0102, 0, 0, 0, 0}, []uint32{0, 0, 0xA0B0C0D0, 5})
	if want := HeaderSize + 6*2 + 4*4; len(data) != want {
		t.Fatalf("length = %d, want %d", len(data), want)
	}
	if string(data[:4]) != Magic || data[4] != 7 || data[5] != 2 || data[6] != 32 || data[7] != 16 {
		t.Fatalf("header bytes = % x", data[:8])
	}
	got, err := ParseHeader(data)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	copy(hdr.Magic[:], Magic)
	if got != hdr {
		t.Fatalf("header = %+v, want %+v", got, hdr)
	}
	if idx := binary.LittleEndian.Uint16(data[HeaderSize+2:]); idx != 0x0102 {
		t.Fatalf("second index = %#x", idx)
	}
	if v := binary.LittleEndian.Uint32(data[HeaderSize+12+8:]); v != 0xA0B0C0D0 {
		t.Fatalf("third channel = %#x", v)
	}
}
