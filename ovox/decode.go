package ovox

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/voxelsplace/voxconv/voxel"
)

// LoadFile reads and parses an .ovox file.
func LoadFile(filename string) (*voxel.Container, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", voxel.ErrSourceUnreadable, err)
	}
	return Decode(data)
}

// Decode parses OVOX bytes back into a container. The buffer must hold
// exactly the records its header announces.
func Decode(data []byte) (*voxel.Container, error) {
	if len(data) < HeaderSize || string(data[:4]) != Magic {
		return nil, fmt.Errorf("%w: not an OVOX file", voxel.ErrMalformedSource)
	}
	le := binary.LittleEndian
	c := &voxel.Container{
		NumColourChannels: data[4],
		BitsPerChannel:    data[5],
		FrameSize:         voxel.Vec3{X: le.Uint32(data[6:]), Y: le.Uint32(data[10:]), Z: le.Uint32(data[14:])},
	}
	voxelCount := le.Uint32(data[18:])
	paletteCount := le.Uint32(data[22:])

	body := data[HeaderSize:]
	want := uint64(voxelCount)*voxelSize + uint64(paletteCount)*paletteSize
	if have := uint64(len(body)); have != want {
		return nil, fmt.Errorf("%w: %d voxels and %d colours need %d bytes, have %d", voxel.ErrMalformedSource, voxelCount, paletteCount, want, have)
	}

	c.Voxels = make([]voxel.Voxel, voxelCount)
	for i := range c.Voxels {
		rec := body[i*voxelSize : (i+1)*voxelSize]
		c.Voxels[i] = voxel.Voxel{
			Position: voxel.Vec3{X: le.Uint32(rec[0:]), Y: le.Uint32(rec[4:]), Z: le.Uint32(rec[8:])},
			Index:    le.Uint16(rec[12:]),
		}
	}
	body = body[len(c.Voxels)*voxelSize:]

	c.Palette = make([]voxel.Material, paletteCount)
	for i := range c.Palette {
		rec := body[i*paletteSize : (i+1)*paletteSize]
		c.Palette[i] = voxel.Material{
			Colour:     voxel.Vec4{X: le.Uint32(rec[0:]), Y: le.Uint32(rec[4:]), Z: le.Uint32(rec[8:]), W: le.Uint32(rec[12:])},
			Properties: voxel.Vec3{X: le.Uint32(rec[16:]), Y: le.Uint32(rec[20:]), Z: le.Uint32(rec[24:])},
		}
	}
	return c, nil
}
