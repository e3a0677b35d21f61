package xraw

import (
	"encoding/binary"
	"fmt"

	"github.com/voxelsplace/voxconv/voxel"
)

// Encode builds an XRAW file. indices is the dense grid addressed as
// x + y*width + z*width*height; channels holds PaletteSize*ChannelNum scalars.
// A zero Magic is replaced by "XRAW".
func Encode(hdr Header, indices []uint16, channels []uint32) ([]byte, error) {
	if err := hdr.validate(); err != nil {
		return nil, err
	}
	cells := int(hdr.Width) * int(hdr.Height) * int(hdr.Depth)
	if len(indices) != cells {
		return nil, fmt.Errorf("%w: %d indices for %d cells", voxel.ErrMalformedSource, len(indices), cells)
	}
	if want := int(hdr.PaletteSize) * int(hdr.ChannelNum); len(channels) != want {
		return nil, fmt.Errorf("%w: %d channel values, want %d", voxel.ErrMalformedSource, len(channels), want)
	}
	if hdr.Magic == [4]byte{} {
		copy(hdr.Magic[:], Magic)
	}

	le := binary.LittleEndian
	size := HeaderSize + cells*int(hdr.BitsPerIndex/8) + len(channels)*int(hdr.BitsPerChannel/8)
	out := make([]byte, 0, size)
	out = append(out, hdr.Magic[:]...)
	out = append(out, hdr.ChannelType, hdr.ChannelNum, hdr.BitsPerChannel, hdr.BitsPerIndex)
	out = le.AppendUint32(out, uint32(hdr.Width))
	out = le.AppendUint32(out, uint32(hdr.Height))
	out = le.AppendUint32(out, uint32(hdr.Depth))
	out = le.AppendUint32(out, uint32(hdr.PaletteSize))

	for _, idx := range indices {
		if hdr.BitsPerIndex == 16 {
			out = le.AppendUint16(out, idx)
			continue
		}
		if idx > 0xFF {
			return nil, fmt.Errorf("%w: index %d does not fit 8 bits", voxel.ErrMalformedSource, idx)
		}
		out = append(out, uint8(idx))
	}
	for _, v := range channels {
		switch hdr.BitsPerChannel {
		case 8:
			out = append(out, uint8(v))
		case 16:
			out = le.AppendUint16(out, uint16(v))
		case 32:
			out = le.AppendUint32(out, v)
		}
	}
	return out, nil
}
