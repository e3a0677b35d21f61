package xraw

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/voxelsplace/voxconv/voxel"
)

// Magic is written by Encode. Decode accepts any four bytes.
const Magic = "XRAW"

// HeaderSize is the fixed length of the XRAW header in bytes.
const HeaderSize = 24

// Header holds the fixed XRAW fields preceding the index grid.
type Header struct {
	Magic          [4]byte
	ChannelType    uint8 // read and preserved, not interpreted
	ChannelNum     uint8
	BitsPerChannel uint8
	BitsPerIndex   uint8 // 0 means no palette
	Width          int32
	Height         int32
	Depth          int32
	PaletteSize    int32
}

// ParseHeader reads the header from the start of data.
func ParseHeader(data []byte) (Header, error) {
	var hdr Header
	if len(data) < HeaderSize {
		return hdr, fmt.Errorf("%w: header needs %d bytes, have %d", voxel.ErrMalformedSource, HeaderSize, len(data))
	}
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &hdr); err != nil {
		return hdr, fmt.Errorf("%w: header: %w", voxel.ErrMalformedSource, err)
	}
	return hdr, nil
}

func (h Header) validate() error {
	switch h.BitsPerIndex {
	case 8, 16:
	case 0:
		return fmt.Errorf("%w: file has no palette (bits per index 0)", voxel.ErrMalformedSource)
	default:
		return fmt.Errorf("%w: unsupported bits per index %d", voxel.ErrMalformedSource, h.BitsPerIndex)
	}
	switch h.BitsPerChannel {
	case 8, 16, 32:
	default:
		return fmt.Errorf("%w: unsupported bits per channel %d", voxel.ErrMalformedSource, h.BitsPerChannel)
	}
	if h.ChannelNum < 1 || h.ChannelNum > 4 {
		return fmt.Errorf("%w: unsupported channel count %d", voxel.ErrMalformedSource, h.ChannelNum)
	}
	if h.Width < 0 || h.Height < 0 || h.Depth < 0 {
		return fmt.Errorf("%w: negative frame %dx%dx%d", voxel.ErrMalformedSource, h.Width, h.Height, h.Depth)
	}
	if h.PaletteSize < 0 {
		return fmt.Errorf("%w: negative palette size %d", voxel.ErrMalformedSource, h.PaletteSize)
	}
	return nil
}

// sizeWithin multiplies factors and fails once the product would exceed avail.
func sizeWithin(avail int, factors ...int64) (int, error) {
	for _, f := range factors {
		if f == 0 {
			return 0, nil
		}
	}
	n := int64(1)
	for _, f := range factors {
		if n > int64(avail)/f {
			return 0, errTruncated
		}
		n *= f
	}
	return int(n), nil
}
