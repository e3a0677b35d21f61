package xraw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/voxelsplace/voxconv/voxel"
)

var errTruncated = io.ErrUnexpectedEOF

// DecodeFile reads and decodes an .xraw file.
func DecodeFile(filename string) (*voxel.Container, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", voxel.ErrSourceUnreadable, err)
	}
	return Decode(data)
}

// Decode parses an XRAW asset and returns a container with its palette
// already compacted by voxel.OptimizePalette.
func Decode(data []byte) (*voxel.Container, error) {
	hdr, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if err := hdr.validate(); err != nil {
		return nil, err
	}
	body := data[HeaderSize:]

	c := &voxel.Container{
		NumColourChannels: hdr.ChannelNum,
		BitsPerChannel:    hdr.BitsPerChannel,
		FrameSize:         voxel.Vec3{X: uint32(hdr.Width), Y: uint32(hdr.Height), Z: uint32(hdr.Depth)},
	}

	// The index block covers every cell, empty or not.
	bytesPerIndex := int64(hdr.BitsPerIndex / 8)
	gridLen, err := sizeWithin(len(body), int64(hdr.Width), int64(hdr.Height), int64(hdr.Depth), bytesPerIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: index grid %dx%dx%d exceeds %d available bytes", voxel.ErrMalformedSource, hdr.Width, hdr.Height, hdr.Depth, len(body))
	}
	c.Voxels = readGrid(body[:gridLen], hdr)
	body = body[gridLen:]

	channels, err := readChannels(body, hdr)
	if err != nil {
		return nil, err
	}
	if c.Palette, err = groupMaterials(channels, int(hdr.ChannelNum)); err != nil {
		return nil, err
	}

	if err := voxel.OptimizePalette(c); err != nil {
		return nil, err
	}
	return c, nil
}

// readGrid scans Y, then X, then Z and keeps every non-zero index. grid must
// hold exactly width*height*depth indices.
func readGrid(grid []byte, hdr Header) []voxel.Voxel {
	if len(grid) == 0 {
		// some dimension is zero
		return nil
	}
	w, h, d := int(hdr.Width), int(hdr.Height), int(hdr.Depth)
	var voxels []voxel.Voxel
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for z := 0; z < d; z++ {
				addr := x + y*w + z*(w*h)
				var index uint16
				if hdr.BitsPerIndex == 16 {
					index = binary.LittleEndian.Uint16(grid[2*addr:])
				} else {
					index = uint16(grid[addr])
				}
				if index == 0 {
					continue
				}
				voxels = append(voxels, voxel.Voxel{
					Position: voxel.Vec3{X: uint32(x), Y: uint32(y), Z: uint32(z)},
					Index:    index,
				})
			}
		}
	}
	return voxels
}

// readChannels reads paletteSize*channelNum scalars of bitsPerChannel each.
func readChannels(body []byte, hdr Header) ([]uint32, error) {
	bytesPerChannel := int64(hdr.BitsPerChannel / 8)
	n, err := sizeWithin(len(body), int64(hdr.PaletteSize), int64(hdr.ChannelNum))
	if err == nil {
		_, err = sizeWithin(len(body), int64(n), bytesPerChannel)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: palette of %d entries exceeds %d available bytes", voxel.ErrMalformedSource, hdr.PaletteSize, len(body))
	}

	r := bytes.NewReader(body)
	channels := make([]uint32, n)
	for i := range channels {
		switch hdr.BitsPerChannel {
		case 8:
			var v uint8
			err = binary.Read(r, binary.LittleEndian, &v)
			channels[i] = uint32(v)
		case 16:
			var v uint16
			err = binary.Read(r, binary.LittleEndian, &v)
			channels[i] = uint32(v)
		case 32:
			err = binary.Read(r, binary.LittleEndian, &channels[i])
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = errTruncated
			}
			return nil, fmt.Errorf("%w: palette channel %d: %w", voxel.ErrMalformedSource, i, err)
		}
	}
	return channels, nil
}

// groupMaterials folds consecutive channel scalars into RGBA colours, zero
// filling the channels the source does not carry.
func groupMaterials(channels []uint32, channelNum int) ([]voxel.Material, error) {
	if channelNum < 1 || channelNum > 4 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", voxel.ErrMalformedSource, channelNum)
	}
	if len(channels)%channelNum != 0 {
		return nil, fmt.Errorf("%w: %d channel values do not group into %d-channel colours", voxel.ErrMalformedSource, len(channels), channelNum)
	}
	palette := make([]voxel.Material, 0, len(channels)/channelNum)
	for i := 0; i < len(channels); i += channelNum {
		var rgba [4]uint32
		copy(rgba[:], channels[i:i+channelNum])
		palette = append(palette, voxel.Material{
			Colour: voxel.Vec4{X: rgba[0], Y: rgba[1], Z: rgba[2], W: rgba[3]},
		})
	}
	return palette, nil
}
