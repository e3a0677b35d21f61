package ovox

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/voxelsplace/voxconv/voxel"
)

// Magic opens every OVOX file.
const Magic = "OVOX"

const (
	// HeaderSize is magic(4) + channels(1) + bits(1) + frame(12) + counts(8).
	HeaderSize  = 26
	voxelSize   = 14
	paletteSize = 28
)

// fieldWriter writes little-endian fields one at a time and keeps the first error.
type fieldWriter struct {
	w   io.Writer
	err error
}

func (fw *fieldWriter) put(v any) {
	if fw.err != nil {
		return
	}
	fw.err = binary.Write(fw.w, binary.LittleEndian, v)
}

// Write serialises the container in OVOX layout. Counts above 2^32-1 are
// truncated to 32 bits.
func Write(w io.Writer, c *voxel.Container) error {
	bw := bufio.NewWriter(w)
	fw := &fieldWriter{w: bw}

	fw.put([]byte(Magic))
	fw.put(c.NumColourChannels)
	fw.put(c.BitsPerChannel)
	fw.put(c.FrameSize.X)
	fw.put(c.FrameSize.Y)
	fw.put(c.FrameSize.Z)
	fw.put(uint32(len(c.Voxels)))
	fw.put(uint32(len(c.Palette)))

	for _, v := range c.Voxels {
		fw.put(v.Position.X)
		fw.put(v.Position.Y)
		fw.put(v.Position.Z)
		fw.put(v.Index)
	}
	for _, m := range c.Palette {
		fw.put(m.Colour.X)
		fw.put(m.Colour.Y)
		fw.put(m.Colour.Z)
		fw.put(m.Colour.W)
		fw.put(m.Properties.X)
		fw.put(m.Properties.Y)
		fw.put(m.Properties.Z)
	}
	if fw.err != nil {
		return fw.err
	}
	return bw.Flush()
}

// Encode returns the container as OVOX bytes.
func Encode(c *voxel.Container) []byte {
	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(c.Voxels)*voxelSize + len(c.Palette)*paletteSize)
	_ = Write(&buf, c)
	return buf.Bytes()
}

// Save encodes the container and writes it to filename.
func Save(c *voxel.Container, filename string) error {
	return SaveBytes(filename, Encode(c))
}

// SaveBytes writes already-encoded OVOX data to filename. A partially
// written file is removed.
func SaveBytes(filename string, data []byte) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", voxel.ErrDestinationUnwritable, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(filename)
		return fmt.Errorf("%w: %w", voxel.ErrDestinationUnwritable, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(filename)
		return fmt.Errorf("%w: %w", voxel.ErrDestinationUnwritable, err)
	}
	return nil
}

// Digest is the xxh64 of encoded OVOX bytes.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}
