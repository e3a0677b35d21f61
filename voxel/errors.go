package voxel

import (
	"errors"
	"fmt"
)

// Conversion failures. Every error returned by this module wraps exactly one
// of these, so callers can classify with errors.Is.
var (
	ErrSourceUnreadable      = errors.New("source unreadable")
	ErrMalformedSource       = errors.New("malformed source")
	ErrIndexOutOfRange       = errors.New("palette index out of range")
	ErrDestinationUnwritable = errors.New("destination unwritable")
)

func indexError(voxel int, index uint16, paletteLen int) error {
	return fmt.Errorf("%w: voxel %d references slot %d, palette has %d entries", ErrIndexOutOfRange, voxel, index, paletteLen)
}
