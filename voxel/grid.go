package voxel

import "fmt"

// maxGridCells bounds the dense grid built for meshing (64 MiB of cells).
// Frames come from untrusted headers and are checked before allocating.
const maxGridCells = 1 << 24

// Grid is a dense view of a Container sized by its FrameSize.
// Cells store palette slot+1; 0 is empty.
type Grid struct {
	Width, Height, Depth int
	cells                []uint32
}

// NewGrid rasterises the container's voxels into a dense grid. Voxels outside
// the frame are reported as ErrMalformedSource.
func NewGrid(c *Container) (*Grid, error) {
	w, h, d := int(c.FrameSize.X), int(c.FrameSize.Y), int(c.FrameSize.Z)
	if wh := uint64(w) * uint64(h); d != 0 && wh > maxGridCells/uint64(d) {
		return nil, fmt.Errorf("%w: frame %dx%dx%d too large to rasterise", ErrMalformedSource, w, h, d)
	}
	g := &Grid{Width: w, Height: h, Depth: d, cells: make([]uint32, w*h*d)}
	for i, v := range c.Voxels {
		x, y, z := int(v.Position.X), int(v.Position.Y), int(v.Position.Z)
		if x >= w || y >= h || z >= d {
			return nil, fmt.Errorf("%w: voxel %d at (%d,%d,%d) outside frame %dx%dx%d", ErrMalformedSource, i, x, y, z, w, h, d)
		}
		g.cells[x+y*w+z*w*h] = uint32(v.Index) + 1
	}
	return g, nil
}

// At returns the palette slot at (x,y,z) and whether the cell is occupied.
// Coordinates outside the grid are empty.
func (g *Grid) At(x, y, z int) (uint16, bool) {
	c := g.cell(x, y, z)
	if c == 0 {
		return 0, false
	}
	return uint16(c - 1), true
}

func (g *Grid) cell(x, y, z int) uint32 {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height || z < 0 || z >= g.Depth {
		return 0
	}
	return g.cells[x+y*g.Width+z*g.Width*g.Height]
}
