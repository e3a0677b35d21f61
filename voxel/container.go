package voxel

// Vec3 holds three unsigned 32-bit components. Used for voxel positions,
// frame sizes and material properties.
type Vec3 struct {
	X, Y, Z uint32
}

// Vec4 holds four unsigned 32-bit components (RGBA for material colours).
type Vec4 struct {
	X, Y, Z, W uint32
}

// Voxel is a single occupied cell. Index 0 in source data means empty and is
// never materialised; after OptimizePalette, Index is a 0-based palette slot.
type Voxel struct {
	Position Vec3
	Index    uint16
}

// Material is one palette entry. Colour channels missing from the source are
// zero. Properties are persisted but carry no meaning yet.
type Material struct {
	Colour     Vec4
	Properties Vec3
}

// Container is the in-memory voxel asset shared by the decoders and encoders.
type Container struct {
	Voxels  []Voxel
	Palette []Material

	NumColourChannels uint8
	BitsPerChannel    uint8

	FrameSize Vec3 // X=width, Y=height, Z=depth
}

// CheckIndices reports ErrIndexOutOfRange if any voxel references a slot
// outside the palette.
func (c *Container) CheckIndices() error {
	for i, v := range c.Voxels {
		if int(v.Index) >= len(c.Palette) {
			return indexError(i, v.Index, len(c.Palette))
		}
	}
	return nil
}
