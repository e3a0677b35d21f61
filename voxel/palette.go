package voxel

import "slices"

// OptimizePalette drops palette entries no voxel references and renumbers the
// rest densely. The new palette keeps the ascending order of the raw indices,
// so raw {5,2,2,9} becomes [entry@2, entry@5, entry@9] with voxels remapped to
// 1,0,0,2. On error the container is left untouched.
func OptimizePalette(c *Container) error {
	// raw index -> positions in c.Voxels
	slots := make(map[uint16][]int)
	for i, v := range c.Voxels {
		slots[v.Index] = append(slots[v.Index], i)
	}
	raw := make([]uint16, 0, len(slots))
	for idx := range slots {
		raw = append(raw, idx)
	}
	slices.Sort(raw)

	if n := len(raw); n > 0 && int(raw[n-1]) >= len(c.Palette) {
		bad := raw[n-1]
		return indexError(slots[bad][0], bad, len(c.Palette))
	}

	palette := make([]Material, 0, len(raw))
	for dense, idx := range raw {
		palette = append(palette, c.Palette[idx])
		for _, i := range slots[idx] {
			c.Voxels[i].Index = uint16(dense)
		}
	}
	c.Palette = palette
	return nil
}
