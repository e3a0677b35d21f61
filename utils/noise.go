package utils

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/voxelsplace/voxconv/xraw"
)

// NoiseOptions describes the random .xraw files produced by RunGenerateNoiseXRAW.
type NoiseOptions struct {
	Width, Height, Depth int
	Percentage           float64 // share of occupied cells, 0..100
	PaletteSize          int     // 2..65536; slot 0 is never referenced
	Amount               int
	OutDir               string
	Seed                 int64 // 0 seeds from the clock
}

// generateNoiseGrid fills the given percentage of cells with random indices
// in [1, paletteSize). Remaining cells are 0 (empty).
func generateNoiseGrid(w, h, d int, percentage float64, paletteSize int, r *rand.Rand) []uint16 {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	total := w * h * d
	want := int(float64(total)*(percentage/100.0) + 0.5)
	if want > total {
		want = total
	}

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	// Fisher-Yates shuffle only first 'want' items
	for i := 0; i < want; i++ {
		j := i + r.Intn(total-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	grid := make([]uint16, total)
	for k := 0; k < want; k++ {
		grid[idx[k]] = uint16(1 + r.Intn(paletteSize-1))
	}
	return grid
}

// NoiseXRAW builds one random RGBA8 .xraw asset.
func NoiseXRAW(opts NoiseOptions, r *rand.Rand) ([]byte, error) {
	if opts.PaletteSize < 2 || opts.PaletteSize > 1<<16 {
		return nil, fmt.Errorf("palette size %d outside 2..65536", opts.PaletteSize)
	}
	if opts.Width < 0 || opts.Height < 0 || opts.Depth < 0 {
		return nil, fmt.Errorf("negative frame %dx%dx%d", opts.Width, opts.Height, opts.Depth)
	}
	hdr := xraw.Header{
		ChannelNum:     4,
		BitsPerChannel: 8,
		BitsPerIndex:   8,
		Width:          int32(opts.Width),
		Height:         int32(opts.Height),
		Depth:          int32(opts.Depth),
		PaletteSize:    int32(opts.PaletteSize),
	}
	if opts.PaletteSize > 256 {
		hdr.BitsPerIndex = 16
	}
	grid := generateNoiseGrid(opts.Width, opts.Height, opts.Depth, opts.Percentage, opts.PaletteSize, r)
	channels := make([]uint32, opts.PaletteSize*4)
	for i := range channels {
		channels[i] = uint32(r.Intn(256))
	}
	return xraw.Encode(hdr, grid, channels)
}

// RunGenerateNoiseXRAW writes opts.Amount files named 0.xraw..(n-1).xraw into opts.OutDir.
func RunGenerateNoiseXRAW(opts NoiseOptions) error {
	if opts.OutDir == "" {
		opts.OutDir = "."
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return err
	}
	baseSeed := uint64(opts.Seed)
	if baseSeed == 0 {
		baseSeed = uint64(time.Now().UnixNano())
	}
	for i := 0; i < opts.Amount; i++ {
		// per-file seed from a Weyl progression
		const weyl = uint64(0x9e3779b97f4a7c15)
		seed := baseSeed ^ (uint64(i)+1)*weyl
		r := rand.New(rand.NewSource(int64(seed & 0x7fffffffffffffff)))

		data, err := NoiseXRAW(opts, r)
		if err != nil {
			return err
		}
		path := filepath.Join(opts.OutDir, fmt.Sprintf("%d.xraw", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("save %s: %w", path, err)
		}
	}
	return nil
}
