package api

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/voxelsplace/voxconv/voxel"
)

// channelMax is the full-scale value of a channel stored with the given width.
func channelMax(bits uint8) float64 {
	if bits == 0 || bits > 32 {
		bits = 8
	}
	return float64(uint64(1)<<bits - 1)
}

// Colour maps a material to an sRGB colour and an alpha in [0,1]. Single
// channel palettes are treated as grey; alpha is opaque unless the palette
// carries a fourth channel.
func Colour(m voxel.Material, channels, bits uint8) (colorful.Color, float64) {
	full := channelMax(bits)
	r := float64(m.Colour.X) / full
	g := float64(m.Colour.Y) / full
	b := float64(m.Colour.Z) / full
	if channels == 1 {
		g, b = r, r
	}
	a := 1.0
	if channels >= 4 {
		a = float64(m.Colour.W) / full
	}
	return colorful.Color{R: r, G: g, B: b}.Clamped(), a
}

// LinearRGBA returns the material colour in linear space, as glTF vertex
// colours expect.
func LinearRGBA(m voxel.Material, channels, bits uint8) [4]float32 {
	c, a := Colour(m, channels, bits)
	r, g, b := c.LinearRgb()
	return [4]float32{float32(r), float32(g), float32(b), float32(a)}
}

// Hex returns the material as #rrggbb.
func Hex(m voxel.Material, channels, bits uint8) string {
	c, _ := Colour(m, channels, bits)
	return c.Hex()
}
