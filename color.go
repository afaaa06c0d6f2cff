package tilepass

import "math"

// Color is an RGBA color with float32 channels in [0, 1].
//
// Picking colors additionally serve as 24-bit instance identifiers: the
// identifier index lives in the R/G/B bytes, alpha is always 1 so the picking
// pass never writes a transparent pixel.
type Color struct {
	R float32
	G float32
	B float32
	A float32
}

// NewColorRGB builds an opaque color from 8-bit channels.
func NewColorRGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// ColorFromIndex encodes a 24-bit index into the R/G/B bytes of an opaque
// color. Indexes above 0xFFFFFF wrap silently.
func ColorFromIndex(index uint32) Color {
	return NewColorRGB(
		uint8(index>>16),
		uint8(index>>8),
		uint8(index),
	)
}

// Index recovers the 24-bit index encoded by ColorFromIndex. Channels are
// rounded back to bytes, so a color that round-tripped through an 8-bit
// render target still resolves to its original index.
func (c Color) Index() uint32 {
	r := uint32(math.Round(float64(c.R) * 255.0))
	g := uint32(math.Round(float64(c.G) * 255.0))
	b := uint32(math.Round(float64(c.B) * 255.0))
	return r<<16 | g<<8 | b
}

// Array returns the color as the [4]float32 layout used by vertex records.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func colorFromArray(v [4]float32) Color {
	return Color{R: v[0], G: v[1], B: v[2], A: v[3]}
}
