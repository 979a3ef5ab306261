package rimage

import (
	"image/color"
	"math"
)

// MaxChannelValue is the value of a fully saturated channel in a Pixel.
const MaxChannelValue = 0xffff

// A Pixel is an alpha-premultiplied RGBA sample stored as floats on the same
// 16-bit scale as color.RGBA64. Floats let interpolation kernels accumulate
// weighted sums, including the negative lobes of the bicubic kernel, without
// clipping at every step.
type Pixel struct {
	R, G, B, A float64
}

// NewPixel converts any color into a Pixel.
func NewPixel(c color.Color) Pixel {
	if c == nil {
		return Pixel{}
	}
	r, g, b, a := c.RGBA()
	return Pixel{float64(r), float64(g), float64(b), float64(a)}
}

// Add returns the channel-wise sum of two pixels.
func (p Pixel) Add(o Pixel) Pixel {
	return Pixel{p.R + o.R, p.G + o.G, p.B + o.B, p.A + o.A}
}

// Scale returns the pixel with every channel multiplied by s.
func (p Pixel) Scale(s float64) Pixel {
	return Pixel{p.R * s, p.G * s, p.B * s, p.A * s}
}

// IsZero returns whether the pixel is fully transparent black.
func (p Pixel) IsZero() bool {
	return p == Pixel{}
}

// RGBA64 clips the pixel to a valid premultiplied color and rounds it.
func (p Pixel) RGBA64() color.RGBA64 {
	a := clampChannel(p.A, MaxChannelValue)
	return color.RGBA64{
		R: uint16(clampChannel(p.R, a)),
		G: uint16(clampChannel(p.G, a)),
		B: uint16(clampChannel(p.B, a)),
		A: uint16(a),
	}
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return p.RGBA64().RGBA()
}

// clampChannel rounds v into [0, limit]. Premultiplied color channels can never exceed alpha.
func clampChannel(v, limit float64) float64 {
	v = math.Round(v)
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
