package rimage

import (
	"image"
)

// ExtendedImage is an image that can be sampled at any integer location. Samples
// outside of the wrapped image come from its EdgeExtension.
type ExtendedImage struct {
	img    image.Image
	bounds image.Rectangle
	edge   EdgeExtension
}

// NewExtendedImage wraps img with edge. A nil edge means ZeroEdgeExtension.
func NewExtendedImage(img image.Image, edge EdgeExtension) *ExtendedImage {
	if edge == nil {
		edge = ZeroEdgeExtension
	}
	return &ExtendedImage{img: img, bounds: img.Bounds(), edge: edge}
}

// Bounds returns the bounds of the wrapped image.
func (ei *ExtendedImage) Bounds() image.Rectangle {
	return ei.bounds
}

// Edge returns the edge extension in use.
func (ei *ExtendedImage) Edge() EdgeExtension {
	return ei.edge
}

// FillsAt reports whether the continuous location (x, y) lies outside of [Min, Max) of the
// image under an edge extension that fills. Every sample taken there is the fill, so
// interpolating kernels must not blend in border pixels.
func (ei *ExtendedImage) FillsAt(x, y float64) bool {
	if _, ok := ei.edge.(filler); !ok {
		return false
	}
	return x < float64(ei.bounds.Min.X) || x >= float64(ei.bounds.Max.X) ||
		y < float64(ei.bounds.Min.Y) || y >= float64(ei.bounds.Max.Y)
}

// PixelAt returns the sample at (x, y).
func (ei *ExtendedImage) PixelAt(x, y int) Pixel {
	if !image.Pt(x, y).In(ei.bounds) {
		p, ok := ei.edge.Extend(ei.bounds, x, y)
		if !ok {
			return ei.edge.Fill()
		}
		x, y = p.X, p.Y
	}
	if rgba64, ok := ei.img.(image.RGBA64Image); ok {
		c := rgba64.RGBA64At(x, y)
		return Pixel{float64(c.R), float64(c.G), float64(c.B), float64(c.A)}
	}
	return NewPixel(ei.img.At(x, y))
}
