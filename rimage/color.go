package rimage

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// ParseColor parses a "#rrggbb" hex color into an opaque color. The empty string is
// transparent black.
func ParseColor(hex string) (color.Color, error) {
	if hex == "" {
		return color.RGBA64{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrapf(err, "bad color %q", hex)
	}
	return c, nil
}

// ColorHex formats a color as "#rrggbb", dropping alpha.
func ColorHex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent
		return "#000000"
	}
	return cf.Clamped().Hex()
}

// Resize scales img to width x height. A zero width or height keeps the aspect ratio.
func Resize(img image.Image, width, height int) (image.Image, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, errors.Errorf("invalid resize target %dx%d", width, height)
	}
	return resize.Resize(uint(width), uint(height), img, resize.Bilinear), nil
}
