package rimage

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font/gofont/goregular"
)

var font *truetype.Font

// init sets up the fonts we want to use.
func init() {
	var err error
	font, err = truetype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
}

// Font returns the font we use for drawing.
func Font() *truetype.Font {
	return font
}

// DrawString writes a string to the given context at a particular point.
func DrawString(dc *gg.Context, text string, p image.Point, c color.Color, size float64) {
	dc.SetFontFace(truetype.NewFace(Font(), &truetype.Options{Size: size}))
	dc.SetColor(c)
	dc.DrawStringWrapped(text, float64(p.X), float64(p.Y), 0, 0, float64(dc.Width()), 1, 0)
}

// GridOptions describes a calibration grid image.
type GridOptions struct {
	Width, Height int
	// Spacing is the distance in pixels between grid lines.
	Spacing int
	// LineWidth is the stroke width of every grid line.
	LineWidth  float64
	Background color.Color
	Foreground color.Color
	// Labels draws the pixel coordinate of every other intersection.
	Labels bool
}

// DefaultGridOptions returns black lines every 40 pixels on white.
func DefaultGridOptions(width, height int) GridOptions {
	return GridOptions{
		Width:      width,
		Height:     height,
		Spacing:    40,
		LineWidth:  2,
		Background: color.White,
		Foreground: color.Black,
	}
}

// DrawGrid renders a grid of straight lines. Straight lines make distortion and its
// correction easy to see.
func DrawGrid(opts GridOptions) (image.Image, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, errors.Errorf("grid size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	if opts.Spacing <= 0 {
		return nil, errors.Errorf("grid spacing must be positive, got %d", opts.Spacing)
	}
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(opts.Background)
	dc.Clear()

	dc.SetColor(opts.Foreground)
	dc.SetLineWidth(opts.LineWidth)
	for x := 0; x <= opts.Width; x += opts.Spacing {
		dc.DrawLine(float64(x), 0, float64(x), float64(opts.Height))
		dc.Stroke()
	}
	for y := 0; y <= opts.Height; y += opts.Spacing {
		dc.DrawLine(0, float64(y), float64(opts.Width), float64(y))
		dc.Stroke()
	}

	DrawRectangleEmpty(dc, image.Rect(0, 0, opts.Width, opts.Height), opts.Foreground, 2*opts.LineWidth)

	if opts.Labels {
		size := float64(opts.Spacing) / 4
		for y := 0; y < opts.Height; y += 2 * opts.Spacing {
			for x := 0; x < opts.Width; x += 2 * opts.Spacing {
				DrawString(dc, fmt.Sprintf("%d,%d", x, y), image.Pt(x+3, y+3), opts.Foreground, size)
			}
		}
	}
	return dc.Image(), nil
}

// DrawRectangleEmpty draws the given rectangle into the context. The positions of the
// rectangle are used to place it within the context.
func DrawRectangleEmpty(dc *gg.Context, r image.Rectangle, c color.Color, width float64) {
	dc.SetColor(c)
	dc.SetLineWidth(width)
	dc.DrawRectangle(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy()))
	dc.Stroke()
}
