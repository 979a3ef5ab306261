package rimage

import (
	"context"
	"image"
	"image/color"
	"sync"

	"github.com/golang/geo/r2"

	"go.viam.com/camxform/utils"
)

// A Transformer maps pixel locations between an input image and an output image.
// Reverse takes an output location back to where it samples the input, Forward goes
// the other way. Either may fail for a given location.
type Transformer interface {
	Forward(p r2.Point) (r2.Point, error)
	Reverse(p r2.Point) (r2.Point, error)
}

// A TransformView is an image whose pixels are computed on demand by pulling each
// output location through a Transformer's Reverse into an edge extended and
// interpolated input. Nothing is computed until a pixel is requested.
type TransformView struct {
	src    *ExtendedImage
	tx     Transformer
	interp Interpolation
	bounds image.Rectangle

	errMu    sync.Mutex
	firstErr error
}

// Transform returns a lazy view of img resampled through tx. The view has the bounds of img.
// A nil edge means ZeroEdgeExtension and a nil interp means BilinearInterpolation.
func Transform(img image.Image, tx Transformer, edge EdgeExtension, interp Interpolation) *TransformView {
	return TransformWithBounds(img, tx, edge, interp, img.Bounds())
}

// TransformWithBounds is Transform with explicit output bounds.
func TransformWithBounds(
	img image.Image,
	tx Transformer,
	edge EdgeExtension,
	interp Interpolation,
	bounds image.Rectangle,
) *TransformView {
	if interp == nil {
		interp = BilinearInterpolation
	}
	return &TransformView{
		src:    NewExtendedImage(img, edge),
		tx:     tx,
		interp: interp,
		bounds: bounds,
	}
}

// Transformer returns the mapping the view samples through.
func (tv *TransformView) Transformer() Transformer {
	return tv.tx
}

// Edge returns the edge extension applied to the input.
func (tv *TransformView) Edge() EdgeExtension {
	return tv.src.Edge()
}

// Interpolation returns the interpolation applied to the input.
func (tv *TransformView) Interpolation() Interpolation {
	return tv.interp
}

// ColorModel implements image.Image.
func (tv *TransformView) ColorModel() color.Model {
	return color.RGBA64Model
}

// Bounds implements image.Image.
func (tv *TransformView) Bounds() image.Rectangle {
	return tv.bounds
}

// Pixel computes the output sample at (x, y). Locations outside of the view's bounds are
// transparent black. Locations that map outside of the source under a zero or constant edge
// extension are its fill.
func (tv *TransformView) Pixel(x, y int) (Pixel, error) {
	if !image.Pt(x, y).In(tv.bounds) {
		return Pixel{}, nil
	}
	srcPt, err := tv.tx.Reverse(r2.Point{X: float64(x), Y: float64(y)})
	if err != nil {
		return Pixel{}, err
	}
	if tv.src.FillsAt(srcPt.X, srcPt.Y) {
		return tv.src.Edge().Fill(), nil
	}
	return tv.interp.Interpolate(tv.src, srcPt.X, srcPt.Y), nil
}

// RGBA64At implements image.RGBA64Image. A location that cannot be mapped is transparent
// black and its error is kept for Err.
func (tv *TransformView) RGBA64At(x, y int) color.RGBA64 {
	p, err := tv.Pixel(x, y)
	if err != nil {
		tv.recordErr(err)
		return color.RGBA64{}
	}
	return p.RGBA64()
}

// At implements image.Image. See RGBA64At.
func (tv *TransformView) At(x, y int) color.Color {
	return tv.RGBA64At(x, y)
}

// Err returns the first error hit by At or RGBA64At, if any.
func (tv *TransformView) Err() error {
	tv.errMu.Lock()
	defer tv.errMu.Unlock()
	return tv.firstErr
}

func (tv *TransformView) recordErr(err error) {
	tv.errMu.Lock()
	defer tv.errMu.Unlock()
	if tv.firstErr == nil {
		tv.firstErr = err
	}
}

// Materialize computes every pixel of the view into a new image, splitting rows across
// utils.ParallelFactor goroutines. It stops at the first mapping error or when ctx is done.
func (tv *TransformView) Materialize(ctx context.Context) (*image.RGBA64, error) {
	out := image.NewRGBA64(tv.bounds)
	minX, minY := tv.bounds.Min.X, tv.bounds.Min.Y
	err := utils.ParallelForEachRowBand(ctx, tv.bounds.Dy(), func(ctx context.Context, from, to int) error {
		for row := from; row < to; row++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			y := minY + row
			for x := minX; x < tv.bounds.Max.X; x++ {
				p, err := tv.Pixel(x, y)
				if err != nil {
					return err
				}
				out.SetRGBA64(x, y, p.RGBA64())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
