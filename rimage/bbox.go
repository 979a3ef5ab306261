package rimage

import (
	"image"
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// ComputeTransformedBBox returns the smallest rectangle containing every border pixel of bounds
// after it is pushed through tx's Forward. Interior pixels are not visited, so the result is
// only exact for mappings that keep the border on the outside.
func ComputeTransformedBBox(tx Transformer, bounds image.Rectangle) (image.Rectangle, error) {
	if bounds.Empty() {
		return image.Rectangle{}, errors.New("cannot compute the transformed box of empty bounds")
	}
	lo := r2.Point{X: math.Inf(1), Y: math.Inf(1)}
	hi := r2.Point{X: math.Inf(-1), Y: math.Inf(-1)}
	visit := func(x, y int) error {
		p, err := tx.Forward(r2.Point{X: float64(x), Y: float64(y)})
		if err != nil {
			return err
		}
		lo.X, lo.Y = math.Min(lo.X, p.X), math.Min(lo.Y, p.Y)
		hi.X, hi.Y = math.Max(hi.X, p.X), math.Max(hi.Y, p.Y)
		return nil
	}
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		if err := visit(x, bounds.Min.Y); err != nil {
			return image.Rectangle{}, err
		}
		if err := visit(x, bounds.Max.Y-1); err != nil {
			return image.Rectangle{}, err
		}
	}
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		if err := visit(bounds.Min.X, y); err != nil {
			return image.Rectangle{}, err
		}
		if err := visit(bounds.Max.X-1, y); err != nil {
			return image.Rectangle{}, err
		}
	}
	return image.Rect(
		int(math.Floor(lo.X)),
		int(math.Floor(lo.Y)),
		int(math.Ceil(hi.X))+1,
		int(math.Ceil(hi.Y))+1,
	), nil
}

// TransformToFit is Transform with output bounds grown or shrunk to hold the whole
// transformed input.
func TransformToFit(img image.Image, tx Transformer, edge EdgeExtension, interp Interpolation) (*TransformView, error) {
	bounds, err := ComputeTransformedBBox(tx, img.Bounds())
	if err != nil {
		return nil, err
	}
	return TransformWithBounds(img, tx, edge, interp, bounds), nil
}
