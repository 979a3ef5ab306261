package rimage

import (
	"math"
	"strings"

	"github.com/pkg/errors"
)

// An Interpolation reconstructs a sample at a real valued location from the
// integer samples of an ExtendedImage. Integer coordinates are pixel centers.
type Interpolation interface {
	Name() string
	Interpolate(src *ExtendedImage, x, y float64) Pixel
}

// Names of the built in interpolations.
const (
	NearestName  = "nearest"
	BilinearName = "bilinear"
	BicubicName  = "bicubic"
)

var (
	// NearestInterpolation takes the sample of the closest pixel center.
	NearestInterpolation Interpolation = nearest{}
	// BilinearInterpolation blends the four surrounding samples.
	BilinearInterpolation Interpolation = bilinear{}
	// BicubicInterpolation applies a Catmull-Rom kernel to the surrounding 4x4 samples.
	BicubicInterpolation Interpolation = bicubic{}
)

// ParseInterpolation looks up an interpolation by name. An empty name means bilinear.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NearestName:
		return NearestInterpolation, nil
	case "", BilinearName:
		return BilinearInterpolation, nil
	case BicubicName:
		return BicubicInterpolation, nil
	default:
		return nil, errors.Errorf("unknown interpolation %q", name)
	}
}

type nearest struct{}

func (nearest) Name() string { return NearestName }

func (nearest) Interpolate(src *ExtendedImage, x, y float64) Pixel {
	return src.PixelAt(int(math.Floor(x+0.5)), int(math.Floor(y+0.5)))
}

type bilinear struct{}

func (bilinear) Name() string { return BilinearName }

func (bilinear) Interpolate(src *ExtendedImage, x, y float64) Pixel {
	x0f, y0f := math.Floor(x), math.Floor(y)
	dx, dy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	// skip samples with no weight so exact pixel centers never touch their neighbors
	var out Pixel
	for _, s := range [4]struct {
		x, y int
		w    float64
	}{
		{x0, y0, (1 - dx) * (1 - dy)},
		{x0 + 1, y0, dx * (1 - dy)},
		{x0, y0 + 1, (1 - dx) * dy},
		{x0 + 1, y0 + 1, dx * dy},
	} {
		if s.w == 0 {
			continue
		}
		out = out.Add(src.PixelAt(s.x, s.y).Scale(s.w))
	}
	return out
}

type bicubic struct{}

func (bicubic) Name() string { return BicubicName }

func (bicubic) Interpolate(src *ExtendedImage, x, y float64) Pixel {
	x0f, y0f := math.Floor(x), math.Floor(y)
	dx, dy := x-x0f, y-y0f
	x0, y0 := int(x0f), int(y0f)

	var wx, wy [4]float64
	for i := 0; i < 4; i++ {
		wx[i] = catmullRom(dx - float64(i-1))
		wy[i] = catmullRom(dy - float64(i-1))
	}

	var out Pixel
	for j := 0; j < 4; j++ {
		if wy[j] == 0 {
			continue
		}
		var row Pixel
		for i := 0; i < 4; i++ {
			if wx[i] == 0 {
				continue
			}
			row = row.Add(src.PixelAt(x0+i-1, y0+j-1).Scale(wx[i]))
		}
		out = out.Add(row.Scale(wy[j]))
	}
	return out
}

// catmullRom is the cubic convolution kernel with a = -0.5.
func catmullRom(t float64) float64 {
	const a = -0.5
	t = math.Abs(t)
	switch {
	case t < 1:
		return (a+2)*t*t*t - (a+3)*t*t + 1
	case t < 2:
		return a*t*t*t - 5*a*t*t + 8*a*t - 4*a
	default:
		return 0
	}
}
