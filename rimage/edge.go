package rimage

import (
	"image"
	"image/color"
	"strings"

	"github.com/pkg/errors"
)

// An EdgeExtension decides what a sample outside of an image's bounds looks like.
type EdgeExtension interface {
	// Name is the identifier used in configuration files.
	Name() string
	// Extend maps (x, y) onto a pixel inside bounds. If ok is false there is no such
	// pixel and the sample is Fill.
	Extend(bounds image.Rectangle, x, y int) (p image.Point, ok bool)
	// Fill is the value of samples that Extend does not map into the image.
	Fill() Pixel
}

// Names of the built in edge extensions.
const (
	ZeroEdgeName     = "zero"
	ConstantEdgeName = "constant"
	ClampEdgeName    = "clamp"
	ReflectEdgeName  = "reflect"
	PeriodicEdgeName = "periodic"
)

var (
	// ZeroEdgeExtension fills everything outside the image with transparent black.
	ZeroEdgeExtension EdgeExtension = zeroEdge{}
	// ClampEdgeExtension repeats the nearest border pixel.
	ClampEdgeExtension EdgeExtension = clampEdge{}
	// ReflectEdgeExtension mirrors the image about its borders, repeating the border pixel once
	// (abc|cba).
	ReflectEdgeExtension EdgeExtension = reflectEdge{}
	// PeriodicEdgeExtension tiles the image.
	PeriodicEdgeExtension EdgeExtension = periodicEdge{}
)

// ConstantEdgeExtension fills everything outside the image with c.
func ConstantEdgeExtension(c color.Color) EdgeExtension {
	return constantEdge{fill: NewPixel(c)}
}

// ParseEdgeExtension looks up an edge extension by name. fill is only used by the constant
// extension; an empty name means zero.
func ParseEdgeExtension(name string, fill color.Color) (EdgeExtension, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", ZeroEdgeName:
		return ZeroEdgeExtension, nil
	case ConstantEdgeName:
		return ConstantEdgeExtension(fill), nil
	case ClampEdgeName:
		return ClampEdgeExtension, nil
	case ReflectEdgeName:
		return ReflectEdgeExtension, nil
	case PeriodicEdgeName:
		return PeriodicEdgeExtension, nil
	default:
		return nil, errors.Errorf("unknown edge extension %q", name)
	}
}

// filler is implemented by edge extensions whose Extend never maps a sample into the image.
type filler interface {
	fillsOutside()
}

type zeroEdge struct{}

func (zeroEdge) fillsOutside() {}

func (zeroEdge) Name() string { return ZeroEdgeName }

func (zeroEdge) Extend(bounds image.Rectangle, x, y int) (image.Point, bool) {
	return image.Point{}, false
}

func (zeroEdge) Fill() Pixel { return Pixel{} }

type constantEdge struct {
	fill Pixel
}

func (constantEdge) fillsOutside() {}

func (constantEdge) Name() string { return ConstantEdgeName }

func (constantEdge) Extend(bounds image.Rectangle, x, y int) (image.Point, bool) {
	return image.Point{}, false
}

func (e constantEdge) Fill() Pixel { return e.fill }

type clampEdge struct{}

func (clampEdge) Name() string { return ClampEdgeName }

func (clampEdge) Extend(bounds image.Rectangle, x, y int) (image.Point, bool) {
	if bounds.Empty() {
		return image.Point{}, false
	}
	return image.Pt(
		clampIndex(x, bounds.Min.X, bounds.Max.X),
		clampIndex(y, bounds.Min.Y, bounds.Max.Y),
	), true
}

func (clampEdge) Fill() Pixel { return Pixel{} }

type reflectEdge struct{}

func (reflectEdge) Name() string { return ReflectEdgeName }

func (reflectEdge) Extend(bounds image.Rectangle, x, y int) (image.Point, bool) {
	if bounds.Empty() {
		return image.Point{}, false
	}
	return image.Pt(
		reflectIndex(x, bounds.Min.X, bounds.Max.X),
		reflectIndex(y, bounds.Min.Y, bounds.Max.Y),
	), true
}

func (reflectEdge) Fill() Pixel { return Pixel{} }

type periodicEdge struct{}

func (periodicEdge) Name() string { return PeriodicEdgeName }

func (periodicEdge) Extend(bounds image.Rectangle, x, y int) (image.Point, bool) {
	if bounds.Empty() {
		return image.Point{}, false
	}
	return image.Pt(
		positiveMod(x-bounds.Min.X, bounds.Dx())+bounds.Min.X,
		positiveMod(y-bounds.Min.Y, bounds.Dy())+bounds.Min.Y,
	), true
}

func (periodicEdge) Fill() Pixel { return Pixel{} }

// clampIndex limits i to [lo, hi).
func clampIndex(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i >= hi {
		return hi - 1
	}
	return i
}

// reflectIndex folds i into [lo, hi) by mirroring about the borders.
func reflectIndex(i, lo, hi int) int {
	n := hi - lo
	m := positiveMod(i-lo, 2*n)
	if m >= n {
		m = 2*n - 1 - m
	}
	return lo + m
}

func positiveMod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
