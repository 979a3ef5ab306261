package transform

import "github.com/pkg/errors"

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// InverseBrownConradyDistortionType is for lenses calibrated with the Brown-Conrady polynomial
	// running from distorted to undistorted coordinates.
	InverseBrownConradyDistortionType = DistortionType("inverse_brown_conrady")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lense distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
)

// Distorter defines a Transform that takes an undistorted image and distorts it according to the model.
// Coordinates are normalized image coordinates, i.e. pixels with the intrinsics removed.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	// Clone returns an independent copy of the model.
	Clone() Distorter
	// Transform maps undistorted coordinates to distorted ones.
	Transform(x, y float64) (float64, float64)
	// Undistort is the inverse of Transform.
	Undistort(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrapf(errors.New("invalid distortion_parameters"), msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case BrownConradyDistortionType:
		return NewBrownConrady(parameters)
	case InverseBrownConradyDistortionType:
		return NewInverseBrownConrady(parameters)
	case KannalaBrandtDistortionType:
		return NewKannalaBrandt(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// padParameters copies inp into a slice of exactly n values, filling missing values with 0.0.
func padParameters(inp []float64, n int) ([]float64, error) {
	if len(inp) > n {
		return nil, errors.Errorf("list of parameters too long, expected max %d, got %d", n, len(inp))
	}
	out := make([]float64, n)
	copy(out, inp)
	return out, nil
}
