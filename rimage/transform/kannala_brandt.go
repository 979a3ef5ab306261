package transform

import (
	"math"
)

// KannalaBrandt is the equidistant fisheye model. A ray at angle θ from the optical
// axis lands at radius
//
//	θ_d = θ * (1 + k1*θ² + k2*θ⁴ + k3*θ⁶ + k4*θ⁸)
//
// in normalized image coordinates.
type KannalaBrandt struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	K3 float64 `json:"k3"`
	K4 float64 `json:"k4"`
}

// NewKannalaBrandt takes in a slice of floats that will be passed into the struct in order.
func NewKannalaBrandt(inp []float64) (*KannalaBrandt, error) {
	p, err := padParameters(inp, 4)
	if err != nil {
		return nil, err
	}
	return &KannalaBrandt{p[0], p[1], p[2], p[3]}, nil
}

// CheckValid checks if the fields for KannalaBrandt have valid inputs.
func (kb *KannalaBrandt) CheckValid() error {
	if kb == nil {
		return InvalidDistortionError("KannalaBrandt shaped distortion_parameters not provided")
	}
	for _, p := range kb.Parameters() {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return InvalidDistortionError("KannalaBrandt parameters must be finite")
		}
	}
	return nil
}

// Clone returns a copy of the model.
func (kb *KannalaBrandt) Clone() Distorter {
	if kb == nil {
		return nil
	}
	clone := *kb
	return &clone
}

// ModelType returns the type of distortion model.
func (kb *KannalaBrandt) ModelType() DistortionType {
	return KannalaBrandtDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (kb *KannalaBrandt) Parameters() []float64 {
	if kb == nil {
		return []float64{}
	}
	return []float64{kb.K1, kb.K2, kb.K3, kb.K4}
}

func (kb *KannalaBrandt) thetaD(theta float64) float64 {
	t2 := theta * theta
	return theta * (1 + t2*(kb.K1+t2*(kb.K2+t2*(kb.K3+t2*kb.K4))))
}

func (kb *KannalaBrandt) thetaDDerivative(theta float64) float64 {
	t2 := theta * theta
	return 1 + t2*(3*kb.K1+t2*(5*kb.K2+t2*(7*kb.K3+t2*9*kb.K4)))
}

// Transform distorts the undistorted point (x, y).
func (kb *KannalaBrandt) Transform(x, y float64) (float64, float64) {
	if kb == nil {
		return x, y
	}
	r := math.Hypot(x, y)
	if r == 0 {
		return x, y
	}
	scale := kb.thetaD(math.Atan(r)) / r
	return x * scale, y * scale
}

// Undistort recovers the undistorted point that Transform would map to (x, y)
// by solving for θ with Newton-Raphson.
func (kb *KannalaBrandt) Undistort(x, y float64) (float64, float64) {
	if kb == nil {
		return x, y
	}
	rd := math.Hypot(x, y)
	if rd == 0 {
		return x, y
	}

	const maxIterations = 20
	const tolerance = 1e-12

	theta := rd
	for i := 0; i < maxIterations; i++ {
		f := kb.thetaD(theta) - rd
		if math.Abs(f) < tolerance {
			break
		}
		d := kb.thetaDDerivative(theta)
		if d == 0 {
			break
		}
		theta -= f / d
	}
	// rays at or past 90 degrees do not reach the image plane
	theta = math.Min(theta, math.Pi/2-1e-9)
	scale := math.Tan(theta) / rd
	return x * scale, y * scale
}
