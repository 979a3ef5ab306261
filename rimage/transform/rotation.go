package transform

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

const rotationTolerance = 1e-6

// eye returns the n x n identity.
func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1.)
	}
	return m
}

// RotationFromEulerAngles returns the rotation R = Rz(yaw) * Ry(pitch) * Rx(roll). Angles are
// in degrees.
func RotationFromEulerAngles(rollDeg, pitchDeg, yawDeg float64) *mat.Dense {
	r, p, y := rollDeg*math.Pi/180, pitchDeg*math.Pi/180, yawDeg*math.Pi/180
	rx := mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, math.Cos(r), -math.Sin(r),
		0, math.Sin(r), math.Cos(r),
	})
	ry := mat.NewDense(3, 3, []float64{
		math.Cos(p), 0, math.Sin(p),
		0, 1, 0,
		-math.Sin(p), 0, math.Cos(p),
	})
	rz := mat.NewDense(3, 3, []float64{
		math.Cos(y), -math.Sin(y), 0,
		math.Sin(y), math.Cos(y), 0,
		0, 0, 1,
	})
	var zy, out mat.Dense
	zy.Mul(rz, ry)
	out.Mul(&zy, rx)
	return &out
}

// CheckRotation returns an error unless m is a 3x3 proper rotation.
func CheckRotation(m mat.Matrix) error {
	rows, cols := m.Dims()
	if rows != 3 || cols != 3 {
		return errors.Errorf("rotation must be 3x3, got %dx%d", rows, cols)
	}
	var rtr mat.Dense
	rtr.Mul(m.T(), m)
	if !mat.EqualApprox(&rtr, eye(3), rotationTolerance) {
		return errors.New("rotation is not orthonormal")
	}
	if det := mat.Det(m); math.Abs(det-1) > rotationTolerance {
		return errors.Errorf("rotation determinant must be 1, got %v", det)
	}
	return nil
}
