package transform

// InverseBrownConrady is the Brown-Conrady polynomial pointed the other way: the
// polynomial takes distorted points to undistorted ones, so distorting a point
// means solving it.
type InverseBrownConrady struct {
	BrownConrady
}

// NewInverseBrownConrady takes in a slice of floats that will be passed into the struct in order.
func NewInverseBrownConrady(inp []float64) (*InverseBrownConrady, error) {
	bc, err := NewBrownConrady(inp)
	if err != nil {
		return nil, err
	}
	return &InverseBrownConrady{*bc}, nil
}

// CheckValid checks if the fields for InverseBrownConrady have valid inputs.
func (ibc *InverseBrownConrady) CheckValid() error {
	if ibc == nil {
		return InvalidDistortionError("InverseBrownConrady shaped distortion_parameters not provided")
	}
	return ibc.BrownConrady.CheckValid()
}

// Clone returns a copy of the model.
func (ibc *InverseBrownConrady) Clone() Distorter {
	if ibc == nil {
		return nil
	}
	clone := *ibc
	return &clone
}

// ModelType returns the type of distortion model.
func (ibc *InverseBrownConrady) ModelType() DistortionType {
	return InverseBrownConradyDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (ibc *InverseBrownConrady) Parameters() []float64 {
	if ibc == nil {
		return []float64{}
	}
	return ibc.BrownConrady.Parameters()
}

// Transform distorts (x, y) by finding the point the polynomial sends to (x, y).
func (ibc *InverseBrownConrady) Transform(x, y float64) (float64, float64) {
	if ibc == nil {
		return x, y
	}
	return brownConradyInverse(&ibc.BrownConrady, x, y)
}

// Undistort evaluates the polynomial at (x, y).
func (ibc *InverseBrownConrady) Undistort(x, y float64) (float64, float64) {
	if ibc == nil {
		return x, y
	}
	return brownConradyForward(&ibc.BrownConrady, x, y)
}
