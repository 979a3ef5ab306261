package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// Orientation is a camera orientation as roll, pitch, and yaw in degrees. See
// RotationFromEulerAngles.
type Orientation struct {
	RollDeg  float64 `json:"roll_deg"`
	PitchDeg float64 `json:"pitch_deg"`
	YawDeg   float64 `json:"yaw_deg"`
}

// CameraConfig describes a PinholeCamera in JSON.
type CameraConfig struct {
	Intrinsics           *PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	DistortionType       DistortionType           `json:"distortion_type,omitempty"`
	DistortionParameters []float64                `json:"distortion_parameters,omitempty"`
	// Center is the camera center as [x, y, z]. Empty means the origin.
	Center      []float64    `json:"center,omitempty"`
	Orientation *Orientation `json:"orientation,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (cfg *CameraConfig) Validate(path string) error {
	if cfg == nil {
		return goutils.NewConfigValidationFieldRequiredError(path, "camera")
	}
	if cfg.Intrinsics == nil {
		return goutils.NewConfigValidationFieldRequiredError(path, "intrinsic_parameters")
	}
	if err := cfg.Intrinsics.CheckValid(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if cfg.DistortionType == "" && len(cfg.DistortionParameters) != 0 {
		return goutils.NewConfigValidationFieldRequiredError(path, "distortion_type")
	}
	if _, err := cfg.distorter(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if len(cfg.Center) != 0 && len(cfg.Center) != 3 {
		return goutils.NewConfigValidationError(path, errors.Errorf("center must have 3 values, got %d", len(cfg.Center)))
	}
	return nil
}

func (cfg *CameraConfig) distorter() (Distorter, error) {
	if cfg.DistortionType == "" {
		return nil, nil
	}
	distortion, err := NewDistorter(cfg.DistortionType, cfg.DistortionParameters)
	if err != nil {
		return nil, err
	}
	if err := distortion.CheckValid(); err != nil {
		return nil, err
	}
	return distortion, nil
}

// Camera builds the camera the config describes.
func (cfg *CameraConfig) Camera() (*PinholeCamera, error) {
	if err := cfg.Validate("camera"); err != nil {
		return nil, err
	}
	distortion, err := cfg.distorter()
	if err != nil {
		return nil, err
	}
	var center r3.Vector
	if len(cfg.Center) == 3 {
		center = r3.Vector{X: cfg.Center[0], Y: cfg.Center[1], Z: cfg.Center[2]}
	}
	var rotation mat.Matrix
	if cfg.Orientation != nil {
		rotation = RotationFromEulerAngles(cfg.Orientation.RollDeg, cfg.Orientation.PitchDeg, cfg.Orientation.YawDeg)
	}
	return NewPinholeCamera(cfg.Intrinsics, distortion, center, rotation)
}

// NewCameraConfigFromJSONFile reads a CameraConfig from a JSON file.
func NewCameraConfigFromJSONFile(jsonPath string) (*CameraConfig, error) {
	var cfg CameraConfig
	if err := readJSONFile(jsonPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
