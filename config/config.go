// Package config defines the structures to configure a camera transform job.
package config

import (
	"fmt"
	"image/color"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/rimage"
	"go.viam.com/camxform/rimage/transform"
)

// A Config describes how to resample images from one camera into another.
type Config struct {
	SourceCamera *transform.CameraConfig `json:"source_camera"`
	// DestinationCamera is the camera to resample into. When absent the source camera is
	// linearized instead.
	DestinationCamera *transform.CameraConfig `json:"destination_camera,omitempty"`
	EdgeExtension     string                  `json:"edge_extension,omitempty"`
	// EdgeColor is the "#rrggbb" fill of the constant edge extension.
	EdgeColor     string `json:"edge_color,omitempty"`
	Interpolation string `json:"interpolation,omitempty"`
	// Parallelism bounds the goroutines used to compute output images. Zero keeps the default.
	Parallelism int `json:"parallelism,omitempty"`

	Log []logging.LoggerPatternConfig `json:"log,omitempty"`

	ConfigFilePath string `json:"-"`
}

// Validate returns an error if the config is invalid.
func (c *Config) Validate(path string) error {
	if c.SourceCamera == nil {
		return goutils.NewConfigValidationFieldRequiredError(path, "source_camera")
	}
	if err := c.SourceCamera.Validate(joinPath(path, "source_camera")); err != nil {
		return err
	}
	if c.DestinationCamera != nil {
		if err := c.DestinationCamera.Validate(joinPath(path, "destination_camera")); err != nil {
			return err
		}
	}
	if _, err := c.Edge(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if _, err := c.Interp(); err != nil {
		return goutils.NewConfigValidationError(path, err)
	}
	if c.Parallelism < 0 {
		return goutils.NewConfigValidationError(path, errors.Errorf("parallelism cannot be negative, got %d", c.Parallelism))
	}
	for idx, lpc := range c.Log {
		if err := lpc.Validate(joinPath(path, fmt.Sprintf("log.%d", idx))); err != nil {
			return err
		}
	}
	return nil
}

// Edge returns the configured edge extension.
func (c *Config) Edge() (rimage.EdgeExtension, error) {
	var fill color.Color = color.RGBA64{}
	if c.EdgeColor != "" {
		parsed, err := rimage.ParseColor(c.EdgeColor)
		if err != nil {
			return nil, err
		}
		fill = parsed
	}
	return rimage.ParseEdgeExtension(c.EdgeExtension, fill)
}

// Interp returns the configured interpolation.
func (c *Config) Interp() (rimage.Interpolation, error) {
	return rimage.ParseInterpolation(c.Interpolation)
}

// Cameras builds the source camera and, if configured, the destination camera.
func (c *Config) Cameras() (src, dst transform.CameraModel, err error) {
	srcCam, err := c.SourceCamera.Camera()
	if err != nil {
		return nil, nil, errors.Wrap(err, "bad source_camera")
	}
	if c.DestinationCamera == nil {
		return srcCam, nil, nil
	}
	dstCam, err := c.DestinationCamera.Camera()
	if err != nil {
		return nil, nil, errors.Wrap(err, "bad destination_camera")
	}
	return srcCam, dstCam, nil
}

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}
