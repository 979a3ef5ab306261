package config

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/rimage"
	"go.viam.com/camxform/rimage/transform"
)

func validCamera() *transform.CameraConfig {
	return &transform.CameraConfig{
		Intrinsics: &transform.PinholeCameraIntrinsics{Width: 64, Height: 48, Fx: 40, Fy: 40, Ppx: 32, Ppy: 24},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	err := cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "source_camera")

	cfg.SourceCamera = &transform.CameraConfig{}
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "job.source_camera")

	cfg.SourceCamera = validCamera()
	test.That(t, cfg.Validate("job"), test.ShouldBeNil)

	cfg.DestinationCamera = &transform.CameraConfig{}
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "job.destination_camera")
	cfg.DestinationCamera = validCamera()

	cfg.EdgeExtension = "wrap"
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown edge extension")
	cfg.EdgeExtension = rimage.ConstantEdgeName

	cfg.EdgeColor = "blue"
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad color")
	cfg.EdgeColor = "#0000ff"

	cfg.Interpolation = "sinc"
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown interpolation")
	cfg.Interpolation = rimage.BicubicName

	cfg.Parallelism = -1
	test.That(t, cfg.Validate("job"), test.ShouldNotBeNil)
	cfg.Parallelism = 2

	cfg.Log = []logging.LoggerPatternConfig{{Pattern: "camxform.*", Level: "debug"}, {Pattern: "a..b", Level: "info"}}
	err = cfg.Validate("job")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "job.log.1")
	cfg.Log = cfg.Log[:1]

	test.That(t, cfg.Validate("job"), test.ShouldBeNil)
}

func TestConfigPolicies(t *testing.T) {
	cfg := &Config{SourceCamera: validCamera()}
	edge, err := cfg.Edge()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, edge, test.ShouldEqual, rimage.ZeroEdgeExtension)
	interp, err := cfg.Interp()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, interp, test.ShouldEqual, rimage.BilinearInterpolation)

	cfg.EdgeExtension = rimage.ConstantEdgeName
	cfg.EdgeColor = "#00ff00"
	edge, err = cfg.Edge()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, edge.Fill(), test.ShouldResemble, rimage.Pixel{G: 0xffff, A: 0xffff})
}

func TestConfigCameras(t *testing.T) {
	cfg := &Config{SourceCamera: validCamera()}
	src, dst, err := cfg.Cameras()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, src, test.ShouldNotBeNil)
	test.That(t, dst, test.ShouldBeNil)

	cfg.DestinationCamera = validCamera()
	cfg.DestinationCamera.Center = []float64{0, 0, 1}
	_, dst, err = cfg.Cameras()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dst.CameraCenter(r2.Point{}), test.ShouldNotResemble, src.CameraCenter(r2.Point{}))

	cfg.DestinationCamera = &transform.CameraConfig{}
	_, _, err = cfg.Cameras()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad destination_camera")
}
