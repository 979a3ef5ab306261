package transform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestCameraConfigValidate(t *testing.T) {
	var nilCfg *CameraConfig
	err := nilCfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "camera")

	cfg := &CameraConfig{}
	err = cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "intrinsic_parameters")

	cfg.Intrinsics = &PinholeCameraIntrinsics{Width: 10, Height: 10, Fx: -1, Fy: 1}
	err = cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "Invalid focal length Fx")

	cfg.Intrinsics = testIntrinsics()
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)

	cfg.DistortionParameters = []float64{0.1}
	err = cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "distortion_type")

	cfg.DistortionType = "mystery"
	err = cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "do not know how to parse")

	cfg.DistortionType = BrownConradyDistortionType
	test.That(t, cfg.Validate("path"), test.ShouldBeNil)

	cfg.Center = []float64{1, 2}
	err = cfg.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "center must have 3 values")
}

func TestCameraConfigCamera(t *testing.T) {
	cfg := &CameraConfig{
		Intrinsics:           testIntrinsics(),
		DistortionType:       KannalaBrandtDistortionType,
		DistortionParameters: []float64{0.01},
		Center:               []float64{1, 2, 3},
		Orientation:          &Orientation{YawDeg: 90},
	}
	cam, err := cfg.Camera()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Center(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, cam.Distortion().ModelType(), test.ShouldEqual, KannalaBrandtDistortionType)
	test.That(t, cam.Rotation().At(1, 0), test.ShouldAlmostEqual, 1)

	cfg = &CameraConfig{Intrinsics: testIntrinsics()}
	cam, err = cfg.Camera()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cam.Distortion(), test.ShouldBeNil)
	test.That(t, cam.Center(), test.ShouldResemble, r3.Vector{})

	_, err = (&CameraConfig{}).Camera()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewCameraConfigFromJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "camera.json")
	contents := `{
		"intrinsic_parameters": {"width_px": 200, "height_px": 160, "fx": 120, "fy": 110, "ppx": 99.5, "ppy": 79.5},
		"distortion_type": "brown_conrady",
		"distortion_parameters": [0.1, 0.01],
		"orientation": {"roll_deg": 0, "pitch_deg": 5, "yaw_deg": 0}
	}`
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)

	cfg, err := NewCameraConfigFromJSONFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Intrinsics, test.ShouldResemble, testIntrinsics())
	test.That(t, cfg.DistortionType, test.ShouldEqual, BrownConradyDistortionType)
	test.That(t, cfg.DistortionParameters, test.ShouldResemble, []float64{0.1, 0.01})
	test.That(t, cfg.Orientation.PitchDeg, test.ShouldEqual, 5.)

	_, err = NewCameraConfigFromJSONFile(filepath.Join(dir, "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	bad := filepath.Join(dir, "bad.json")
	test.That(t, os.WriteFile(bad, []byte("{"), 0o600), test.ShouldBeNil)
	_, err = NewCameraConfigFromJSONFile(bad)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "error parsing JSON string")
}
