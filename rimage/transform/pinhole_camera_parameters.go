package transform

import (
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/camxform/rimage"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrapf(ErrNoIntrinsics, msg)
}

// PinholeCameraModel is the model of a pinhole camera.
type PinholeCameraModel struct {
	*PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	Distortion               Distorter `json:"distortion"`
}

// DistortionMap is a function that transforms the undistorted input points (u,v) to the distorted points (x,y)
// according to the model in PinholeCameraModel.Distortion.
func (params *PinholeCameraModel) DistortionMap() func(u, v float64) (float64, float64) {
	return func(u, v float64) (float64, float64) {
		if params.Distortion == nil {
			return u, v
		}
		x, y, _ := params.PixelToPoint(u, v, 1)
		x, y = params.Distortion.Transform(x, y)
		return params.PointToPixel(x, y, 1)
	}
}

// Camera returns the model as a PinholeCamera at the origin looking down +Z.
func (params *PinholeCameraModel) Camera() (*PinholeCamera, error) {
	return NewPinholeCamera(params.PinholeCameraIntrinsics, params.Distortion, r3.Vector{}, nil)
}

// UndistortImage takes an input image and creates a new image the same size with the same camera parameters
// as the original image, but undistorted according to the distortion model in PinholeCameraModel. A bilinear
// interpolation is used to interpolate values between image pixels and samples that fall outside of img
// are transparent black.
func (params *PinholeCameraModel) UndistortImage(img image.Image) (*rimage.TransformView, error) {
	if img == nil {
		return nil, errors.New("input image is nil")
	}
	if params.PinholeCameraIntrinsics == nil {
		return nil, NewNoIntrinsicsError("Intrinsics do not exist")
	}
	// Check dimensions, they should be equal between the color image and what the intrinsics expect
	size := img.Bounds().Size()
	if params.Width != size.X || params.Height != size.Y {
		return nil, errors.Errorf("img dimension and intrinsics don't match Image(%d,%d) != Intrinsics(%d,%d)",
			size.X, size.Y, params.Width, params.Height)
	}
	camera, err := params.Camera()
	if err != nil {
		return nil, err
	}
	return LinearizeCameraTransformImage(img, camera)
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// NewPinholeCameraIntrinsicsFromJSONFile reads PinholeCameraIntrinsics from a JSON file.
func NewPinholeCameraIntrinsicsFromJSONFile(jsonPath string) (*PinholeCameraIntrinsics, error) {
	intrinsics := &PinholeCameraIntrinsics{}
	if err := readJSONFile(jsonPath, intrinsics); err != nil {
		return nil, err
	}
	return intrinsics, nil
}

func readJSONFile(jsonPath string, into interface{}) error {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return errors.Wrap(err, "error opening JSON file")
	}
	defer goutils.UncheckedErrorFunc(jsonFile.Close)
	data, err := io.ReadAll(jsonFile)
	if err != nil {
		return errors.Wrap(err, "error reading JSON data")
	}
	if err := json.Unmarshal(data, into); err != nil {
		return errors.Wrap(err, "error parsing JSON string")
	}
	return nil
}

// Scaled returns the intrinsics of the same lens imaged onto a width x height sensor.
func (params *PinholeCameraIntrinsics) Scaled(width, height int) *PinholeCameraIntrinsics {
	sx := float64(width) / float64(params.Width)
	sy := float64(height) / float64(params.Height)
	return &PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     params.Fx * sx,
		Fy:     params.Fy * sy,
		Ppx:    params.Ppx * sx,
		Ppy:    params.Ppy * sy,
	}
}

// PixelToPoint lifts the pixel (x, y) to the 3D point at depth z in the camera frame.
func (params *PinholeCameraIntrinsics) PixelToPoint(x, y, z float64) (float64, float64, float64) {
	if params == nil {
		return 0, 0, 0
	}
	return z * (x - params.Ppx) / params.Fx, z * (y - params.Ppy) / params.Fy, z
}

// PointToPixel projects a point in the camera frame to a sub-pixel location. Points at zero
// depth land on (-1, -1), outside of every image.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64) {
	if z == 0 {
		return -1, -1
	}
	return x/z*params.Fx + params.Ppx, y/z*params.Fy + params.Ppy
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}
