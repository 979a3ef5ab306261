package transform

import (
	"fmt"
	"image"
	"sync/atomic"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/rimage"
)

// ErrCameraCenterMismatch is returned when the source and destination cameras do not share a
// camera center at the pixel being mapped. Rays can only be carried between two cameras that
// agree on where they start.
var ErrCameraCenterMismatch = errors.New("camera transformation requires that the camera center is always the same for both cameras")

var packageLogger atomic.Pointer[logging.Logger]

func init() {
	SetLogger(logging.NewLogger("camxform.transform"))
}

// SetLogger replaces the logger used by the image transform functions. It is safe to call while
// views are being built on other goroutines.
func SetLogger(l logging.Logger) {
	packageLogger.Store(&l)
}

func currentLogger() logging.Logger {
	return *packageLogger.Load()
}

// A CameraTransform maps pixels of an image taken by one camera onto the image a second
// camera with the same center would have taken. It is a rimage.Transformer.
type CameraTransform struct {
	src CameraModel
	dst CameraModel
}

// NewCameraTransform returns the transform from images of src to images of dst. Both models
// are copied when they implement Cloner.
func NewCameraTransform(src, dst CameraModel) *CameraTransform {
	return &CameraTransform{src: cloneModel(src), dst: cloneModel(dst)}
}

// Source returns the camera that took the input image.
func (ct *CameraTransform) Source() CameraModel {
	return ct.src
}

// Destination returns the camera whose view is being produced.
func (ct *CameraTransform) Destination() CameraModel {
	return ct.dst
}

// Reverse takes a pixel of the destination image back to the source pixel that sees the same ray.
func (ct *CameraTransform) Reverse(p r2.Point) (r2.Point, error) {
	if err := checkCenters(ct.src, ct.dst, p); err != nil {
		return r2.Point{}, err
	}
	vec, err := ct.dst.PixelToVector(p)
	if err != nil {
		return r2.Point{}, err
	}
	return ct.src.PointToPixel(vec.Add(ct.src.CameraCenter(p)))
}

// Forward takes a pixel of the source image to the destination pixel that sees the same ray.
func (ct *CameraTransform) Forward(p r2.Point) (r2.Point, error) {
	if err := checkCenters(ct.src, ct.dst, p); err != nil {
		return r2.Point{}, err
	}
	vec, err := ct.src.PixelToVector(p)
	if err != nil {
		return r2.Point{}, err
	}
	return ct.dst.PointToPixel(vec.Add(ct.dst.CameraCenter(p)))
}

func checkCenters(src, dst CameraModel, p r2.Point) error {
	srcCenter, dstCenter := src.CameraCenter(p), dst.CameraCenter(p)
	if srcCenter != dstCenter {
		return errors.Wrapf(ErrCameraCenterMismatch, "at pixel %v source center %v != destination center %v",
			p, srcCenter, dstCenter)
	}
	return nil
}

// CameraTransformImage returns a lazy view of img, taken by src, as dst would have taken it.
// Samples outside of img are transparent black and are blended bilinearly.
func CameraTransformImage(img image.Image, src, dst CameraModel) *rimage.TransformView {
	return CameraTransformImageWithEdge(img, src, dst, rimage.ZeroEdgeExtension)
}

// CameraTransformImageWithEdge is CameraTransformImage with a chosen edge extension.
func CameraTransformImageWithEdge(img image.Image, src, dst CameraModel, edge rimage.EdgeExtension) *rimage.TransformView {
	return CameraTransformImageWithPolicies(img, src, dst, edge, rimage.BilinearInterpolation)
}

// CameraTransformImageWithPolicies is CameraTransformImage with a chosen edge extension and
// interpolation.
func CameraTransformImageWithPolicies(
	img image.Image,
	src, dst CameraModel,
	edge rimage.EdgeExtension,
	interp rimage.Interpolation,
) *rimage.TransformView {
	return transformImage(img, NewCameraTransform(src, dst), edge, interp)
}

// LinearizeCameraTransformImage returns a lazy view of img, taken by src, with the lens
// distortion of src removed. Samples outside of img are transparent black and are blended
// bilinearly.
func LinearizeCameraTransformImage(img image.Image, src CameraModel) (*rimage.TransformView, error) {
	return LinearizeCameraTransformImageWithEdge(img, src, rimage.ZeroEdgeExtension)
}

// LinearizeCameraTransformImageWithEdge is LinearizeCameraTransformImage with a chosen edge extension.
func LinearizeCameraTransformImageWithEdge(
	img image.Image,
	src CameraModel,
	edge rimage.EdgeExtension,
) (*rimage.TransformView, error) {
	return LinearizeCameraTransformImageWithPolicies(img, src, edge, rimage.BilinearInterpolation)
}

// LinearizeCameraTransformImageWithPolicies is LinearizeCameraTransformImage with a chosen edge
// extension and interpolation.
func LinearizeCameraTransformImageWithPolicies(
	img image.Image,
	src CameraModel,
	edge rimage.EdgeExtension,
	interp rimage.Interpolation,
) (*rimage.TransformView, error) {
	size := img.Bounds().Size()
	linearized, err := LinearizeCamera(src, size.X, size.Y, size.X, size.Y)
	if err != nil {
		return nil, err
	}
	return transformImage(img, NewCameraTransform(src, linearized), edge, interp), nil
}

func transformImage(
	img image.Image,
	ct *CameraTransform,
	edge rimage.EdgeExtension,
	interp rimage.Interpolation,
) *rimage.TransformView {
	view := rimage.Transform(img, ct, edge, interp)
	currentLogger().Debugw("camera transform view",
		"bounds", view.Bounds().String(),
		"edge", view.Edge().Name(),
		"interpolation", view.Interpolation().Name(),
		"source", modelName(ct.src),
		"destination", modelName(ct.dst),
	)
	return view
}

// modelName describes a camera model for logs.
func modelName(model CameraModel) string {
	if pc, ok := model.(*PinholeCamera); ok {
		if pc.distortion == nil {
			return "pinhole"
		}
		return fmt.Sprintf("pinhole+%s", pc.distortion.ModelType())
	}
	return fmt.Sprintf("%T", model)
}
