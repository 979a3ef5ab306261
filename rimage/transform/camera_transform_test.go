package transform

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/camxform/logging"
	"go.viam.com/camxform/rimage"
)

func testIntrinsics() *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{Width: 200, Height: 160, Fx: 120, Fy: 110, Ppx: 99.5, Ppy: 79.5}
}

func newTestCamera(t *testing.T, distortion Distorter, center r3.Vector) *PinholeCamera {
	t.Helper()
	cam, err := NewPinholeCamera(testIntrinsics(), distortion, center, nil)
	test.That(t, err, test.ShouldBeNil)
	return cam
}

// halfCentral sees from the origin on the left half of the image and from offset on the right.
type halfCentral struct {
	cam    *PinholeCamera
	splitX float64
	offset r3.Vector
}

func (h *halfCentral) PixelToVector(p r2.Point) (r3.Vector, error) {
	return h.cam.PixelToVector(p)
}

func (h *halfCentral) PointToPixel(pt r3.Vector) (r2.Point, error) {
	return h.cam.PointToPixel(pt)
}

func (h *halfCentral) CameraCenter(p r2.Point) r3.Vector {
	if p.X >= h.splitX {
		return h.offset
	}
	return h.cam.CameraCenter(p)
}

var errNoRay = errors.New("no ray here")

type failingModel struct {
	cam *PinholeCamera
}

func (failingModel) PixelToVector(p r2.Point) (r3.Vector, error) {
	return r3.Vector{}, errNoRay
}

func (f failingModel) PointToPixel(pt r3.Vector) (r2.Point, error) {
	return f.cam.PointToPixel(pt)
}

func (f failingModel) CameraCenter(p r2.Point) r3.Vector {
	return f.cam.CameraCenter(p)
}

func testImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: uint8(x ^ y), A: 255})
		}
	}
	return img
}

func TestCameraTransformIdentityScenario(t *testing.T) {
	a := newTestCamera(t, nil, r3.Vector{})
	b := newTestCamera(t, nil, r3.Vector{})
	ct := NewCameraTransform(a, b)

	p, err := ct.Reverse(r2.Point{X: 100, Y: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.X, test.ShouldAlmostEqual, 100, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 100, 1e-9)

	p, err = ct.Forward(r2.Point{X: 100, Y: 100})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.X, test.ShouldAlmostEqual, 100, 1e-9)
	test.That(t, p.Y, test.ShouldAlmostEqual, 100, 1e-9)
}

func TestCameraTransformIdentity(t *testing.T) {
	distortion, err := NewBrownConrady([]float64{0.1, -0.02, 0, 0.001, -0.002})
	test.That(t, err, test.ShouldBeNil)
	cam := newTestCamera(t, distortion, r3.Vector{X: 1, Y: 2, Z: 3})
	ct := NewCameraTransform(cam, cam)

	for _, pt := range []r2.Point{{X: 0, Y: 0}, {X: 13.25, Y: 150}, {X: 199, Y: 159}, {X: 99.5, Y: 79.5}} {
		p, err := ct.Reverse(pt)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.X, test.ShouldAlmostEqual, pt.X, 1e-6)
		test.That(t, p.Y, test.ShouldAlmostEqual, pt.Y, 1e-6)
	}

	t.Run("image", func(t *testing.T) {
		plain := newTestCamera(t, nil, r3.Vector{})
		img := testImage(200, 160)
		view := CameraTransformImageWithPolicies(img, plain, plain, rimage.ZeroEdgeExtension, rimage.NearestInterpolation)
		test.That(t, view.Bounds(), test.ShouldResemble, img.Bounds())
		for _, pt := range []image.Point{{0, 0}, {57, 33}, {199, 159}} {
			test.That(t, view.At(pt.X, pt.Y), test.ShouldResemble, color.RGBA64Model.Convert(img.At(pt.X, pt.Y)))
		}
		test.That(t, view.Err(), test.ShouldBeNil)
	})
}

func TestCameraTransformInverse(t *testing.T) {
	distortion, err := NewBrownConrady([]float64{0.05, 0.01, 0, 0.001, 0.001})
	test.That(t, err, test.ShouldBeNil)
	src := newTestCamera(t, distortion, r3.Vector{})
	dstIntrinsics := &PinholeCameraIntrinsics{Width: 300, Height: 300, Fx: 150, Fy: 150, Ppx: 150, Ppy: 150}
	dst, err := NewPinholeCamera(dstIntrinsics, nil, r3.Vector{}, RotationFromEulerAngles(2, -3, 10))
	test.That(t, err, test.ShouldBeNil)
	ct := NewCameraTransform(src, dst)

	for _, pt := range []r2.Point{{X: 10, Y: 10}, {X: 100, Y: 80}, {X: 190, Y: 30}, {X: 55.5, Y: 140.25}} {
		fwd, err := ct.Forward(pt)
		test.That(t, err, test.ShouldBeNil)
		back, err := ct.Reverse(fwd)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, back.X, test.ShouldAlmostEqual, pt.X, 1e-6)
		test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y, 1e-6)
	}
}

func TestCameraTransformCenterMismatch(t *testing.T) {
	a := newTestCamera(t, nil, r3.Vector{})
	b := newTestCamera(t, nil, r3.Vector{X: 0.1})
	ct := NewCameraTransform(a, b)

	_, err := ct.Reverse(r2.Point{X: 5, Y: 5})
	test.That(t, err, test.ShouldWrap, ErrCameraCenterMismatch)
	_, err = ct.Forward(r2.Point{X: 5, Y: 5})
	test.That(t, errors.Is(err, ErrCameraCenterMismatch), test.ShouldBeTrue)

	view := CameraTransformImage(testImage(200, 160), a, b)
	_, err = view.Pixel(10, 10)
	test.That(t, errors.Is(err, ErrCameraCenterMismatch), test.ShouldBeTrue)
	test.That(t, view.At(10, 10), test.ShouldResemble, color.RGBA64{})
	test.That(t, errors.Is(view.Err(), ErrCameraCenterMismatch), test.ShouldBeTrue)

	t.Run("non-central", func(t *testing.T) {
		split := &halfCentral{cam: a, splitX: 100, offset: r3.Vector{Z: -1}}
		ct := NewCameraTransform(split, a)

		p, err := ct.Reverse(r2.Point{X: 40, Y: 40})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.X, test.ShouldAlmostEqual, 40, 1e-9)

		_, err = ct.Reverse(r2.Point{X: 140, Y: 40})
		test.That(t, errors.Is(err, ErrCameraCenterMismatch), test.ShouldBeTrue)
		_, err = ct.Forward(r2.Point{X: 100, Y: 0})
		test.That(t, errors.Is(err, ErrCameraCenterMismatch), test.ShouldBeTrue)

		view := CameraTransformImageWithEdge(testImage(200, 160), split, a, rimage.ClampEdgeExtension)
		_, err = view.Pixel(99, 0)
		test.That(t, err, test.ShouldBeNil)
		_, err = view.Pixel(100, 0)
		test.That(t, errors.Is(err, ErrCameraCenterMismatch), test.ShouldBeTrue)
	})
}

func TestCameraTransformPassesErrorsThrough(t *testing.T) {
	cam := newTestCamera(t, nil, r3.Vector{})
	ct := NewCameraTransform(cam, failingModel{cam})
	_, err := ct.Reverse(r2.Point{X: 1, Y: 1})
	test.That(t, err, test.ShouldEqual, errNoRay)

	ct = NewCameraTransform(failingModel{cam}, cam)
	_, err = ct.Forward(r2.Point{X: 1, Y: 1})
	test.That(t, err, test.ShouldEqual, errNoRay)

	// a destination pointing away from the source sees nothing the source can project
	behind, err := NewPinholeCamera(testIntrinsics(), nil, r3.Vector{}, RotationFromEulerAngles(0, 180, 0))
	test.That(t, err, test.ShouldBeNil)
	ct = NewCameraTransform(cam, behind)
	_, err = ct.Reverse(r2.Point{X: 99.5, Y: 79.5})
	test.That(t, errors.Is(err, ErrPointBehindCamera), test.ShouldBeTrue)
}

func TestCameraTransformCopiesModels(t *testing.T) {
	cam := newTestCamera(t, nil, r3.Vector{})
	ct := NewCameraTransform(cam, cam)
	test.That(t, ct.Source() != CameraModel(cam), test.ShouldBeTrue)
	test.That(t, ct.Destination() != CameraModel(cam), test.ShouldBeTrue)
	test.That(t, ct.Source().(*PinholeCamera).Intrinsics(), test.ShouldResemble, cam.Intrinsics())

	failing := failingModel{cam}
	ct = NewCameraTransform(failing, cam)
	test.That(t, ct.Source(), test.ShouldResemble, failing)
}

func TestCameraTransformIgnoresLaterDistortionChanges(t *testing.T) {
	for _, distortion := range []Distorter{
		&BrownConrady{RadialK1: 0.1},
		&InverseBrownConrady{BrownConrady{RadialK1: 0.1}},
		&KannalaBrandt{K1: 0.1},
	} {
		t.Run(string(distortion.ModelType()), func(t *testing.T) {
			cam := newTestCamera(t, distortion, r3.Vector{})
			ct := NewCameraTransform(cam, newTestCamera(t, nil, r3.Vector{}))
			before, err := ct.Reverse(r2.Point{X: 10, Y: 10})
			test.That(t, err, test.ShouldBeNil)

			switch d := distortion.(type) {
			case *BrownConrady:
				d.RadialK1 = 0.5
				cam.distortion.(*BrownConrady).RadialK1 = 0.5
			case *InverseBrownConrady:
				d.RadialK1 = 0.5
				cam.distortion.(*InverseBrownConrady).RadialK1 = 0.5
			case *KannalaBrandt:
				d.K1 = 0.5
				cam.distortion.(*KannalaBrandt).K1 = 0.5
			}

			after, err := ct.Reverse(r2.Point{X: 10, Y: 10})
			test.That(t, err, test.ShouldBeNil)
			test.That(t, after, test.ShouldResemble, before)
		})
	}
}

func TestCameraTransformLogs(t *testing.T) {
	observed, logs := logging.NewObservedTestLogger(t)
	observed.SetLevel(logging.DEBUG)
	orig := currentLogger()
	SetLogger(observed)
	defer SetLogger(orig)

	cam := newTestCamera(t, nil, r3.Vector{})
	CameraTransformImage(testImage(20, 10), cam, cam)
	test.That(t, logs.FilterMessage("camera transform view").Len(), test.ShouldEqual, 1)
	entry := logs.FilterMessage("camera transform view").All()[0]
	test.That(t, entry.ContextMap()["edge"], test.ShouldEqual, rimage.ZeroEdgeName)
	test.That(t, entry.ContextMap()["interpolation"], test.ShouldEqual, rimage.BilinearName)
	test.That(t, entry.ContextMap()["source"], test.ShouldEqual, "pinhole")
}

func TestSetLoggerWhileTransforming(t *testing.T) {
	orig := currentLogger()
	defer SetLogger(orig)

	cam := newTestCamera(t, nil, r3.Vector{})
	img := testImage(4, 4)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetLogger(logging.NewBlankLogger("camxform.transform_test"))
		}()
		go func() {
			defer wg.Done()
			CameraTransformImage(img, cam, cam)
		}()
	}
	wg.Wait()
	test.That(t, currentLogger(), test.ShouldNotBeNil)
}
