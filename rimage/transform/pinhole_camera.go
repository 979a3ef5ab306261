package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrPointBehindCamera is returned when projecting a point that is not in front of the camera.
var ErrPointBehindCamera = errors.New("point is not in front of the camera")

// PinholeCamera is a central perspective camera with optional lens distortion, placed in
// the world at Center and oriented by Rotation, which takes camera frame directions
// (+Z forward, +X right, +Y down) to world frame directions.
type PinholeCamera struct {
	intrinsics PinholeCameraIntrinsics
	distortion Distorter
	center     r3.Vector
	rotation   *mat.Dense
}

// NewPinholeCamera validates its inputs and returns a camera holding copies of them. A nil
// distortion means none and a nil rotation means the identity.
func NewPinholeCamera(
	intrinsics *PinholeCameraIntrinsics,
	distortion Distorter,
	center r3.Vector,
	rotation mat.Matrix,
) (*PinholeCamera, error) {
	if err := intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	if distortion != nil {
		if err := distortion.CheckValid(); err != nil {
			return nil, err
		}
		distortion = distortion.Clone()
	}
	rot := eye(3)
	if rotation != nil {
		if err := CheckRotation(rotation); err != nil {
			return nil, err
		}
		rot = mat.DenseCopyOf(rotation)
	}
	return &PinholeCamera{
		intrinsics: *intrinsics,
		distortion: distortion,
		center:     center,
		rotation:   rot,
	}, nil
}

// Intrinsics returns a copy of the camera's intrinsics.
func (pc *PinholeCamera) Intrinsics() *PinholeCameraIntrinsics {
	intrinsics := pc.intrinsics
	return &intrinsics
}

// Distortion returns a copy of the lens distortion, nil if there is none.
func (pc *PinholeCamera) Distortion() Distorter {
	if pc.distortion == nil {
		return nil
	}
	return pc.distortion.Clone()
}

// Center returns the camera center in world coordinates.
func (pc *PinholeCamera) Center() r3.Vector {
	return pc.center
}

// Rotation returns a copy of the camera to world rotation.
func (pc *PinholeCamera) Rotation() *mat.Dense {
	return mat.DenseCopyOf(pc.rotation)
}

// Model returns the intrinsics and distortion of the camera without its pose.
func (pc *PinholeCamera) Model() *PinholeCameraModel {
	return &PinholeCameraModel{PinholeCameraIntrinsics: pc.Intrinsics(), Distortion: pc.Distortion()}
}

// CameraCenter returns the camera center. Every pixel's ray starts there.
func (pc *PinholeCamera) CameraCenter(p r2.Point) r3.Vector {
	return pc.center
}

// PixelToVector returns the unit direction, in world coordinates, of the ray seen at p.
func (pc *PinholeCamera) PixelToVector(p r2.Point) (r3.Vector, error) {
	x, y, _ := pc.intrinsics.PixelToPoint(p.X, p.Y, 1)
	if pc.distortion != nil {
		x, y = pc.distortion.Undistort(x, y)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return r3.Vector{}, errors.Errorf("pixel %v has no ray", p)
	}
	return pc.toWorld(r3.Vector{X: x, Y: y, Z: 1}).Normalize(), nil
}

// PointToPixel projects the world point pt into the image.
func (pc *PinholeCamera) PointToPixel(pt r3.Vector) (r2.Point, error) {
	cam := pc.toCamera(pt.Sub(pc.center))
	if cam.Z <= 0 {
		return r2.Point{}, errors.Wrapf(ErrPointBehindCamera, "point %v has depth %v", pt, cam.Z)
	}
	x, y := cam.X/cam.Z, cam.Y/cam.Z
	if pc.distortion != nil {
		x, y = pc.distortion.Transform(x, y)
	}
	u, v := pc.intrinsics.PointToPixel(x, y, 1)
	return r2.Point{X: u, Y: v}, nil
}

// Linearize returns the same camera without distortion and with its intrinsics scaled from a
// srcCols x srcRows image to a dstCols x dstRows one.
func (pc *PinholeCamera) Linearize(srcCols, srcRows, dstCols, dstRows int) (CameraModel, error) {
	if srcCols <= 0 || srcRows <= 0 || dstCols <= 0 || dstRows <= 0 {
		return nil, errors.Errorf("cannot linearize from %dx%d to %dx%d", srcCols, srcRows, dstCols, dstRows)
	}
	intrinsics := pc.intrinsics
	intrinsics.Width, intrinsics.Height = srcCols, srcRows
	return NewPinholeCamera(intrinsics.Scaled(dstCols, dstRows), nil, pc.center, pc.rotation)
}

// Clone returns a deep copy of the camera.
func (pc *PinholeCamera) Clone() CameraModel {
	clone := *pc
	clone.rotation = mat.DenseCopyOf(pc.rotation)
	if pc.distortion != nil {
		clone.distortion = pc.distortion.Clone()
	}
	return &clone
}

// String renders the camera as a table.
func (pc *PinholeCamera) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Parameter", "Value"})
	t.AppendRow(table.Row{"Size", fmt.Sprintf("%dx%d", pc.intrinsics.Width, pc.intrinsics.Height)})
	t.AppendRow(table.Row{"Focal length", fmt.Sprintf("fx:%.3f, fy:%.3f", pc.intrinsics.Fx, pc.intrinsics.Fy)})
	t.AppendRow(table.Row{"Principal point", fmt.Sprintf("ppx:%.3f, ppy:%.3f", pc.intrinsics.Ppx, pc.intrinsics.Ppy)})
	if pc.distortion == nil {
		t.AppendRow(table.Row{"Distortion", "none"})
	} else {
		t.AppendRow(table.Row{"Distortion", fmt.Sprintf("%s %v", pc.distortion.ModelType(), pc.distortion.Parameters())})
	}
	t.AppendRow(table.Row{"Center", fmt.Sprintf("X:%.3f, Y:%.3f, Z:%.3f", pc.center.X, pc.center.Y, pc.center.Z)})
	t.AppendRow(table.Row{"Rotation", fmt.Sprintf("%.4f", mat.Formatted(pc.rotation, mat.Squeeze()))})
	return t.Render()
}

func (pc *PinholeCamera) toWorld(v r3.Vector) r3.Vector {
	r := pc.rotation
	return r3.Vector{
		X: r.At(0, 0)*v.X + r.At(0, 1)*v.Y + r.At(0, 2)*v.Z,
		Y: r.At(1, 0)*v.X + r.At(1, 1)*v.Y + r.At(1, 2)*v.Z,
		Z: r.At(2, 0)*v.X + r.At(2, 1)*v.Y + r.At(2, 2)*v.Z,
	}
}

// toCamera applies the transposed rotation.
func (pc *PinholeCamera) toCamera(v r3.Vector) r3.Vector {
	r := pc.rotation
	return r3.Vector{
		X: r.At(0, 0)*v.X + r.At(1, 0)*v.Y + r.At(2, 0)*v.Z,
		Y: r.At(0, 1)*v.X + r.At(1, 1)*v.Y + r.At(2, 1)*v.Z,
		Z: r.At(0, 2)*v.X + r.At(1, 2)*v.Y + r.At(2, 2)*v.Z,
	}
}
