// Package transform contains camera models and the machinery to resample images taken
// by one camera as if another camera had taken them.
package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"

	"go.viam.com/camxform/utils"
)

// A CameraModel maps between image pixels and rays in the world.
type CameraModel interface {
	// PixelToVector returns the direction, from the camera center, of the ray seen at pixel p.
	PixelToVector(p r2.Point) (r3.Vector, error)
	// PointToPixel projects a world point into the image.
	PointToPixel(pt r3.Vector) (r2.Point, error)
	// CameraCenter returns the origin of the ray seen at pixel p. Central cameras return the
	// same point for every pixel.
	CameraCenter(p r2.Point) r3.Vector
}

// A Linearizer is a CameraModel that can produce a distortion free version of itself.
type Linearizer interface {
	CameraModel
	// Linearize returns a model with the same center and orientation and no lens distortion,
	// sized for a dstCols x dstRows image made from a srcCols x srcRows one.
	Linearize(srcCols, srcRows, dstCols, dstRows int) (CameraModel, error)
}

// A Cloner is a CameraModel that can deep copy itself.
type Cloner interface {
	Clone() CameraModel
}

// LinearizeCamera returns the linearized counterpart of model.
func LinearizeCamera(model CameraModel, srcCols, srcRows, dstCols, dstRows int) (CameraModel, error) {
	linearizer, ok := model.(Linearizer)
	if !ok {
		return nil, utils.NewUnimplementedInterfaceError("Linearizer", model)
	}
	return linearizer.Linearize(srcCols, srcRows, dstCols, dstRows)
}

// cloneModel returns a deep copy of model when it knows how to make one, and model otherwise.
func cloneModel(model CameraModel) CameraModel {
	if cloner, ok := model.(Cloner); ok {
		return cloner.Clone()
	}
	return model
}
