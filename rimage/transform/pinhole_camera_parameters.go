package transform

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
	Skew   float64 `json:"skew"`
}

// intrinsicsFromK reads the pinhole parameters out of an upper triangular K as stored.
func intrinsicsFromK(width, height int, k [9]float64) *PinholeCameraIntrinsics {
	return &PinholeCameraIntrinsics{
		Width:  width,
		Height: height,
		Fx:     k[0],
		Fy:     k[4],
		Ppx:    k[2],
		Ppy:    k[5],
		Skew:   k[1],
	}
}

// Intrinsics returns the pinhole parameters of the view, with K scaled so that K[8] is 1.
func (ci *CameraImage) Intrinsics() *PinholeCameraIntrinsics {
	k := ci.k
	if k[8] != 0 {
		for i := range k {
			k[i] /= ci.k[8]
		}
	}
	return intrinsicsFromK(ci.width, ci.height, k)
}

// problems lists every field of params that cannot describe a camera.
func (params *PinholeCameraIntrinsics) problems() []string {
	var found []string
	if params.Width <= 0 || params.Height <= 0 {
		found = append(found, fmt.Sprintf("invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		found = append(found, fmt.Sprintf("invalid focal length fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		found = append(found, fmt.Sprintf("invalid focal length fy = %#v", params.Fy))
	}
	return found
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs and reports
// every invalid one.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	var errs error
	for _, problem := range params.problems() {
		errs = multierr.Append(errs, NewNoIntrinsicsError(problem))
	}
	return errs
}

// PixelToPoint transforms a pixel with depth to a 3D point in the camera frame.
func (params *PinholeCameraIntrinsics) PixelToPoint(x, y, z float64) (float64, float64, float64) {
	if params == nil {
		return float64(0), float64(0), float64(0)
	}
	yOverZ := (y - params.Ppy) / params.Fy
	xOverZ := (x - params.Ppx - params.Skew*yOverZ) / params.Fx
	return xOverZ * z, yOverZ * z, z
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx s  ppx],
//
//	[0  fy ppy],
//	[0  0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	return mat.NewDense(3, 3, []float64{
		params.Fx, params.Skew, params.Ppx,
		0, params.Fy, params.Ppy,
		0, 0, 1,
	})
}

// cameraMatrices returns the camera matrix of ci and its inverse.
func cameraMatrices(ci *CameraImage) (*mat.Dense, *mat.Dense, error) {
	intrinsics := ci.Intrinsics()
	if err := intrinsics.CheckValid(); err != nil {
		return nil, nil, errors.Wrapf(err, "view %q", ci.Path())
	}
	k := intrinsics.GetCameraMatrix()
	var inv mat.Dense
	if err := inv.Inverse(k); err != nil {
		return nil, nil, errors.Wrapf(err, "intrinsics of %q are not invertible", ci.Path())
	}
	return k, &inv, nil
}

// WorldToCamera moves a world point into the frame of the view: R*pt + T.
func (ci *CameraImage) WorldToCamera(pt r3.Vector) r3.Vector {
	r, t := ci.r, ci.t
	return r3.Vector{
		X: r[0]*pt.X + r[1]*pt.Y + r[2]*pt.Z + t[0],
		Y: r[3]*pt.X + r[4]*pt.Y + r[5]*pt.Z + t[1],
		Z: r[6]*pt.X + r[7]*pt.Y + r[8]*pt.Z + t[2],
	}
}

// PixelToWorld returns the world point seen at pixel px that lies z in front of the camera,
// measured along its optical axis: R^T*(cam - T).
func (ci *CameraImage) PixelToWorld(px r2.Point, z float64) r3.Vector {
	x, y, z := ci.Intrinsics().PixelToPoint(px.X, px.Y, z)
	r, t := ci.r, ci.t
	dx, dy, dz := x-t[0], y-t[1], z-t[2]
	return r3.Vector{
		X: r[0]*dx + r[3]*dy + r[6]*dz,
		Y: r[1]*dx + r[4]*dy + r[7]*dz,
		Z: r[2]*dx + r[5]*dy + r[8]*dz,
	}
}

// ProjectToPixel projects a world point through the full K*[R|T] and returns its sub-pixel
// image coordinates. Points on the camera plane cannot be projected.
func (ci *CameraImage) ProjectToPixel(pt r3.Vector) (r2.Point, error) {
	cam := ci.WorldToCamera(pt)
	k := ci.k
	u := k[0]*cam.X + k[1]*cam.Y + k[2]*cam.Z
	v := k[3]*cam.X + k[4]*cam.Y + k[5]*cam.Z
	w := k[6]*cam.X + k[7]*cam.Y + k[8]*cam.Z
	if w == 0 {
		return r2.Point{}, errors.Wrapf(ErrZeroHomogeneousDepth, "point %v in view %q", pt, ci.path)
	}
	return r2.Point{X: u / w, Y: v / w}, nil
}
