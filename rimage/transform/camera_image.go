package transform

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/mvs/rimage"
	"go.viam.com/mvs/utils"
)

var (
	// ErrLastRowNotSet is returned by projection and depth queries made before SetLastRow.
	ErrLastRowNotSet = errors.New("projection last row is not set")
	// ErrZeroHomogeneousDepth is returned when a point projects with a zero homogeneous coordinate.
	ErrZeroHomogeneousDepth = errors.New("homogeneous coordinate of projected point is zero")
)

// CameraImage is one calibrated view of a multi-view reconstruction: its size, intrinsics K,
// world to camera rotation R and translation T, the row that makes K*[R|T] square, and
// optionally the pixels themselves.
//
// Matrices are stored row-major in float64. K[0] is fx, K[2] is cx, K[4] is fy and K[5] is cy.
// Accessors without a Double suffix narrow their output to float32.
//
// A CameraImage does no locking. Any number of goroutines may query a view that is no longer
// being changed, but SetBitmap, SetK, SetLastRow, Rescale and Downsize must not run
// concurrently with anything else on the same view.
type CameraImage struct {
	path          string
	width, height int

	k, r       [9]float64
	t          [3]float64
	lastRow    [4]float64
	hasLastRow bool

	bitmap rimage.PixelBuffer
}

// NewCameraImage returns a view with the given calibration. The arrays are copied.
func NewCameraImage(path string, width, height int, k, r [9]float64, t [3]float64) *CameraImage {
	return &CameraImage{
		path:   path,
		width:  width,
		height: height,
		k:      k,
		r:      r,
		t:      t,
	}
}

// Path returns the identifier the view was created with.
func (ci *CameraImage) Path() string {
	return ci.path
}

// Width returns the width of the view in pixels.
func (ci *CameraImage) Width() int {
	return ci.width
}

// Height returns the height of the view in pixels.
func (ci *CameraImage) Height() int {
	return ci.height
}

// CheckBitmap returns an error if buf cannot be attached to this view.
func (ci *CameraImage) CheckBitmap(buf rimage.PixelBuffer) error {
	return rimage.CheckSize(buf, ci.width, ci.height)
}

// SetBitmap attaches buf to the view. It panics if the buffer is not exactly the size of the
// view; use CheckBitmap first when the size is not known to match.
func (ci *CameraImage) SetBitmap(buf rimage.PixelBuffer) {
	if err := ci.CheckBitmap(buf); err != nil {
		panic(errors.Wrapf(err, "cannot attach bitmap to %q", ci.path))
	}
	ci.bitmap = buf
}

// Bitmap returns the attached pixel buffer, or nil.
func (ci *CameraImage) Bitmap() rimage.PixelBuffer {
	return ci.bitmap
}

// SetK replaces the intrinsic matrix.
func (ci *CameraImage) SetK(k [9]float64) {
	ci.k = k
}

// SetLastRow sets the row appended to K*[R|T] for projection and depth queries. Typical values
// are [0 0 0 1] or [0 0 1 0].
func (ci *CameraImage) SetLastRow(lastRow [4]float64) {
	ci.lastRow = lastRow
	ci.hasLastRow = true
}

// LastRow returns the last row and whether it was set.
func (ci *CameraImage) LastRow() ([4]float64, bool) {
	return ci.lastRow, ci.hasLastRow
}

// GetK returns the intrinsics in float32.
func (ci *CameraImage) GetK() [9]float32 {
	var k [9]float32
	utils.Float64sToFloat32s(k[:], ci.k[:])
	return k
}

// GetKDouble returns the intrinsics.
func (ci *CameraImage) GetKDouble() [9]float64 {
	return ci.k
}

// GetRT returns the extrinsics in float32.
func (ci *CameraImage) GetRT() ([9]float32, [3]float32) {
	var r [9]float32
	var t [3]float32
	utils.Float64sToFloat32s(r[:], ci.r[:])
	utils.Float64sToFloat32s(t[:], ci.t[:])
	return r, t
}

// GetRTDouble returns the extrinsics.
func (ci *CameraImage) GetRTDouble() ([9]float64, [3]float64) {
	return ci.r, ci.t
}

// GetC returns the projection center in float32.
func (ci *CameraImage) GetC() [3]float32 {
	var c [3]float32
	cd := ci.GetCDouble()
	utils.Float64sToFloat32s(c[:], cd[:])
	return c
}

// GetCDouble returns the projection center, the position of the camera in world coordinates.
func (ci *CameraImage) GetCDouble() [3]float64 {
	return ComputeProjectionCenter(ci.r, ci.t)
}

// CenterVector returns the projection center as a vector.
func (ci *CameraImage) CenterVector() r3.Vector {
	c := ci.GetCDouble()
	return r3.Vector{X: c[0], Y: c[1], Z: c[2]}
}

// GetPinvP returns the conditioned projection matrix and its inverse in float32.
func (ci *CameraImage) GetPinvP() ([16]float32, [16]float32, error) {
	var p, invP [16]float32
	pd, invPd, err := ci.GetPinvPDouble()
	if err != nil {
		return p, invP, err
	}
	utils.Float64sToFloat32s(p[:], pd[:])
	utils.Float64sToFloat32s(invP[:], invPd[:])
	return p, invP, nil
}

// GetPinvPDouble returns the conditioned projection matrix and its inverse. See
// ComputeProjectionMatrices for the conditioning.
func (ci *CameraImage) GetPinvPDouble() ([16]float64, [16]float64, error) {
	if !ci.hasLastRow {
		return [16]float64{}, [16]float64{}, errors.Wrapf(ErrLastRowNotSet, "view %q", ci.path)
	}
	return ComputeProjectionMatrices(ci.k, ci.r, ci.t, ci.lastRow)
}

// GetDepth projects the world point (x,y,z) and returns the third homogeneous coordinate divided
// by the fourth. The projection matrix is not conditioned here, unlike GetPinvP.
func (ci *CameraImage) GetDepth(x, y, z float64) (float32, error) {
	if !ci.hasLastRow {
		return 0, errors.Wrapf(ErrLastRowNotSet, "view %q", ci.path)
	}

	var rt mat.Dense
	rt.Augment(mat.NewDense(3, 3, ci.r[:]), mat.NewDense(3, 1, ci.t[:]))
	var p3x4 mat.Dense
	p3x4.Mul(mat.NewDense(3, 3, ci.k[:]), &rt)
	var p4x4 mat.Dense
	p4x4.Stack(&p3x4, mat.NewDense(1, 4, ci.lastRow[:]))

	var projected mat.VecDense
	projected.MulVec(&p4x4, mat.NewVecDense(4, []float64{x, y, z, 1}))
	if projected.AtVec(3) == 0 {
		return 0, errors.Wrapf(ErrZeroHomogeneousDepth, "point (%v, %v, %v) in view %q", x, y, z, ci.path)
	}
	return float32(projected.AtVec(2) / projected.AtVec(3)), nil
}

// DepthOf is GetDepth for a vector.
func (ci *CameraImage) DepthOf(pt r3.Vector) (float32, error) {
	return ci.GetDepth(pt.X, pt.Y, pt.Z)
}
