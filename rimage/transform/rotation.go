package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/mvs/logging"
	"go.viam.com/mvs/rimage"
	"go.viam.com/mvs/utils"
)

// quarterTurn is the in-plane rotation applied to the camera frame for every 90 degree turn of
// the image.
var quarterTurn = mat.NewDense(3, 3, []float64{
	0, 1, 0,
	-1, 0, 0,
	0, 0, 1,
})

// RotatedView is the calibration of a view whose image was turned by a multiple of 90 degrees.
// All matrices are row-major float32. Width and Height are the size of the turned image.
type RotatedView struct {
	Width  int
	Height int

	K    [9]float32
	R    [9]float32
	T    [3]float32
	P    [16]float32
	InvP [16]float32
	C    [3]float32
}

// Original returns the view unturned. Its matrices equal GetK, GetRT, GetPinvP and GetC.
func (ci *CameraImage) Original() (RotatedView, error) {
	return ci.rotatedView(0)
}

// Rotate90 returns the view after one quarter turn of the image, under which pixel (x,y) moves
// to (y, width-1-x).
//
// Only fx, cx, fy and cy of the intrinsics are carried over. K[8] is always 1 and the skew and
// other off-diagonal entries are dropped, so a K with skew does not survive the turn.
func (ci *CameraImage) Rotate90() (RotatedView, error) {
	return ci.rotatedView(1)
}

// Rotate180 returns the view after two quarter turns. K is rebuilt the same way as in Rotate90.
func (ci *CameraImage) Rotate180() (RotatedView, error) {
	return ci.rotatedView(2)
}

// Rotate270 returns the view after three quarter turns. K is rebuilt the same way as in Rotate90.
func (ci *CameraImage) Rotate270() (RotatedView, error) {
	return ci.rotatedView(3)
}

// Rotate90Multi returns the view after turns quarter turns. Any integer is accepted; it is
// reduced modulo 4 so that -1 is the same as 3.
func (ci *CameraImage) Rotate90Multi(turns int) (RotatedView, error) {
	switch normalizeTurns(turns) {
	case 1:
		return ci.Rotate90()
	case 2:
		return ci.Rotate180()
	case 3:
		return ci.Rotate270()
	default:
		return ci.Original()
	}
}

// Rotated returns a new view, at full precision, for the image turned by turns quarter turns.
// The last row is kept. An attached bitmap is turned too if it implements rimage.Rotator and
// dropped otherwise. The receiver is not modified.
func (ci *CameraImage) Rotated(turns int) *CameraImage {
	turns = normalizeTurns(turns)
	r, t := ci.rotatedExtrinsics(turns)
	width, height := ci.rotatedSize(turns)
	rotated := NewCameraImage(ci.path, width, height, ci.rotatedIntrinsics(turns), r, t)
	rotated.lastRow, rotated.hasLastRow = ci.lastRow, ci.hasLastRow
	if rotator, ok := ci.bitmap.(rimage.Rotator); ok {
		rotated.SetBitmap(rotator.RotateBuffer(turns))
	}
	return rotated
}

// LogRotation writes the calibration before and after turns quarter turns to logger at debug
// level. It is meant for checking a rotation by eye.
func (ci *CameraImage) LogRotation(logger logging.Logger, turns int) error {
	view, err := ci.Rotate90Multi(turns)
	if err != nil {
		return err
	}
	r, t := ci.GetRT()
	logger.Debugw("unrotated view",
		"path", ci.path,
		"width", ci.width,
		"height", ci.height,
		"K", ci.GetK(),
		"R", r,
		"T", t,
		"last_row", ci.lastRow)
	logger.Debugw("rotated view",
		"path", ci.path,
		"turns", normalizeTurns(turns),
		"width", view.Width,
		"height", view.Height,
		"K", view.K,
		"R", view.R,
		"T", view.T,
		"P", view.P,
		"inv_P", view.InvP,
		"C", view.C)
	return nil
}

// rotatedIntrinsics returns K for the image turned by turns (0 to 3) quarter turns.
func (ci *CameraImage) rotatedIntrinsics(turns int) [9]float64 {
	fx, cx, fy, cy := ci.k[0], ci.k[2], ci.k[4], ci.k[5]
	width, height := float64(ci.width), float64(ci.height)

	var k [9]float64
	switch turns {
	case 1:
		k[0] = fy
		k[2] = cy
		k[4] = fx
		k[5] = -cx + width - 1
	case 2:
		k[0] = fx
		k[2] = -cx + width - 1
		k[4] = fy
		k[5] = -cy + height - 1
	case 3:
		k[0] = fy
		k[2] = -cy + height - 1
		k[4] = fx
		k[5] = cx
	default:
		return ci.k
	}
	k[8] = 1.0
	return k
}

// rotatedExtrinsics returns R and T premultiplied by quarterTurn turns times.
func (ci *CameraImage) rotatedExtrinsics(turns int) ([9]float64, [3]float64) {
	r, t := ci.r, ci.t
	if turns == 0 {
		return r, t
	}
	rot := quarterTurnPower(turns)
	var rNew mat.Dense
	rNew.Mul(rot, mat.NewDense(3, 3, r[:]))
	var tNew mat.VecDense
	tNew.MulVec(rot, mat.NewVecDense(3, t[:]))
	denseToArray(r[:], &rNew)
	denseToArray(t[:], &tNew)
	return r, t
}

func (ci *CameraImage) rotatedSize(turns int) (int, int) {
	if turns%2 == 1 {
		return ci.height, ci.width
	}
	return ci.width, ci.height
}

// rotatedView derives the full float32 calibration for turns (0 to 3) quarter turns.
func (ci *CameraImage) rotatedView(turns int) (RotatedView, error) {
	var view RotatedView
	if !ci.hasLastRow {
		return view, errors.Wrapf(ErrLastRowNotSet, "view %q", ci.path)
	}

	k := ci.rotatedIntrinsics(turns)
	r, t := ci.rotatedExtrinsics(turns)
	p, invP, err := ComputeProjectionMatrices(k, r, t, ci.lastRow)
	if err != nil {
		return view, err
	}
	c := ComputeProjectionCenter(r, t)

	view.Width, view.Height = ci.rotatedSize(turns)
	utils.Float64sToFloat32s(view.K[:], k[:])
	utils.Float64sToFloat32s(view.R[:], r[:])
	utils.Float64sToFloat32s(view.T[:], t[:])
	utils.Float64sToFloat32s(view.P[:], p[:])
	utils.Float64sToFloat32s(view.InvP[:], invP[:])
	utils.Float64sToFloat32s(view.C[:], c[:])
	return view, nil
}

// quarterTurnPower returns quarterTurn multiplied by itself turns times.
func quarterTurnPower(turns int) *mat.Dense {
	rot := mat.DenseCopyOf(quarterTurn)
	for i := 1; i < turns; i++ {
		rot.Mul(rot, quarterTurn)
	}
	return rot
}

func normalizeTurns(turns int) int {
	return ((turns % 4) + 4) % 4
}
