package transform

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// conditioningTarget is the value the largest coefficient of a conditioned matrix is scaled to.
const conditioningTarget = 10.0

// ErrSingularProjection is returned when the 4x4 projection matrix cannot be inverted.
var ErrSingularProjection = errors.New("projection matrix is singular")

// ComputeProjectionMatrices builds the 4x4 projection matrix of a view and its inverse.
//
// The 3x4 matrix K*[R|T] gets lastRow appended as its fourth row. Before inversion the whole
// matrix is scaled by 10/max, where max is its largest coefficient (signed, not absolute). The
// inverse is then scaled by its own 10/max. The two scale factors are unrelated, so P*invP is a
// multiple of the identity, not the identity itself.
//
// All matrices are row-major.
func ComputeProjectionMatrices(k, r [9]float64, t [3]float64, lastRow [4]float64) ([16]float64, [16]float64, error) {
	var p, invP [16]float64

	rt := mat.NewDense(3, 4, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rt.Set(i, j, r[3*i+j])
		}
		rt.Set(i, 3, t[i])
	}
	var p3x4 mat.Dense
	p3x4.Mul(mat.NewDense(3, 3, k[:]), rt)

	var p4x4 mat.Dense
	p4x4.Stack(&p3x4, mat.NewDense(1, 4, lastRow[:]))
	conditionByMax(&p4x4)
	denseToArray(p[:], &p4x4)

	var inv mat.Dense
	if err := inv.Inverse(&p4x4); err != nil {
		return p, invP, errors.Wrap(ErrSingularProjection, err.Error())
	}
	conditionByMax(&inv)
	denseToArray(invP[:], &inv)

	return p, invP, nil
}

// ComputeProjectionCenter returns the camera center C = -R^T * T in world coordinates.
func ComputeProjectionCenter(r [9]float64, t [3]float64) [3]float64 {
	var c mat.VecDense
	c.MulVec(mat.NewDense(3, 3, r[:]).T(), mat.NewVecDense(3, t[:]))
	c.ScaleVec(-1, &c)
	return [3]float64{c.AtVec(0), c.AtVec(1), c.AtVec(2)}
}

// conditionByMax scales m so that its largest coefficient becomes conditioningTarget.
func conditionByMax(m *mat.Dense) {
	m.Scale(conditioningTarget/mat.Max(m), m)
}

// denseToArray copies m into dst in row-major order.
func denseToArray(dst []float64, m mat.Matrix) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			dst[i*cols+j] = m.At(i, j)
		}
	}
}
