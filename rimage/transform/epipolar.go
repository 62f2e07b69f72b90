package transform

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// EssentialMatrix returns E = [t]x * R for the relative pose taking the frame of src to the frame
// of dst, so that a pair of normalized image points satisfies x_dst^T * E * x_src = 0.
func EssentialMatrix(src, dst *CameraImage) *mat.Dense {
	srcR, srcT := src.GetRT()
	dstR, dstT := dst.GetRT()
	r, t := ComputeRelativePose(srcR, srcT, dstR, dstT)

	rot := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rot.Set(i, j, float64(r[3*i+j]))
		}
	}
	var essMat mat.Dense
	essMat.Mul(crossProductMatrix(r3.Vector{X: float64(t[0]), Y: float64(t[1]), Z: float64(t[2])}), rot)
	return &essMat
}

// FundamentalMatrix returns F = K_dst^-T * E * K_src^-1, the pixel space counterpart of
// EssentialMatrix. F is scaled so that its largest coefficient in magnitude is 1. Views with the
// same projection center have no epipolar geometry.
func FundamentalMatrix(src, dst *CameraImage) (*mat.Dense, error) {
	if src.CenterVector().Distance(dst.CenterVector()) == 0 {
		return nil, errors.Errorf("views %q and %q share a projection center", src.Path(), dst.Path())
	}
	_, invSrcK, err := cameraMatrices(src)
	if err != nil {
		return nil, err
	}
	_, invDstK, err := cameraMatrices(dst)
	if err != nil {
		return nil, err
	}

	var f mat.Dense
	f.Mul(invDstK.T(), EssentialMatrix(src, dst))
	f.Mul(&f, invSrcK)

	largest := math.Max(mat.Max(&f), -mat.Min(&f))
	f.Scale(1/largest, &f)
	return &f, nil
}

// EpipolarDistance returns the distance in pixels from p2 to the epipolar line of p1 under f.
// It is zero for a perfect correspondence.
func EpipolarDistance(f mat.Matrix, p1, p2 r2.Point) float64 {
	var line mat.VecDense
	line.MulVec(f, mat.NewVecDense(3, []float64{p1.X, p1.Y, 1}))
	norm := math.Hypot(line.AtVec(0), line.AtVec(1))
	if norm == 0 {
		return math.Inf(1)
	}
	return math.Abs(p2.X*line.AtVec(0)+p2.Y*line.AtVec(1)+line.AtVec(2)) / norm
}

// crossProductMatrix returns the matrix [p]x with [p]x * v = p x v.
func crossProductMatrix(p r3.Vector) *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		0, -p.Z, p.Y,
		p.Z, 0, -p.X,
		-p.Y, p.X, 0,
	})
}
