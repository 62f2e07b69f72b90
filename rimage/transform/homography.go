package transform

import (
	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Homography is a 3x3 matrix (represented as a 2D array) used to transform a plane from the perspective of a 2D
// camera to the perspective of another 2D camera. Indices are [row][column].
type Homography [3][3]float64

// NewHomography creates a Homography from a slice of 9 values in row-major order.
func NewHomography(vals []float64) (*Homography, error) {
	if len(vals) != 9 {
		return nil, errors.Errorf("input to NewHomography must have length of 9. Has length of %d", len(vals))
	}
	var h Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = vals[3*i+j]
		}
	}
	return &h, nil
}

// At returns the value of the homography at the given row and column.
func (h *Homography) At(row, col int) float64 {
	return h[row][col]
}

// Apply maps an image point of the source view to the destination view.
func (h *Homography) Apply(pt r2.Point) r2.Point {
	x := h.At(0, 0)*pt.X + h.At(0, 1)*pt.Y + h.At(0, 2)
	y := h.At(1, 0)*pt.X + h.At(1, 1)*pt.Y + h.At(1, 2)
	z := h.At(2, 0)*pt.X + h.At(2, 1)*pt.Y + h.At(2, 2)
	return r2.Point{X: x / z, Y: y / z}
}

// Inverse returns the homography mapping the destination view back to the source view.
func (h *Homography) Inverse() (*Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.dense()); err != nil {
		return nil, errors.Wrap(err, "homography is not invertible")
	}
	var out Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return &out, nil
}

func (h *Homography) dense() *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m.Set(i, j, h[i][j])
		}
	}
	return m
}

// PlaneInducedHomography returns the homography that maps pixels of src to pixels of dst for
// points on the plane n.X = d, where the plane is given in the frame of src. It is
// K_dst * (R + T*n^T/d) * K_src^-1 with R and T from ComputeRelativePose, so it inherits that
// function's float32 precision.
func PlaneInducedHomography(src, dst *CameraImage, n r3.Vector, d float64) (*Homography, error) {
	if d == 0 {
		return nil, errors.New("plane passes through the source camera center")
	}
	srcR, srcT := src.GetRT()
	dstR, dstT := dst.GetRT()
	r, t := ComputeRelativePose(srcR, srcT, dstR, dstT)

	plane := mat.NewDense(3, 3, nil)
	normal := [3]float64{n.X, n.Y, n.Z}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			plane.Set(i, j, float64(r[3*i+j])+float64(t[i])*normal[j]/d)
		}
	}

	_, invSrcK, err := cameraMatrices(src)
	if err != nil {
		return nil, err
	}
	dstK, _, err := cameraMatrices(dst)
	if err != nil {
		return nil, err
	}

	var hm mat.Dense
	hm.Mul(dstK, plane)
	hm.Mul(&hm, invSrcK)

	var h Homography
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h[i][j] = hm.At(i, j)
		}
	}
	return &h, nil
}
