package transform

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestNewHomography(t *testing.T) {
	_, err := NewHomography([]float64{})
	test.That(t, err, test.ShouldBeError, errors.New("input to NewHomography must have length of 9. Has length of 0"))

	vals := []float64{
		2.32700501e-01, -8.33535395e-03, -3.61894025e+01,
		-1.90671303e-03, 2.35303232e-01, 8.38582614e+00,
		-6.39101664e-05, -4.64582754e-05, 1.00000000e+00,
	}
	h, err := NewHomography(vals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, h.At(0, 2), test.ShouldEqual, vals[2])
	test.That(t, h.At(2, 1), test.ShouldEqual, vals[7])

	inv, err := h.Inverse()
	test.That(t, err, test.ShouldBeNil)
	for _, pt := range []r2.Point{{X: 0, Y: 0}, {X: 320, Y: 240}, {X: 1000, Y: 10}} {
		back := inv.Apply(h.Apply(pt))
		test.That(t, back.X, test.ShouldAlmostEqual, pt.X, 1e-6)
		test.That(t, back.Y, test.ShouldAlmostEqual, pt.Y, 1e-6)
	}

	_, err = (&Homography{}).Inverse()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestPlaneInducedHomography(t *testing.T) {
	src := NewCameraImage("src.png", 1000, 1000,
		[9]float64{1000, 0, 500, 0, 1000, 500, 0, 0, 1},
		[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		[3]float64{0, 0, 0})
	dst := NewCameraImage("dst.png", 1000, 1000,
		[9]float64{1000, 0, 500, 0, 1000, 500, 0, 0, 1},
		[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		[3]float64{-1, 0, 0})

	// the plane z = 5 in front of both cameras
	h, err := PlaneInducedHomography(src, dst, r3.Vector{X: 0, Y: 0, Z: 1}, 5)
	test.That(t, err, test.ShouldBeNil)

	center := h.Apply(r2.Point{X: 500, Y: 500})
	test.That(t, center.X, test.ShouldAlmostEqual, 300, 1e-9)
	test.That(t, center.Y, test.ShouldAlmostEqual, 500, 1e-9)

	t.Run("general views", func(t *testing.T) {
		src := newObliqueView()
		dst := newRectangularView()
		n := r3.Vector{X: 0.1, Y: -0.2, Z: 1}.Normalize()
		d := 6.0
		h, err := PlaneInducedHomography(src, dst, n, d)
		test.That(t, err, test.ShouldBeNil)

		// points on the plane, written in the source camera frame and moved to the world frame
		r, tr := src.GetRTDouble()
		for _, inPlane := range []r3.Vector{{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: -0.7, Y: 1.2}} {
			camPt := inPlane.Add(n.Mul(d - n.Dot(inPlane)))
			test.That(t, camPt.Dot(n), test.ShouldAlmostEqual, d, 1e-9)
			shifted := r3.Vector{X: camPt.X - tr[0], Y: camPt.Y - tr[1], Z: camPt.Z - tr[2]}
			// R is orthonormal so its transpose undoes it
			world := r3.Vector{
				X: r[0]*shifted.X + r[3]*shifted.Y + r[6]*shifted.Z,
				Y: r[1]*shifted.X + r[4]*shifted.Y + r[7]*shifted.Z,
				Z: r[2]*shifted.X + r[5]*shifted.Y + r[8]*shifted.Z,
			}

			srcPx, err := src.ProjectToPixel(world)
			test.That(t, err, test.ShouldBeNil)
			dstPx, err := dst.ProjectToPixel(world)
			test.That(t, err, test.ShouldBeNil)
			mapped := h.Apply(srcPx)
			test.That(t, mapped.X, test.ShouldAlmostEqual, dstPx.X, 1e-2)
			test.That(t, mapped.Y, test.ShouldAlmostEqual, dstPx.Y, 1e-2)
		}
	})

	t.Run("scaled and skewed intrinsics", func(t *testing.T) {
		skewed := NewCameraImage("skewed.png", 1000, 1000,
			[9]float64{2000, 20, 1000, 0, 2000, 1000, 0, 0, 2},
			[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
			[3]float64{0, 0, 0})
		h, err := PlaneInducedHomography(skewed, dst, r3.Vector{Z: 1}, 5)
		test.That(t, err, test.ShouldBeNil)
		for _, world := range []r3.Vector{{X: 0, Y: 0, Z: 5}, {X: 1, Y: -2, Z: 5}, {X: -1.5, Y: 0.5, Z: 5}} {
			srcPx, err := skewed.ProjectToPixel(world)
			test.That(t, err, test.ShouldBeNil)
			dstPx, err := dst.ProjectToPixel(world)
			test.That(t, err, test.ShouldBeNil)
			mapped := h.Apply(srcPx)
			test.That(t, mapped.X, test.ShouldAlmostEqual, dstPx.X, 1e-6)
			test.That(t, mapped.Y, test.ShouldAlmostEqual, dstPx.Y, 1e-6)
		}
	})

	_, err = PlaneInducedHomography(src, dst, r3.Vector{Z: 1}, 0)
	test.That(t, err, test.ShouldNotBeNil)

	bad := NewCameraImage("bad.png", 1000, 1000,
		[9]float64{-1000, 0, 500, 0, 1000, 500, 0, 0, 1},
		[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		[3]float64{0, 0, 0})
	_, err = PlaneInducedHomography(bad, dst, r3.Vector{Z: 1}, 5)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad.png")
	_, err = PlaneInducedHomography(dst, bad, r3.Vector{Z: 1}, 5)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
}
