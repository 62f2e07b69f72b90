package transform

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/mvs/rimage"
)

func TestRescaleUniformOne(t *testing.T) {
	ci := newObliqueView()
	k := ci.GetKDouble()
	test.That(t, ci.RescaleUniform(1), test.ShouldBeNil)
	test.That(t, ci.GetKDouble(), test.ShouldResemble, k)
	test.That(t, ci.Width(), test.ShouldEqual, 640)
	test.That(t, ci.Height(), test.ShouldEqual, 480)
}

func TestRescale(t *testing.T) {
	ci := newObliqueView()
	test.That(t, ci.Rescale(0.5, 0.25), test.ShouldBeNil)
	test.That(t, ci.Width(), test.ShouldEqual, 320)
	test.That(t, ci.Height(), test.ShouldEqual, 120)
	test.That(t, ci.GetKDouble(), test.ShouldResemble, [9]float64{400, 0, 160, 0, 195, 60, 0, 0, 1})

	t.Run("scales by the rounded size", func(t *testing.T) {
		ci := newFrontalView()
		test.That(t, ci.RescaleUniform(0.3333), test.ShouldBeNil)
		test.That(t, ci.Width(), test.ShouldEqual, 333)
		k := ci.GetKDouble()
		test.That(t, k[0], test.ShouldAlmostEqual, 333.0, 1e-9)
		test.That(t, k[2], test.ShouldAlmostEqual, 166.5, 1e-9)
		test.That(t, k[8], test.ShouldEqual, 1.0)
	})

	t.Run("empty result", func(t *testing.T) {
		ci := newObliqueView()
		err := ci.Rescale(0.0001, 1)
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "empty image")
		test.That(t, ci.Rescale(1, -1), test.ShouldNotBeNil)
		test.That(t, ci.Width(), test.ShouldEqual, 640)
		test.That(t, ci.GetKDouble()[0], test.ShouldEqual, 800.0)
	})
}

func TestRescaleBitmap(t *testing.T) {
	ci := NewCameraImage("small.png", 40, 30,
		[9]float64{40, 0, 20, 0, 40, 15, 0, 0, 1},
		[9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		[3]float64{0, 0, 1})
	img := rimage.NewImage(40, 30)
	ci.SetBitmap(img)

	test.That(t, ci.RescaleUniform(0.5), test.ShouldBeNil)
	test.That(t, img.Width(), test.ShouldEqual, 20)
	test.That(t, img.Height(), test.ShouldEqual, 15)
	test.That(t, ci.CheckBitmap(ci.Bitmap()), test.ShouldBeNil)

	dm := rimage.NewEmptyDepthMap(20, 15)
	ci.SetBitmap(dm)
	test.That(t, ci.Rescale(2, 3), test.ShouldBeNil)
	test.That(t, dm.Width(), test.ShouldEqual, 40)
	test.That(t, dm.Height(), test.ShouldEqual, 45)

	ci.SetBitmap(&stuckBuffer{40, 45})
	test.That(t, func() { ci.RescaleUniform(0.5) }, test.ShouldPanic)
}

func TestDownsize(t *testing.T) {
	ci := newObliqueView()
	k := ci.GetKDouble()
	test.That(t, ci.Downsize(640, 480), test.ShouldBeNil)
	test.That(t, ci.Downsize(4000, 4000), test.ShouldBeNil)
	test.That(t, ci.Width(), test.ShouldEqual, 640)
	test.That(t, ci.Height(), test.ShouldEqual, 480)
	test.That(t, ci.GetKDouble(), test.ShouldResemble, k)

	test.That(t, ci.Downsize(320, 400), test.ShouldBeNil)
	test.That(t, ci.Width(), test.ShouldEqual, 320)
	test.That(t, ci.Height(), test.ShouldEqual, 240)
	test.That(t, float64(ci.Width())/float64(ci.Height()), test.ShouldAlmostEqual, 640.0/480.0)
	test.That(t, ci.GetKDouble(), test.ShouldResemble, [9]float64{400, 0, 160, 0, 390, 120, 0, 0, 1})

	ci = newObliqueView()
	test.That(t, ci.Downsize(1000, 120), test.ShouldBeNil)
	test.That(t, ci.Width(), test.ShouldEqual, 160)
	test.That(t, ci.Height(), test.ShouldEqual, 120)
}
