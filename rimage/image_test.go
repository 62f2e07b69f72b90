package rimage

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestImageRescale(t *testing.T) {
	img := NewImage(40, 30)
	test.That(t, img.Width(), test.ShouldEqual, 40)
	test.That(t, img.Height(), test.ShouldEqual, 30)

	img.Rescale(20, 15)
	test.That(t, img.Width(), test.ShouldEqual, 20)
	test.That(t, img.Height(), test.ShouldEqual, 15)
	test.That(t, CheckSize(img, 20, 15), test.ShouldBeNil)

	img.Rescale(20, 15)
	test.That(t, img.Bounds(), test.ShouldResemble, image.Rect(0, 0, 20, 15))
}

func TestImageRotate90(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	img := NewImage(4, 3)
	// top right corner
	img.SetXY(3, 0, red)

	rotated := img.Rotate90(1)
	test.That(t, rotated.Width(), test.ShouldEqual, 3)
	test.That(t, rotated.Height(), test.ShouldEqual, 4)
	// (x,y) -> (y, width-1-x)
	test.That(t, rotated.At(0, 0), test.ShouldResemble, red)

	test.That(t, img.Rotate90(2).At(0, 2), test.ShouldResemble, red)
	test.That(t, img.Rotate90(4).At(3, 0), test.ShouldResemble, red)
	test.That(t, img.Rotate90(-3).At(0, 0), test.ShouldResemble, red)
	// the source is untouched
	test.That(t, img.At(3, 0), test.ShouldResemble, red)
}

func TestCheckSize(t *testing.T) {
	test.That(t, CheckSize(nil, 1, 1), test.ShouldNotBeNil)
	err := CheckSize(NewImage(2, 2), 3, 2)
	test.That(t, err, test.ShouldBeError)
	test.That(t, err.Error(), test.ShouldContainSubstring, "buffer(2,2) != view(3,2)")
}

func TestImageFileRoundTrip(t *testing.T) {
	img := NewImage(8, 6)
	img.SetXY(1, 2, color.NRGBA{10, 20, 30, 255})

	fn := filepath.Join(t.TempDir(), "view.png")
	test.That(t, WriteImageToFile(fn, img), test.ShouldBeNil)

	read, err := ReadImageFromFile(fn)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, read.Bounds(), test.ShouldResemble, img.Bounds())
	test.That(t, read.At(1, 2), test.ShouldResemble, color.NRGBA{10, 20, 30, 255})

	_, err = ReadImageFromFile(filepath.Join(t.TempDir(), "missing.png"))
	test.That(t, err, test.ShouldNotBeNil)
}
