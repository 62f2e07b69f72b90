package rimage

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestDepthMapBasics(t *testing.T) {
	dm := NewEmptyDepthMap(4, 3)
	test.That(t, dm.HasData(), test.ShouldBeTrue)
	test.That(t, dm.Bounds(), test.ShouldResemble, image.Rect(0, 0, 4, 3))

	lo, hi := dm.MinMax()
	test.That(t, lo, test.ShouldEqual, Depth(0))
	test.That(t, hi, test.ShouldEqual, Depth(0))

	dm.Set(1, 2, 500)
	dm.Set(3, 0, 1200)
	test.That(t, dm.GetDepth(1, 2), test.ShouldEqual, Depth(500))
	lo, hi = dm.MinMax()
	test.That(t, lo, test.ShouldEqual, Depth(500))
	test.That(t, hi, test.ShouldEqual, Depth(1200))

	test.That(t, (&DepthMap{}).HasData(), test.ShouldBeFalse)
}

func TestDepthMapRescaleKeepsValues(t *testing.T) {
	dm := NewEmptyDepthMap(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				dm.Set(x, y, 1000)
			} else {
				dm.Set(x, y, 3000)
			}
		}
	}

	dm.Rescale(2, 2)
	test.That(t, dm.Width(), test.ShouldEqual, 2)
	test.That(t, dm.Height(), test.ShouldEqual, 2)
	// nearest neighbour never blends the two surfaces
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			d := dm.GetDepth(x, y)
			test.That(t, d == 1000 || d == 3000, test.ShouldBeTrue)
		}
	}

	dm.Rescale(8, 6)
	test.That(t, CheckSize(dm, 8, 6), test.ShouldBeNil)
}

func TestConvertImageToDepthMap(t *testing.T) {
	gray := image.NewGray16(image.Rect(0, 0, 3, 2))
	gray.SetGray16(2, 1, color.Gray16{Y: 4321})
	dm := ConvertImageToDepthMap(gray)
	test.That(t, dm.GetDepth(2, 1), test.ShouldEqual, Depth(4321))

	rgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, color.NRGBA{255, 255, 255, 255})
	test.That(t, ConvertImageToDepthMap(rgba).GetDepth(0, 0), test.ShouldEqual, MaxDepth)
}

func TestDepthMapFileRoundTrip(t *testing.T) {
	dm := NewEmptyDepthMap(5, 4)
	dm.Set(4, 3, 65000)
	dm.Set(0, 0, 1)

	for _, name := range []string{"depth.png", "depth.tiff"} {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(t.TempDir(), name)
			test.That(t, WriteDepthMapToFile(fn, dm), test.ShouldBeNil)

			read, err := ReadDepthMapFromFile(fn)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, read.Width(), test.ShouldEqual, 5)
			test.That(t, read.Height(), test.ShouldEqual, 4)
			test.That(t, read.GetDepth(4, 3), test.ShouldEqual, Depth(65000))
			test.That(t, read.GetDepth(0, 0), test.ShouldEqual, Depth(1))
		})
	}
}

func TestDepthMapRotateMatchesImage(t *testing.T) {
	dm := NewEmptyDepthMap(4, 3)
	dm.Set(3, 0, 7)
	dm.Set(1, 2, 9)

	for turns := -1; turns <= 4; turns++ {
		rotated := dm.Rotate90(turns)
		if turns%2 != 0 {
			test.That(t, rotated.Width(), test.ShouldEqual, 3)
			test.That(t, rotated.Height(), test.ShouldEqual, 4)
		} else {
			test.That(t, rotated.Width(), test.ShouldEqual, 4)
			test.That(t, rotated.Height(), test.ShouldEqual, 3)
		}
	}

	test.That(t, dm.Rotate90(1).GetDepth(0, 0), test.ShouldEqual, Depth(7))
	test.That(t, dm.Rotate90(1).GetDepth(2, 2), test.ShouldEqual, Depth(9))
	test.That(t, dm.Rotate90(2).GetDepth(0, 2), test.ShouldEqual, Depth(7))
	test.That(t, dm.Rotate90(3).GetDepth(2, 3), test.ShouldEqual, Depth(7))
	test.That(t, dm.Rotate90(-1).GetDepth(2, 3), test.ShouldEqual, Depth(7))

	back := dm.Rotate90(1).Rotate90(1).Rotate90(1).Rotate90(1)
	test.That(t, back.data, test.ShouldResemble, dm.data)

	buf, ok := PixelBuffer(dm).(Rotator)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, CheckSize(buf.RotateBuffer(3), 3, 4), test.ShouldBeNil)
}
