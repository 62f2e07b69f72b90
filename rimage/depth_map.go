package rimage

import (
	"image"
	"image/color"
	"math"

	"github.com/nfnt/resize"
)

// Depth is the depth of a pixel in millimeters.
type Depth uint16

// MaxDepth is the largest depth a DepthMap can hold.
const MaxDepth = Depth(math.MaxUint16)

// DepthMap is a PixelBuffer of per-pixel depths, e.g. the depth image a fusion stage produces for
// a view.
type DepthMap struct {
	width  int
	height int

	data []Depth
}

// NewEmptyDepthMap returns a DepthMap with every pixel at zero depth.
func NewEmptyDepthMap(width, height int) *DepthMap {
	return &DepthMap{
		width:  width,
		height: height,
		data:   make([]Depth, width*height),
	}
}

// ConvertImageToDepthMap reads a 16 bit gray image (the usual on-disk depth encoding) into a
// DepthMap. Other image types go through the gray16 color model.
func ConvertImageToDepthMap(img image.Image) *DepthMap {
	bounds := img.Bounds()
	dm := NewEmptyDepthMap(bounds.Dx(), bounds.Dy())
	gray, isGray := img.(*image.Gray16)
	for y := 0; y < dm.height; y++ {
		for x := 0; x < dm.width; x++ {
			px, py := bounds.Min.X+x, bounds.Min.Y+y
			if isGray {
				dm.Set(x, y, Depth(gray.Gray16At(px, py).Y))
				continue
			}
			dm.Set(x, y, Depth(color.Gray16Model.Convert(img.At(px, py)).(color.Gray16).Y))
		}
	}
	return dm
}

func (dm *DepthMap) kxy(x, y int) int {
	return (y * dm.width) + x
}

// HasData returns whether the map has any pixels.
func (dm *DepthMap) HasData() bool {
	return dm.width > 0 && dm.data != nil
}

// Width returns the width in pixels.
func (dm *DepthMap) Width() int {
	return dm.width
}

// Height returns the height in pixels.
func (dm *DepthMap) Height() int {
	return dm.height
}

// Bounds returns the rectangle (0,0)-(width,height).
func (dm *DepthMap) Bounds() image.Rectangle {
	return image.Rect(0, 0, dm.width, dm.height)
}

// GetDepth returns the depth at (x,y).
func (dm *DepthMap) GetDepth(x, y int) Depth {
	return dm.data[dm.kxy(x, y)]
}

// Set sets the depth at (x,y).
func (dm *DepthMap) Set(x, y int, val Depth) {
	dm.data[dm.kxy(x, y)] = val
}

// MinMax returns the smallest and largest non-zero depth. Both are zero for an empty map.
func (dm *DepthMap) MinMax() (Depth, Depth) {
	lo, hi := MaxDepth, Depth(0)
	for _, d := range dm.data {
		if d == 0 {
			continue
		}
		if d < lo {
			lo = d
		}
		if d > hi {
			hi = d
		}
	}
	if hi == 0 {
		return 0, 0
	}
	return lo, hi
}

// ToGray16Picture converts the map to a 16 bit gray image.
func (dm *DepthMap) ToGray16Picture() *image.Gray16 {
	img := image.NewGray16(dm.Bounds())
	for y := 0; y < dm.height; y++ {
		for x := 0; x < dm.width; x++ {
			img.SetGray16(x, y, color.Gray16{uint16(dm.GetDepth(x, y))})
		}
	}
	return img
}

// Rescale resamples the map with nearest neighbour lookup so that no depth is invented at
// object boundaries.
func (dm *DepthMap) Rescale(width, height int) {
	if width == dm.width && height == dm.height {
		return
	}
	resized := resize.Resize(uint(width), uint(height), dm.ToGray16Picture(), resize.NearestNeighbor)
	rescaled := ConvertImageToDepthMap(resized)
	dm.width, dm.height, dm.data = rescaled.width, rescaled.height, rescaled.data
}

// Rotate90 returns a copy of the map turned by the given number of quarter turns, pixel (x,y)
// going to (y, width-1-x) on each turn.
func (dm *DepthMap) Rotate90(turns int) *DepthMap {
	turns = ((turns % 4) + 4) % 4
	var out *DepthMap
	if turns%2 == 1 {
		out = NewEmptyDepthMap(dm.height, dm.width)
	} else {
		out = NewEmptyDepthMap(dm.width, dm.height)
	}
	w, h := dm.width, dm.height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := dm.GetDepth(x, y)
			switch turns {
			case 1:
				out.Set(y, w-1-x, d)
			case 2:
				out.Set(w-1-x, h-1-y, d)
			case 3:
				out.Set(h-1-y, x, d)
			default:
				out.Set(x, y, d)
			}
		}
	}
	return out
}

// RotateBuffer is Rotate90 as a PixelBuffer.
func (dm *DepthMap) RotateBuffer(turns int) PixelBuffer {
	return dm.Rotate90(turns)
}
