package rimage

import (
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
)

// Image is a color PixelBuffer backed by an NRGBA image.
type Image struct {
	mu  sync.Mutex
	img *image.NRGBA
}

// NewImage returns a black image of the given size.
func NewImage(width, height int) *Image {
	return &Image{img: image.NewNRGBA(image.Rect(0, 0, width, height))}
}

// NewImageFromStdImage converts any image into an Image anchored at the origin.
func NewImageFromStdImage(img image.Image) *Image {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Bounds().Min == (image.Point{}) {
		return &Image{img: nrgba}
	}
	return &Image{img: imaging.Clone(img)}
}

// ColorModel returns the NRGBA color model.
func (i *Image) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds returns the rectangle (0,0)-(width,height).
func (i *Image) Bounds() image.Rectangle {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.img.Bounds()
}

// Width returns the width in pixels.
func (i *Image) Width() int {
	return i.Bounds().Dx()
}

// Height returns the height in pixels.
func (i *Image) Height() int {
	return i.Bounds().Dy()
}

// At returns the color at (x,y).
func (i *Image) At(x, y int) color.Color {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.img.At(x, y)
}

// SetXY sets the color at (x,y).
func (i *Image) SetXY(x, y int, c color.Color) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.img.Set(x, y, c)
}

// Rescale resamples the image with a Lanczos filter.
func (i *Image) Rescale(width, height int) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if width == i.img.Bounds().Dx() && height == i.img.Bounds().Dy() {
		return
	}
	i.img = imaging.Resize(i.img, width, height, imaging.Lanczos)
}

// Rotate90 returns a copy of the image turned by the given number of quarter turns. A quarter
// turn maps pixel (x,y) to (y, width-1-x), the same remap a rotated camera view applies to its
// principal point.
func (i *Image) Rotate90(turns int) *Image {
	i.mu.Lock()
	defer i.mu.Unlock()
	switch ((turns % 4) + 4) % 4 {
	case 1:
		return &Image{img: imaging.Rotate90(i.img)}
	case 2:
		return &Image{img: imaging.Rotate180(i.img)}
	case 3:
		return &Image{img: imaging.Rotate270(i.img)}
	default:
		return &Image{img: imaging.Clone(i.img)}
	}
}

// NRGBA returns the backing image. The caller must not mutate it.
func (i *Image) NRGBA() *image.NRGBA {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.img
}

// RotateBuffer is Rotate90 as a PixelBuffer.
func (i *Image) RotateBuffer(turns int) PixelBuffer {
	return i.Rotate90(turns)
}
