// Package rimage holds the pixel buffers that can be attached to a calibrated camera view.
package rimage

import "github.com/pkg/errors"

// PixelBuffer is storage for the pixels of one camera view. A buffer resamples itself in place
// when the view it belongs to is rescaled.
type PixelBuffer interface {
	Width() int
	Height() int
	// Rescale resamples the buffer to exactly width x height pixels.
	Rescale(width, height int)
}

// ErrBufferSizeMismatch is returned when a buffer does not have the dimensions of its view.
var ErrBufferSizeMismatch = errors.New("pixel buffer dimensions do not match")

// CheckSize returns an error if buf is not width x height pixels.
func CheckSize(buf PixelBuffer, width, height int) error {
	if buf == nil {
		return errors.New("pixel buffer is nil")
	}
	if buf.Width() != width || buf.Height() != height {
		return errors.Wrapf(ErrBufferSizeMismatch, "buffer(%d,%d) != view(%d,%d)",
			buf.Width(), buf.Height(), width, height)
	}
	return nil
}

// Rotator is implemented by buffers that can follow a view through quarter turns. A quarter turn
// moves pixel (x,y) to (y, width-1-x).
type Rotator interface {
	RotateBuffer(turns int) PixelBuffer
}
