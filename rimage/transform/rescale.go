package transform

import (
	"math"

	"github.com/pkg/errors"

	"go.viam.com/mvs/rimage"
)

// Rescale resizes the view by factorX horizontally and factorY vertically. The new size is
// rounded to whole pixels and the intrinsics are scaled by the ratio actually achieved, which can
// differ slightly from the requested factors. An attached bitmap is resampled to the new size.
func (ci *CameraImage) Rescale(factorX, factorY float64) error {
	newWidth := int(math.Round(float64(ci.width) * factorX))
	newHeight := int(math.Round(float64(ci.height) * factorY))
	if newWidth < 1 || newHeight < 1 {
		return errors.Errorf("rescaling %q by (%v, %v) gives an empty image (%d, %d)",
			ci.path, factorX, factorY, newWidth, newHeight)
	}

	if ci.bitmap != nil {
		ci.bitmap.Rescale(newWidth, newHeight)
		if err := rimage.CheckSize(ci.bitmap, newWidth, newHeight); err != nil {
			panic(errors.Wrapf(err, "rescaled bitmap of %q", ci.path))
		}
	}

	scaleX := float64(newWidth) / float64(ci.width)
	scaleY := float64(newHeight) / float64(ci.height)
	ci.k[0] *= scaleX
	ci.k[2] *= scaleX
	ci.k[4] *= scaleY
	ci.k[5] *= scaleY

	ci.width = newWidth
	ci.height = newHeight
	return nil
}

// RescaleUniform resizes the view by factor in both directions.
func (ci *CameraImage) RescaleUniform(factor float64) error {
	return ci.Rescale(factor, factor)
}

// Downsize shrinks the view, keeping its aspect ratio, until it fits in maxWidth x maxHeight.
// A view that already fits is left alone; Downsize never enlarges.
func (ci *CameraImage) Downsize(maxWidth, maxHeight int) error {
	if ci.width <= maxWidth && ci.height <= maxHeight {
		return nil
	}
	factorX := float64(maxWidth) / float64(ci.width)
	factorY := float64(maxHeight) / float64(ci.height)
	return ci.RescaleUniform(math.Min(factorX, factorY))
}
