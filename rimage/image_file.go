package rimage

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"golang.org/x/image/tiff"

	// register decoders for the formats camera tooling commonly emits.
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ReadImageFromFile decodes a color image from disk.
func ReadImageFromFile(path string) (*Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading image %q", path)
	}
	return NewImageFromStdImage(img), nil
}

// WriteImageToFile encodes the image in the format implied by the file extension.
func WriteImageToFile(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return errors.Wrapf(err, "error writing image %q", path)
	}
	return nil
}

// ReadDepthMapFromFile decodes a 16 bit png or tiff depth image from disk.
func ReadDepthMapFromFile(path string) (*DepthMap, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening depth map %q", path)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error decoding depth map %q", path)
	}
	return ConvertImageToDepthMap(img), nil
}

// WriteDepthMapToFile writes the depth map as a 16 bit png, or a tiff if the extension asks for
// one.
func WriteDepthMapToFile(path string, dm *DepthMap) (err error) {
	//nolint:gosec
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating depth map %q", path)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return tiff.Encode(f, dm.ToGray16Picture(), &tiff.Options{Compression: tiff.Deflate})
	default:
		return png.Encode(f, dm.ToGray16Picture())
	}
}
