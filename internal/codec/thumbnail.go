package codec

import (
	"bytes"
	"image"
	"os"

	"github.com/nfnt/resize"
	"github.com/rwcarlsen/goexif/exif"

	"kingview/internal/errors"
)

// Thumbnail decodes the image at path and downscales it to fit within the
// given box, preserving aspect ratio. Orientation correction is applied so
// previews match the full decode; metadata extraction is skipped.
func Thumbnail(path string, width, height int) (image.Image, error) {
	if IsRaw(path) {
		return nil, errors.NewDecodeError("RAW decoding is not supported", path, errors.UnsupportedFormat, nil)
	}
	if IsHEIF(path) {
		return nil, errors.NewDecodeError("HEIF decoding is not supported", path, errors.UnsupportedFormat, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDecodeError("failed to read image", path, errors.ThumbnailFailed, err)
	}

	orientation := 1
	if x, exifErr := exif.Decode(bytes.NewReader(data)); exifErr == nil {
		orientation = orientationOf(x)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewDecodeError("failed to decode thumbnail", path, errors.ThumbnailFailed, err)
	}

	img = applyOrientation(img, orientation)
	return resize.Thumbnail(uint(width), uint(height), img, resize.Lanczos3), nil
}
