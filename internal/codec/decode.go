package codec

import (
	"bytes"
	"image"
	"os"
	"sync"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/mknote"

	"kingview/internal/errors"
	"kingview/pkg/types"
)

// Result is the display-ready outcome of a full decode.
type Result struct {
	Bitmap image.Image
	Info   types.ImageInfo
	Meta   types.Metadata
}

// DecodeFunc is the shape of the decode boundary consumed by the viewer's
// dispatcher. Decode and wrappers around it satisfy this type.
type DecodeFunc func(path string) (*Result, error)

var registerMakernotes sync.Once

// Decode reads and fully decodes the image at path, applying any embedded
// EXIF orientation before returning the bitmap. Metadata fields that cannot
// be read keep their "-" sentinel; a missing or unreadable EXIF block is
// not an error.
func Decode(path string) (*Result, error) {
	registerMakernotes.Do(func() {
		exif.RegisterParsers(mknote.All...)
	})

	if IsRaw(path) {
		return nil, errors.NewDecodeError("RAW decoding is not supported", path, errors.UnsupportedFormat, nil)
	}
	if IsHEIF(path) {
		return nil, errors.NewDecodeError("HEIF decoding is not supported", path, errors.UnsupportedFormat, nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewDecodeError("failed to read image", path, errors.DecodeFailed, err)
	}

	meta := types.NewMetadata()
	orientation := 1
	if x, exifErr := exif.Decode(bytes.NewReader(data)); exifErr == nil {
		meta = extractMetadata(x)
		orientation = orientationOf(x)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewDecodeError("failed to decode image", path, errors.DecodeFailed, err)
	}

	img = applyOrientation(img, orientation)
	bounds := img.Bounds()

	return &Result{
		Bitmap: img,
		Info:   types.NewImageInfo(path, bounds.Dx(), bounds.Dy(), colorMode(img)),
		Meta:   meta,
	}, nil
}

// colorMode names the decoded image's pixel layout for the status bar
func colorMode(img image.Image) string {
	switch img.(type) {
	case *image.YCbCr:
		return "YCbCr"
	case *image.RGBA, *image.RGBA64:
		return "RGBA"
	case *image.NRGBA, *image.NRGBA64:
		return "RGBA"
	case *image.Gray, *image.Gray16:
		return "Gray"
	case *image.Paletted:
		return "P"
	case *image.CMYK:
		return "CMYK"
	default:
		return "RGBA"
	}
}
