package codec

import (
	"fmt"
	"strconv"

	"github.com/rwcarlsen/goexif/exif"

	"kingview/pkg/types"
)

// extractMetadata pulls the camera/exposure/GPS fields out of a decoded
// EXIF block. Fields that are absent or malformed keep the "-" sentinel.
func extractMetadata(x *exif.Exif) types.Metadata {
	meta := types.NewMetadata()

	if v, err := stringField(x, exif.Model); err == nil {
		meta.Camera = v
	}
	if v, err := intField(x, exif.ISOSpeedRatings); err == nil {
		meta.ISO = strconv.Itoa(v)
	}
	if num, den, err := ratField(x, exif.ExposureTime); err == nil {
		meta.Shutter = formatShutter(num, den)
	}
	if num, den, err := ratField(x, exif.FNumber); err == nil && den != 0 {
		meta.Aperture = fmt.Sprintf("f/%.2f", float64(num)/float64(den))
	}
	if num, den, err := ratField(x, exif.FocalLength); err == nil && den != 0 {
		meta.FocalLength = fmt.Sprintf("%.2f mm", float64(num)/float64(den))
	}
	if v, err := stringField(x, exif.DateTimeOriginal); err == nil {
		meta.DateTaken = v
	} else if v, err := stringField(x, exif.DateTime); err == nil {
		meta.DateTaken = v
	}
	if lat, long, err := x.LatLong(); err == nil {
		meta.GPS = fmt.Sprintf("%.6f, %.6f", lat, long)
	}

	return meta
}

// orientationOf returns the EXIF orientation value (1-8), defaulting to 1
func orientationOf(x *exif.Exif) int {
	v, err := intField(x, exif.Orientation)
	if err != nil || v < 1 || v > 8 {
		return 1
	}
	return v
}

func stringField(x *exif.Exif, name exif.FieldName) (string, error) {
	tag, err := x.Get(name)
	if err != nil {
		return "", err
	}
	v, err := tag.StringVal()
	if err != nil || v == "" {
		return "", fmt.Errorf("empty field %s", name)
	}
	return v, nil
}

func intField(x *exif.Exif, name exif.FieldName) (int, error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, err
	}
	return tag.Int(0)
}

func ratField(x *exif.Exif, name exif.FieldName) (num, den int64, err error) {
	tag, err := x.Get(name)
	if err != nil {
		return 0, 0, err
	}
	return tag.Rat2(0)
}

// formatShutter renders an exposure time as a conventional shutter speed:
// sub-second values as a reduced fraction ("1/250s"), longer exposures as
// decimal seconds ("2.50s").
func formatShutter(num, den int64) string {
	if den == 0 {
		return types.Unknown
	}
	if num < 0 || den < 0 {
		return types.Unknown
	}
	if num < den {
		g := gcd(num, den)
		if g > 0 {
			num /= g
			den /= g
		}
		return fmt.Sprintf("%d/%ds", num, den)
	}
	return fmt.Sprintf("%.2fs", float64(num)/float64(den))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
