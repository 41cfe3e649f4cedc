// Package codec implements the image decode boundary: full decodes with
// EXIF orientation correction and metadata extraction, plus low-resolution
// thumbnail decodes. All functions are safe for concurrent use; each call
// owns its own buffers.
package codec

import (
	"path/filepath"
	"strings"

	// Register the supported image formats with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// SupportedExtensions is the fixed set of file extensions the directory
// scanner enumerates. RAW and HEIF extensions are listed for parity with
// camera folders even though decoding them is not supported; viewing one
// reports an UnsupportedFormat decode error.
var SupportedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
	".gif": true, ".webp": true, ".tif": true, ".tiff": true,
	".heic": true, ".heif": true,
	".cr2": true, ".nef": true, ".arw": true, ".dng": true,
}

// rawExtensions are camera RAW formats with no decoder available.
var rawExtensions = map[string]bool{
	".cr2": true, ".nef": true, ".arw": true, ".dng": true,
}

// heifExtensions are HEIF containers with no decoder available.
var heifExtensions = map[string]bool{
	".heic": true, ".heif": true,
}

// IsSupported reports whether the path's extension belongs to the
// supported-format set. The comparison is case-insensitive.
func IsSupported(path string) bool {
	return SupportedExtensions[normalizedExt(path)]
}

// IsRaw reports whether the path has a camera RAW extension
func IsRaw(path string) bool {
	return rawExtensions[normalizedExt(path)]
}

// IsHEIF reports whether the path has a HEIF container extension
func IsHEIF(path string) bool {
	return heifExtensions[normalizedExt(path)]
}

func normalizedExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
