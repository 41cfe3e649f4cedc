package types

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// ImageInfo describes a decoded image for status display
type ImageInfo struct {
	Filename   string `json:"filename"`
	Resolution string `json:"resolution"`
	Mode       string `json:"mode"`
}

// NewImageInfo builds the info block for a decoded image.
func NewImageInfo(path string, width, height int, mode string) ImageInfo {
	return ImageInfo{
		Filename:   filepath.Base(path),
		Resolution: fmt.Sprintf("%dx%d", width, height),
		Mode:       mode,
	}
}

// PreviewInfo builds the placeholder info shown while a low-resolution
// preview stands in for the full decode.
func PreviewInfo(path string) ImageInfo {
	return ImageInfo{
		Filename:   filepath.Base(path),
		Resolution: "Preview",
		Mode:       "RGB",
	}
}

// ToJSON converts ImageInfo to a JSON string
func (i ImageInfo) ToJSON() string {
	jsonBytes, _ := json.Marshal(i)
	return string(jsonBytes)
}

// String returns a human-readable representation
func (i ImageInfo) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", i.Filename))
	sb.WriteString(fmt.Sprintf("Resolution: %s\n", i.Resolution))
	sb.WriteString(fmt.Sprintf("Mode: %s\n", i.Mode))
	return sb.String()
}
