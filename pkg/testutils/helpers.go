// Package testutils provides helpers for building folders of real encoded
// images in tests.
package testutils

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestImage builds a width x height gradient image.
func TestImage(width, height int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 96,
				A: 255,
			})
		}
	}
	return img
}

// CreatePNG writes a real PNG of the given size and returns its path.
func CreatePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, TestImage(width, height)))
	return path
}

// CreateJPEG writes a real JPEG of the given size and returns its path.
func CreateJPEG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, TestImage(width, height), &jpeg.Options{Quality: 85}))
	return path
}

// CreateCorrupted writes a file with an image extension but unreadable
// contents.
func CreateCorrupted(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	return path
}

// CreateImageFolder populates dir with count small PNGs named
// img_000.png ... and returns their paths in lexicographic order.
func CreateImageFolder(t *testing.T, dir string, count int) []string {
	t.Helper()
	paths := make([]string, 0, count)
	for i := 0; i < count; i++ {
		paths = append(paths, CreatePNG(t, dir, fmt.Sprintf("img_%03d.png", i), 8, 8))
	}
	return paths
}
