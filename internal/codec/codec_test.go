package codec

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"kingview/internal/errors"
	"kingview/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG encodes a width x height gradient image to a file under dir
func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("/photos/a.jpg"))
	assert.True(t, IsSupported("/photos/a.JPG"), "extension match must be case-insensitive")
	assert.True(t, IsSupported("/photos/a.JpEg"))
	assert.True(t, IsSupported("/photos/a.tif"))
	assert.True(t, IsSupported("/photos/a.webp"))
	assert.True(t, IsSupported("/photos/a.NEF"))
	assert.False(t, IsSupported("/photos/a.txt"))
	assert.False(t, IsSupported("/photos/noext"))
}

func TestIsRawAndHEIF(t *testing.T) {
	assert.True(t, IsRaw("/p/a.cr2"))
	assert.True(t, IsRaw("/p/a.DNG"))
	assert.False(t, IsRaw("/p/a.jpg"))
	assert.True(t, IsHEIF("/p/a.heic"))
	assert.False(t, IsHEIF("/p/a.png"))
}

func TestDecodePNG(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "sample.png", 4, 2)

	res, err := Decode(path)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 4, res.Bitmap.Bounds().Dx())
	assert.Equal(t, 2, res.Bitmap.Bounds().Dy())
	assert.Equal(t, "sample.png", res.Info.Filename)
	assert.Equal(t, "4x2", res.Info.Resolution)
	assert.Equal(t, "RGBA", res.Info.Mode)

	// No EXIF block: every metadata field keeps the sentinel
	assert.Equal(t, types.NewMetadata(), res.Meta)
}

func TestDecodeMissingFile(t *testing.T) {
	_, err := Decode(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.True(t, errors.IsDecodeFailed(err))
	assert.False(t, errors.IsUnsupportedFormat(err))
}

func TestDecodeCorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	require.NoError(t, os.WriteFile(path, []byte("this is not an image"), 0644))

	_, err := Decode(path)
	require.Error(t, err)
	assert.True(t, errors.IsDecodeFailed(err))

	var decErr *errors.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, path, decErr.Path())
}

func TestDecodeRawReportsUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.nef")
	require.NoError(t, os.WriteFile(path, []byte("raw bytes"), 0644))

	_, err := Decode(path)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))

	path = filepath.Join(t.TempDir(), "shot.heic")
	require.NoError(t, os.WriteFile(path, []byte("heif bytes"), 0644))
	_, err = Decode(path)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestThumbnailFitsBox(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "wide.png", 400, 200)

	thumb, err := Thumbnail(path, 100, 100)
	require.NoError(t, err)

	// Aspect ratio preserved inside the box
	assert.Equal(t, 100, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}

func TestThumbnailSmallImageNotUpscaled(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "small.png", 8, 4)

	thumb, err := Thumbnail(path, 200, 140)
	require.NoError(t, err)
	assert.Equal(t, 8, thumb.Bounds().Dx())
	assert.Equal(t, 4, thumb.Bounds().Dy())
}

func TestThumbnailFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0644))
	_, err := Thumbnail(path, 100, 100)
	assert.Error(t, err)

	_, err = Thumbnail(filepath.Join(t.TempDir(), "shot.arw"), 100, 100)
	require.Error(t, err)
	assert.True(t, errors.IsUnsupportedFormat(err))
}

func TestApplyOrientation(t *testing.T) {
	// 2x1 source: red at (0,0), blue at (1,0)
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	src.Set(0, 0, red)
	src.Set(1, 0, blue)

	sameColor := func(img image.Image, x, y int, want color.NRGBA) bool {
		r, g, b, a := img.At(x, y).RGBA()
		wr, wg, wb, wa := want.RGBA()
		return r == wr && g == wg && b == wb && a == wa
	}

	t.Run("identity", func(t *testing.T) {
		out := applyOrientation(src, 1)
		assert.Equal(t, src, out)
	})

	t.Run("mirror horizontal", func(t *testing.T) {
		out := applyOrientation(src, 2)
		assert.True(t, sameColor(out, 0, 0, blue))
		assert.True(t, sameColor(out, 1, 0, red))
	})

	t.Run("rotate 180", func(t *testing.T) {
		out := applyOrientation(src, 3)
		assert.Equal(t, 2, out.Bounds().Dx())
		assert.True(t, sameColor(out, 0, 0, blue))
		assert.True(t, sameColor(out, 1, 0, red))
	})

	t.Run("rotate 90 cw", func(t *testing.T) {
		out := applyOrientation(src, 6)
		// Dimensions swap; red ends up at the top
		assert.Equal(t, 1, out.Bounds().Dx())
		assert.Equal(t, 2, out.Bounds().Dy())
		assert.True(t, sameColor(out, 0, 0, red))
		assert.True(t, sameColor(out, 0, 1, blue))
	})

	t.Run("rotate 270 cw", func(t *testing.T) {
		out := applyOrientation(src, 8)
		assert.Equal(t, 1, out.Bounds().Dx())
		assert.Equal(t, 2, out.Bounds().Dy())
		assert.True(t, sameColor(out, 0, 0, blue))
		assert.True(t, sameColor(out, 0, 1, red))
	})

	t.Run("unknown value is identity", func(t *testing.T) {
		assert.Equal(t, src, applyOrientation(src, 0))
		assert.Equal(t, src, applyOrientation(src, 9))
	})
}

func TestFormatShutter(t *testing.T) {
	assert.Equal(t, "1/250s", formatShutter(1, 250))
	assert.Equal(t, "1/250s", formatShutter(10, 2500), "fractions are reduced")
	assert.Equal(t, "2.50s", formatShutter(5, 2))
	assert.Equal(t, "1.00s", formatShutter(1, 1))
	assert.Equal(t, types.Unknown, formatShutter(1, 0))
}
