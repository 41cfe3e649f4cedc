package codec

import "image"

// applyOrientation normalizes an image according to its EXIF orientation
// value (1-8). Orientation 1 and unknown values return the image unchanged.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return transform(img, false, func(w, h, x, y int) (int, int) { return w - 1 - x, y })
	case 3:
		return transform(img, false, func(w, h, x, y int) (int, int) { return w - 1 - x, h - 1 - y })
	case 4:
		return transform(img, false, func(w, h, x, y int) (int, int) { return x, h - 1 - y })
	case 5:
		return transform(img, true, func(w, h, x, y int) (int, int) { return y, x })
	case 6:
		return transform(img, true, func(w, h, x, y int) (int, int) { return y, h - 1 - x })
	case 7:
		return transform(img, true, func(w, h, x, y int) (int, int) { return w - 1 - y, h - 1 - x })
	case 8:
		return transform(img, true, func(w, h, x, y int) (int, int) { return w - 1 - y, x })
	default:
		return img
	}
}

// transform builds a new RGBA image by mapping each destination pixel back
// to its source coordinate. swap indicates the destination has transposed
// dimensions. The mapping function receives the source width/height and a
// destination coordinate and returns the source coordinate to sample.
func transform(img image.Image, swap bool, src func(w, h, x, y int) (int, int)) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dw, dh := w, h
	if swap {
		dw, dh = h, w
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			sx, sy := src(w, h, x, y)
			dst.Set(x, y, img.At(bounds.Min.X+sx, bounds.Min.Y+sy))
		}
	}
	return dst
}
