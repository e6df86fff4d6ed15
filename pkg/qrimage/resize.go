package qrimage

import (
	"image"

	"github.com/disintegration/imaging"
)

// Resize scales the image to (width, height). With keepAspect the tighter
// fitting dimension wins: the original and target aspect ratios are
// compared and the output fits inside the requested box without stretching.
// Without keepAspect the image is stretched to the exact size.
func Resize(img image.Image, width, height int, keepAspect bool) *image.NRGBA {
	if !keepAspect {
		return imaging.Resize(img, width, height, imaging.Lanczos)
	}

	b := img.Bounds()
	origRatio := float64(b.Dx()) / float64(b.Dy())
	targetRatio := float64(width) / float64(height)

	if origRatio > targetRatio {
		// Wider than the box: fit to width.
		height = int(float64(width) / origRatio)
	} else {
		width = int(float64(height) * origRatio)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// ResizeToFit scales the image so its longer edge equals dim, preserving
// the aspect ratio.
func ResizeToFit(img image.Image, dim int) *image.NRGBA {
	b := img.Bounds()
	aspect := float64(b.Dx()) / float64(b.Dy())
	if b.Dx() > b.Dy() {
		return imaging.Resize(img, dim, int(float64(dim)/aspect), imaging.Lanczos)
	}
	return imaging.Resize(img, int(float64(dim)*aspect), dim, imaging.Lanczos)
}
