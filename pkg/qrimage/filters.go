package qrimage

import (
	"image"

	"github.com/disintegration/imaging"
)

// ApplyFilters runs the named filters in order. Unknown names are skipped,
// never an error. Supported: sharpen, smooth, edge_enhance, emboss.
func ApplyFilters(img image.Image, filters []string) *image.NRGBA {
	out := imaging.Clone(img)
	for _, name := range filters {
		switch name {
		case "sharpen":
			out = imaging.Sharpen(out, 1.0)
		case "smooth":
			out = imaging.Blur(out, 0.7)
		case "edge_enhance":
			out = imaging.Convolve3x3(out, [9]float64{
				-1, -1, -1,
				-1, 10, -1,
				-1, -1, -1,
			}, &imaging.ConvolveOptions{Normalize: true})
		case "emboss":
			out = imaging.Convolve3x3(out, [9]float64{
				-1, -1, 0,
				-1, 1, 1,
				0, 1, 1,
			}, nil)
		}
	}
	return out
}

// AdjustBrightnessContrast applies factor-style adjustments where 1.0 means
// unchanged, matching the render spec contract. Factors map onto the
// percentage scale used by the imaging package.
func AdjustBrightnessContrast(img image.Image, brightness, contrast float64) *image.NRGBA {
	out := imaging.Clone(img)
	if brightness > 0 && brightness != 1.0 {
		out = imaging.AdjustBrightness(out, clampPercent((brightness-1.0)*100))
	}
	if contrast > 0 && contrast != 1.0 {
		out = imaging.AdjustContrast(out, clampPercent((contrast-1.0)*100))
	}
	return out
}

func clampPercent(p float64) float64 {
	if p < -100 {
		return -100
	}
	if p > 100 {
		return 100
	}
	return p
}
