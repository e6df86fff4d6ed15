package qrimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// DefaultLogoRatio is the logo edge as a fraction of the QR image's
// shorter dimension. At error correction level H roughly 20% of the
// image area can be covered without losing scannability.
const DefaultLogoRatio = 0.2

// maxLogoRatio caps callers that would wipe out too much redundancy.
const maxLogoRatio = 0.3

// LogoResult reports the outcome of a best-effort logo composite. A broken
// logo must never prevent code generation, so the error is carried here for
// the caller to log and deliberately ignore instead of being propagated.
type LogoResult struct {
	Applied bool
	Err     error
}

// ApplyLogo overlays the logo centered on the QR image. The logo is resized
// with Lanczos and pasted over an opaque white backing plate, because the
// center cutout needs an opaque canvas to avoid washing out the error
// correction redundancy. On any failure the input image is returned
// unchanged.
func ApplyLogo(qr image.Image, logoPath string, ratio float64) (image.Image, LogoResult) {
	if logoPath == "" {
		return qr, LogoResult{}
	}
	if ratio <= 0 {
		ratio = DefaultLogoRatio
	}
	if ratio > maxLogoRatio {
		ratio = maxLogoRatio
	}

	logo, err := imaging.Open(logoPath)
	if err != nil {
		return qr, LogoResult{Err: err}
	}

	b := qr.Bounds()
	shorter := b.Dx()
	if b.Dy() < shorter {
		shorter = b.Dy()
	}
	side := int(float64(shorter) * ratio)
	if side < 1 {
		return qr, LogoResult{}
	}

	resized := imaging.Resize(logo, side, side, imaging.Lanczos)

	// Opaque backing plate; Overlay honors the logo's alpha channel.
	plate := imaging.New(side, side, color.White)
	plate = imaging.Overlay(plate, resized, image.Pt(0, 0), 1.0)

	pos := image.Pt(b.Min.X+(b.Dx()-side)/2, b.Min.Y+(b.Dy()-side)/2)
	return imaging.Paste(qr, plate, pos), LogoResult{Applied: true}
}
