package qrimage

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultModuleScale is the native pixel size of one module before
	// the final high-quality resize.
	DefaultModuleScale = 10
	// DefaultBorderSize is the border frame thickness in native pixels.
	DefaultBorderSize = 20
	// DefaultSize is the final edge length when the caller gives none.
	DefaultSize = 500
)

// RenderOptions parameterize a single rasterization.
type RenderOptions struct {
	ModuleScale int // pixels per module at native resolution, >= 1
	FillColor   color.Color
	BackColor   color.Color
	Width       int // final output width, exact
	Height      int // final output height, exact
	AddBorder   bool
	BorderColor color.Color
	BorderSize  int // frame thickness in native pixels
}

func (o *RenderOptions) normalize() {
	if o.ModuleScale < 1 {
		o.ModuleScale = DefaultModuleScale
	}
	if o.FillColor == nil {
		o.FillColor = color.Black
	}
	if o.BackColor == nil {
		o.BackColor = color.White
	}
	if o.Width < 1 {
		o.Width = DefaultSize
	}
	if o.Height < 1 {
		o.Height = DefaultSize
	}
	if o.AddBorder {
		if o.BorderSize < 1 {
			o.BorderSize = DefaultBorderSize
		}
		if o.BorderColor == nil {
			o.BorderColor = color.White
		}
	}
}

// Render rasterizes a QR symbol to exactly (Width, Height) pixels. The
// symbol is drawn at native module resolution first; an optional border
// frame is padded on before the final resize, so the output always matches
// the requested size. The final resize uses Lanczos resampling to keep the
// modules decodable.
func Render(sym *qrcode.QRCode, opts RenderOptions) *image.NRGBA {
	opts.normalize()

	sym.ForegroundColor = opts.FillColor
	sym.BackgroundColor = opts.BackColor

	// Negative size renders at |n| pixels per module, quiet zone included.
	native := sym.Image(-opts.ModuleScale)

	var canvas image.Image = native
	if opts.AddBorder {
		b := native.Bounds()
		framed := imaging.New(b.Dx()+2*opts.BorderSize, b.Dy()+2*opts.BorderSize, opts.BorderColor)
		canvas = imaging.Paste(framed, native, image.Pt(opts.BorderSize, opts.BorderSize))
	}

	return imaging.Resize(canvas, opts.Width, opts.Height, imaging.Lanczos)
}

// ParseColor reads "#RGB" and "#RRGGBB" hex notations plus the handful of
// named colors the render endpoints accept. Unparsable input yields the
// fallback.
func ParseColor(s string, fallback color.Color) color.Color {
	switch s {
	case "":
		return fallback
	case "black":
		return color.Black
	case "white":
		return color.White
	}
	if len(s) == 4 && s[0] == '#' {
		r, okR := hexNibble(s[1])
		g, okG := hexNibble(s[2])
		b, okB := hexNibble(s[3])
		if okR && okG && okB {
			return color.NRGBA{R: r * 17, G: g * 17, B: b * 17, A: 0xff}
		}
	}
	if len(s) == 7 && s[0] == '#' {
		var vals [3]uint8
		ok := true
		for i := 0; i < 3; i++ {
			hi, okHi := hexNibble(s[1+2*i])
			lo, okLo := hexNibble(s[2+2*i])
			if !okHi || !okLo {
				ok = false
				break
			}
			vals[i] = hi<<4 | lo
		}
		if ok {
			return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: 0xff}
		}
	}
	return fallback
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
