package qrimage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Supported output formats. Anything else falls back to PNG.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatWEBP = "webp"
)

// DefaultQuality applies when the caller gives no JPEG/WEBP quality.
const DefaultQuality = 95

// EncodeOptions control the transcode step.
type EncodeOptions struct {
	Format   string
	Quality  int  // 1-100, ignored for PNG
	Optimize bool // PNG only: maximum lossless compression
}

// NormalizeFormat lowercases the requested format, maps jpg to jpeg and
// replaces anything unrecognized with PNG instead of failing.
func NormalizeFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatPNG, "":
		return FormatPNG
	case FormatJPEG, "jpg":
		return FormatJPEG
	case FormatWEBP:
		return FormatWEBP
	default:
		return FormatPNG
	}
}

// ContentType returns the MIME type for a normalized format.
func ContentType(format string) string {
	return "image/" + NormalizeFormat(format)
}

// EncodeImage transcodes the composed image to an in-memory buffer and
// returns the bytes together with the content type. JPEG has no alpha
// channel, so transparency is flattened onto white first.
func EncodeImage(img image.Image, opts EncodeOptions) ([]byte, string, error) {
	format := NormalizeFormat(opts.Format)
	quality := opts.Quality
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, flatten(img), &jpeg.Options{Quality: quality})
	case FormatWEBP:
		err = webp.Encode(&buf, flatten(img), &webp.Options{Quality: float32(quality)})
	default:
		enc := png.Encoder{CompressionLevel: png.DefaultCompression}
		if opts.Optimize {
			enc.CompressionLevel = png.BestCompression
		}
		err = enc.Encode(&buf, img)
	}
	if err != nil {
		return nil, "", err
	}
	return buf.Bytes(), ContentType(format), nil
}

// flatten composites the image onto an opaque white canvas.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	canvas := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)
}
