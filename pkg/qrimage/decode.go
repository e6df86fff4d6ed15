package qrimage

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqrcode "github.com/makiuchi-d/gozxing/qrcode"
)

// ErrUnreadableImage signals that stored artifact bytes could not be parsed
// as an image at all.
var ErrUnreadableImage = errors.New("unreadable image data")

// ErrNoSymbol signals that a readable image contains no detectable QR symbol.
var ErrNoSymbol = errors.New("no QR symbol found")

// Validation statuses. StatusUnknown means the decoder capability is not
// available in this runtime; callers must not treat "can't check" as
// "is wrong".
const (
	StatusValid   = "valid"
	StatusInvalid = "invalid"
	StatusUnknown = "unknown"
)

// Decoder extracts a QR payload from an image.
type Decoder interface {
	Decode(img image.Image) (string, error)
}

type zxingDecoder struct{}

// NewDecoder returns the gozxing-backed decoder.
func NewDecoder() Decoder {
	return zxingDecoder{}
}

// Decode normalizes to single-channel intensity first, which keeps
// detection robust against the dual-tone rendering, then tries the hybrid
// binarizer with a global-histogram fallback.
func (zxingDecoder) Decode(img image.Image) (string, error) {
	gray := imaging.Grayscale(img)
	src := gozxing.NewLuminanceSourceFromImage(gray)
	reader := zxqrcode.NewQRCodeReader()

	if bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src)); err == nil {
		if result, err := reader.Decode(bmp, nil); err == nil {
			return result.GetText(), nil
		}
	}
	if bmp, err := gozxing.NewBinaryBitmap(gozxing.NewGlobalHistgramBinarizer(src)); err == nil {
		if result, err := reader.Decode(bmp, nil); err == nil {
			return result.GetText(), nil
		}
	}
	return "", ErrNoSymbol
}

// DecodeImage parses stored artifact bytes into an image. PNG, JPEG and
// WEBP decoders are registered by this package's imports.
func DecodeImage(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnreadableImage
	}
	return img, nil
}

// Validation is the tri-state result of reading back stored bytes.
type Validation struct {
	Status  string
	Decoded string
	Err     error
}

// Validate loads stored image bytes, decodes the QR symbol and compares the
// payload against the expected identifier. A nil decoder yields
// StatusUnknown; unreadable bytes or a missing/mismatched symbol yield
// StatusInvalid.
func Validate(dec Decoder, data []byte, expected string) Validation {
	if dec == nil {
		return Validation{Status: StatusUnknown}
	}
	img, err := DecodeImage(data)
	if err != nil {
		return Validation{Status: StatusInvalid, Err: err}
	}
	decoded, err := dec.Decode(img)
	if err != nil {
		return Validation{Status: StatusInvalid, Err: err}
	}
	if decoded != expected {
		return Validation{Status: StatusInvalid, Decoded: decoded}
	}
	return Validation{Status: StatusValid, Decoded: decoded}
}
