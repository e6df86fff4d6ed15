// Package qrimage implements the QR code image pipeline: encoding a book
// payload into a QR symbol, rasterizing it, branding it with an optional
// logo, transcoding it to PNG/JPEG/WEBP and decoding it back for validation.
package qrimage

import (
	"errors"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// ErrCapacityExceeded signals that a payload does not fit in a QR symbol at
// the requested error correction level. The encoder never truncates.
var ErrCapacityExceeded = errors.New("payload exceeds QR symbol capacity")

// ParseLevel maps the textual error correction levels L/M/Q/H to skip2
// recovery levels. Unknown input falls back to H, the highest redundancy,
// which keeps codes scannable under a centered logo overlay.
func ParseLevel(s string) qrcode.RecoveryLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "L":
		return qrcode.Low
	case "M":
		return qrcode.Medium
	case "Q":
		return qrcode.High
	case "H":
		return qrcode.Highest
	default:
		return qrcode.Highest
	}
}

// Encode builds a QR symbol for the payload. The symbol carries the
// standard 4-module quiet zone.
func Encode(payload string, level qrcode.RecoveryLevel) (*qrcode.QRCode, error) {
	if payload == "" {
		return nil, errors.New("payload must not be empty")
	}
	qr, err := qrcode.New(payload, level)
	if err != nil {
		if strings.Contains(err.Error(), "too long") {
			return nil, fmt.Errorf("%w: %d bytes", ErrCapacityExceeded, len(payload))
		}
		return nil, err
	}
	return qr, nil
}
