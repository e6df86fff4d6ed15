package qrimage

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
)

// Info describes stored image bytes without fully decoding the pixels.
type Info struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ByteSize int    `json:"byteSize"`
	HasAlpha bool   `json:"hasAlpha"`
}

// Inspect reads the header of encoded image bytes.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return Info{
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		ByteSize: len(data),
		HasAlpha: hasAlpha(cfg.ColorModel),
	}, nil
}

func hasAlpha(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model,
		color.AlphaModel, color.Alpha16Model:
		return true
	}
	return false
}
