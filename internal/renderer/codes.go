package renderer

import (
	"fmt"
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/skip2/go-qrcode"
)

// codePixelsPerPoint oversamples code images so they stay crisp when the
// document is zoomed or printed
const codePixelsPerPoint = 4

// verificationCode encodes value as a code image sized for box. It returns
// a nil image for CodeNone.
func verificationCode(format CodeFormat, value string, box Rect) (image.Image, error) {
	if value == "" {
		return nil, nil
	}

	width := int(box.W * codePixelsPerPoint)
	height := int(box.H * codePixelsPerPoint)

	switch format {
	case CodeNone:
		return nil, nil

	case CodeCode128:
		bc, err := code128.Encode(value)
		if err != nil {
			return nil, fmt.Errorf("encode code128: %w", err)
		}
		scaled, err := barcode.Scale(bc, width, height)
		if err != nil {
			return nil, fmt.Errorf("scale code128: %w", err)
		}
		return scaled, nil

	default:
		qr, err := qrcode.New(value, qrcode.Medium)
		if err != nil {
			return nil, fmt.Errorf("encode qr code: %w", err)
		}
		qr.DisableBorder = true
		return qr.Image(width), nil
	}
}
