// Package renderer draws ticket pages. Section renderers paint through the
// Canvas interface so the same layout feeds the PDF document and the PNG
// preview.
package renderer

import (
	"image"

	"github.com/thereceipt/ticket-engine/internal/style"
)

// Align is the horizontal alignment of a text line inside its box
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes how a single line of text is drawn
type TextStyle struct {
	Size  float64
	Bold  bool
	Color style.Color
	Align Align
}

// Canvas is the set of drawing primitives a ticket page needs. Coordinates
// are in points with the origin at the top-left corner of the page.
type Canvas interface {
	// FillRect fills r with c at the given opacity in [0, 1].
	FillRect(r Rect, c style.Color, opacity float64)
	FillRoundedRect(r Rect, radius float64, c style.Color)
	Line(x1, y1, x2, y2, width float64, c style.Color)
	// Text draws one line whose box starts at (x, y) and is w wide.
	Text(x, y, w float64, s string, ts TextStyle)
	MeasureText(s string, ts TextStyle) float64
	// Image places img stretched into r. key identifies the image so a
	// backend can embed it once per document.
	Image(key string, img image.Image, r Rect) error
}

// baselineRatio positions the baseline below the top of a line box
const baselineRatio = 0.78

func alignedX(x, w, textWidth float64, a Align) float64 {
	switch a {
	case AlignCenter:
		return x + (w-textWidth)/2
	case AlignRight:
		return x + w - textWidth
	default:
		return x
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
