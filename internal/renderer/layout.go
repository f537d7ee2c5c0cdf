package renderer

import "math"

// Page geometry in points. Every ticket page is the same fixed canvas with
// no margins: stub on the left, dashed divider, details on the right.
const (
	PageWidth  = 600.0
	PageHeight = 200.0
	StubWidth  = 170.0

	detailsMargin = 20.0
)

// Dash pattern shared by the divider and the footer border
const (
	DashLength = 6.0
	DashGap    = 4.0
	dashWidth  = 1.0
)

// Stub gradient simulation
const (
	GradientBand        = 2.0
	GradientBaseOpacity = 0.1
	GradientOpacitySpan = 0.9
)

// CodeFormat selects the verification code printed for the ticket number
type CodeFormat string

const (
	CodeQR      CodeFormat = "qr"
	CodeCode128 CodeFormat = "code128"
	CodeNone    CodeFormat = "none"
)

// Layout holds the configurable parts of the template
type Layout struct {
	Code CodeFormat
}

func (l Layout) codeFormat() CodeFormat {
	switch l.Code {
	case CodeCode128, CodeNone:
		return l.Code
	default:
		return CodeQR
	}
}

// Rect is an axis-aligned box
type Rect struct {
	X, Y, W, H float64
}

// Inset shrinks r by d on every side
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, W: math.Max(r.W-2*d, 0), H: math.Max(r.H-2*d, 0)}
}

// Right returns the x coordinate of the right edge
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Fit scales a w×h image to the largest size that fits in box while keeping
// its aspect ratio, centered in box.
func Fit(w, h int, box Rect) Rect {
	if w <= 0 || h <= 0 || box.W <= 0 || box.H <= 0 {
		return Rect{X: box.X, Y: box.Y}
	}

	scale := math.Min(box.W/float64(w), box.H/float64(h))
	fw := float64(w) * scale
	fh := float64(h) * scale

	return Rect{
		X: box.X + (box.W-fw)/2,
		Y: box.Y + (box.H-fh)/2,
		W: fw,
		H: fh,
	}
}

// stub is the left band of the page
func stubArea() Rect {
	return Rect{X: 0, Y: 0, W: StubWidth, H: PageHeight}
}

// details is the right band of the page. It starts past the divider
// stroke so its background does not cover the dashes.
func detailsArea() Rect {
	x := StubWidth + dashWidth/2
	return Rect{X: x, Y: 0, W: PageWidth - x, H: PageHeight}
}

// rightColumn splits the free space beside the title into the verification
// code box and the decorative collage box.
func rightColumn(format CodeFormat) (code Rect, collage Rect) {
	column := Rect{X: 435, Y: 14, W: PageWidth - detailsMargin - 435, H: 130}

	switch format {
	case CodeQR:
		code = Rect{X: column.Right() - 56, Y: column.Y, W: 56, H: 56}
		collage = Rect{X: column.X, Y: column.Y, W: code.X - column.X - 6, H: column.H}
	case CodeCode128:
		code = Rect{X: column.X, Y: column.Bottom() - 32, W: column.W, H: 22}
		collage = Rect{X: column.X, Y: column.Y, W: column.W, H: code.Y - column.Y - 6}
	default:
		collage = column
	}

	return code, collage
}
