package renderer

import (
	"errors"
	"image"

	"github.com/thereceipt/ticket-engine/internal/style"
)

type opKind int

const (
	opFill opKind = iota
	opRounded
	opLine
	opText
	opImage
)

type op struct {
	kind    opKind
	rect    Rect
	color   style.Color
	opacity float64
	x1, y1  float64
	x2, y2  float64
	text    string
	ts      TextStyle
	key     string
}

// recorder is a Canvas that records every call. Text is measured as half
// the font size per rune.
type recorder struct {
	ops       []op
	failImage bool
}

func (r *recorder) FillRect(rect Rect, c style.Color, opacity float64) {
	r.ops = append(r.ops, op{kind: opFill, rect: rect, color: c, opacity: opacity})
}

func (r *recorder) FillRoundedRect(rect Rect, _ float64, c style.Color) {
	r.ops = append(r.ops, op{kind: opRounded, rect: rect, color: c})
}

func (r *recorder) Line(x1, y1, x2, y2, _ float64, c style.Color) {
	r.ops = append(r.ops, op{kind: opLine, x1: x1, y1: y1, x2: x2, y2: y2, color: c})
}

func (r *recorder) Text(x, y, w float64, s string, ts TextStyle) {
	r.ops = append(r.ops, op{kind: opText, rect: Rect{X: x, Y: y, W: w}, text: s, ts: ts})
}

func (r *recorder) MeasureText(s string, ts TextStyle) float64 {
	return float64(len([]rune(s))) * ts.Size * 0.5
}

func (r *recorder) Image(key string, _ image.Image, rect Rect) error {
	if r.failImage {
		return errors.New("image rejected")
	}
	r.ops = append(r.ops, op{kind: opImage, key: key, rect: rect})
	return nil
}

func (r *recorder) texts() []string {
	var out []string
	for _, o := range r.ops {
		if o.kind == opText {
			out = append(out, o.text)
		}
	}
	return out
}

func (r *recorder) images() map[string]Rect {
	out := make(map[string]Rect)
	for _, o := range r.ops {
		if o.kind == opImage {
			out[o.key] = o.rect
		}
	}
	return out
}

func (r *recorder) hasFill(rect Rect, c style.Color) bool {
	for _, o := range r.ops {
		if o.kind == opFill && o.rect == rect && o.color == c {
			return true
		}
	}
	return false
}
