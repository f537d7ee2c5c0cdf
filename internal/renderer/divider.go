package renderer

import (
	"math"

	"github.com/thereceipt/ticket-engine/internal/style"
)

// Segment is one painted run of a dashed stroke, from Start to End along the
// stroke direction
type Segment struct {
	Start, End float64
}

// Len returns the painted length
func (s Segment) Len() float64 { return s.End - s.Start }

// DashRuns splits [from, to) into dash/gap runs. The last dash is clipped to
// to rather than overrunning it.
func DashRuns(from, to, dash, gap float64) []Segment {
	if to <= from || dash <= 0 {
		return nil
	}
	gap = math.Max(gap, 0)

	runs := make([]Segment, 0, int((to-from)/(dash+gap))+1)
	for p := from; p < to; p += dash + gap {
		runs = append(runs, Segment{Start: p, End: math.Min(p+dash, to)})
	}

	return runs
}

var dashColor = style.Color{R: 0x9a, G: 0x9a, B: 0x9a}

// drawDivider strokes the stub/details boundary over the full page height
func drawDivider(c Canvas) {
	x := StubWidth
	for _, s := range DashRuns(0, PageHeight, DashLength, DashGap) {
		c.Line(x, s.Start, x, s.End, dashWidth, dashColor)
	}
}

// dashedHLine strokes a horizontal dashed line from x1 to x2 at y
func dashedHLine(c Canvas, x1, x2, y float64) {
	for _, s := range DashRuns(x1, x2, DashLength, DashGap) {
		c.Line(s.Start, y, s.End, y, dashWidth, dashColor)
	}
}
