package renderer

import "github.com/thereceipt/ticket-engine/internal/style"

const (
	stubPadding    = 14.0
	stubNameSize   = 15.0
	stubNameLead   = 17.0
	stubNameLines  = 3
	stubPriceSize  = 36.0
	stubUnitSize   = 11.0
	badgeWidth     = 110.0
	badgeHeight    = 18.0
	badgeCaption   = "OFFICIAL TICKET"
	badgeFromFloor = 34.0
)

// drawStub paints the class band: gradient, name, price, unit and badge
func drawStub(c Canvas, t *Ticket) {
	area := stubArea()
	s := t.Style

	c.FillRect(area, s.GradientEnd, 1)
	for _, b := range GradientBands(area.H, GradientBand, GradientBaseOpacity, GradientOpacitySpan) {
		c.FillRect(Rect{X: area.X, Y: area.Y + b.Y, W: area.W, H: b.H}, s.GradientStart, b.Opacity)
	}

	inner := area.Inset(stubPadding)

	nameStyle := TextStyle{Size: stubNameSize, Bold: true, Color: style.White, Align: AlignCenter}
	lines := WrapText(c, s.DisplayName, nameStyle, inner.W)
	if len(lines) > stubNameLines {
		lines = lines[:stubNameLines]
	}
	y := 22.0
	for _, line := range lines {
		c.Text(inner.X, y, inner.W, line, nameStyle)
		y += stubNameLead
	}

	y = max(y+6, 66)
	c.Text(inner.X, y, inner.W, s.PriceLabel, TextStyle{Size: stubPriceSize, Bold: true, Color: style.White, Align: AlignCenter})

	y += stubPriceSize + 4
	c.Text(inner.X, y, inner.W, s.UnitLabel, TextStyle{Size: stubUnitSize, Color: style.White, Align: AlignCenter})

	badge := Rect{
		X: area.X + (area.W-badgeWidth)/2,
		Y: area.Bottom() - badgeFromFloor,
		W: badgeWidth,
		H: badgeHeight,
	}
	c.FillRoundedRect(badge, badgeHeight/2, style.White)
	c.Text(badge.X, badge.Y+5, badge.W, badgeCaption, TextStyle{Size: 8, Bold: true, Color: s.GradientStart, Align: AlignCenter})
}
