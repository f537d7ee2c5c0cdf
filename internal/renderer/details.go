package renderer

import (
	"fmt"

	"github.com/thereceipt/ticket-engine/internal/style"
)

var (
	inkColor   = style.Color{R: 0x22, G: 0x22, B: 0x2e}
	mutedColor = style.Color{R: 0x6b, G: 0x6b, B: 0x78}
)

const (
	logoSize     = 28.0
	headerTop    = 14.0
	titleTop     = 50.0
	titleSize    = 18.0
	titleLead    = 19.0
	textColumnW  = 240.0
	footerTop    = 150.0
	dateBadgeW   = 44.0
	dateBadgeH   = 36.0
	contactLines = 2
)

// drawDetails paints the event band: header, title, holder line, footer,
// verification code and collage
func drawDetails(c Canvas, t *Ticket, res *Resources, page int) {
	area := detailsArea()
	ev := res.Event
	x := area.X + detailsMargin

	c.FillRect(area, style.White, 1)

	logo := Rect{X: x, Y: headerTop, W: logoSize, H: logoSize}
	if !placeImage(c, res.logger(), "logo", res.Logo, logo) {
		c.FillRect(logo, ev.BrandColor, 1)
	}
	c.Text(logo.Right()+8, headerTop+3, textColumnW, ev.Tagline, TextStyle{Size: 7, Color: mutedColor})
	orgStyle := TextStyle{Size: 10, Bold: true, Color: inkColor}
	c.Text(logo.Right()+8, headerTop+13, textColumnW, truncateText(c, ev.Organizer, orgStyle, textColumnW-logoSize), orgStyle)

	y := titleTop
	for _, line := range ev.Title {
		c.Text(x, y, textColumnW, line, TextStyle{Size: titleSize, Bold: true, Color: ev.BrandColor})
		y += titleLead
	}

	subStyle := TextStyle{Size: 8.5, Color: mutedColor}
	c.Text(x, 110, textColumnW, truncateText(c, ev.Subtitle, subStyle, textColumnW), subStyle)

	holderStyle := TextStyle{Size: 8, Bold: true, Color: inkColor}
	c.Text(x, 124, textColumnW, truncateText(c, holderLine(t), holderStyle, textColumnW), holderStyle)

	drawFooter(c, ev, x)
	drawRightColumn(c, t, res, page)
}

func holderLine(t *Ticket) string {
	return fmt.Sprintf("No. %s  |  %s  |  Ref %s", t.Number, t.Holder, t.Reference)
}

func drawFooter(c Canvas, ev style.Event, x float64) {
	right := PageWidth - detailsMargin
	dashedHLine(c, x, right, footerTop)

	contactStyle := TextStyle{Size: 7.5, Color: mutedColor}
	for i, line := range ev.Contact {
		if i == contactLines {
			break
		}
		c.Text(x, footerTop+10+float64(i)*11, textColumnW, line, contactStyle)
	}

	badge := Rect{X: right - dateBadgeW, Y: footerTop + 6, W: dateBadgeW, H: dateBadgeH}
	c.FillRect(badge, ev.BrandColor, 1)
	c.Text(badge.X, badge.Y+5, badge.W, ev.Month, TextStyle{Size: 9, Bold: true, Color: style.White, Align: AlignCenter})
	c.Text(badge.X, badge.Y+16, badge.W, ev.Day, TextStyle{Size: 16, Bold: true, Color: style.White, Align: AlignCenter})
}

func drawRightColumn(c Canvas, t *Ticket, res *Resources, page int) {
	format := res.Layout.codeFormat()
	codeBox, collageBox := rightColumn(format)

	if format != CodeNone {
		img, err := verificationCode(format, t.Number, codeBox)
		if err != nil {
			res.logger().Printf("renderer: ticket %s: %v", t.Number, err)
		} else if placeImage(c, res.logger(), fmt.Sprintf("code-%d", page), img, codeBox) {
			c.Text(codeBox.X, codeBox.Bottom()+3, codeBox.W, t.Number, TextStyle{Size: 6, Color: mutedColor, Align: AlignCenter})
		}
	}

	placeImage(c, res.logger(), "collage", res.Collage, collageBox)
}
