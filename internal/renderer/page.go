package renderer

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/thereceipt/ticket-engine/internal/style"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// Ticket is a ticket record merged with its purchase, as printed on one page
type Ticket struct {
	Number       string
	Holder       string
	Email        string
	Reference    string
	PurchaseDate time.Time
	Style        style.Entry
}

// NewTicket merges a record with the purchase context
func NewTicket(rec ticketformat.Ticket, p *ticketformat.Purchase) Ticket {
	return Ticket{
		Number:       rec.Number,
		Holder:       p.FullName(),
		Email:        p.Email,
		Reference:    p.Reference,
		PurchaseDate: p.PurchaseDate.Time,
		Style:        style.Resolve(rec.Class),
	}
}

// Resources is what every page of one document shares. Logo and Collage
// are nil when the asset is absent or could not be decoded.
type Resources struct {
	Event   style.Event
	Layout  Layout
	Logo    image.Image
	Collage image.Image
	Logger  *log.Logger
}

func (r *Resources) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// PageState tracks the composition of one ticket page
type PageState int

const (
	NewPage PageState = iota
	StubDrawn
	DividerDrawn
	DetailsDrawn
	PageComplete
)

func (s PageState) String() string {
	switch s {
	case NewPage:
		return "new-page"
	case StubDrawn:
		return "stub-drawn"
	case DividerDrawn:
		return "divider-drawn"
	case DetailsDrawn:
		return "details-drawn"
	case PageComplete:
		return "page-complete"
	default:
		return fmt.Sprintf("PageState(%d)", int(s))
	}
}

type composer struct {
	canvas Canvas
	ticket Ticket
	res    *Resources
	page   int
	state  PageState
}

func (p *composer) advance(to PageState) {
	if to != p.state+1 {
		panic(fmt.Sprintf("renderer: illegal page transition %s -> %s", p.state, to))
	}
	p.state = to
}

// ComposePage lays out one ticket as stub | divider | details on the
// canvas' current page. page is the zero-based page index.
func ComposePage(c Canvas, page int, t Ticket, res *Resources) PageState {
	p := &composer{canvas: c, ticket: t, res: res, page: page, state: NewPage}

	drawStub(p.canvas, &p.ticket)
	p.advance(StubDrawn)

	drawDivider(p.canvas)
	p.advance(DividerDrawn)

	drawDetails(p.canvas, &p.ticket, p.res, p.page)
	p.advance(DetailsDrawn)

	p.advance(PageComplete)
	return p.state
}
