// Package assembler turns a purchase into one PDF document with a styled
// page per ticket.
package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/thereceipt/ticket-engine/internal/assets"
	"github.com/thereceipt/ticket-engine/internal/renderer"
	"github.com/thereceipt/ticket-engine/internal/style"
	"github.com/thereceipt/ticket-engine/pkg/ticketformat"
)

// Creator is written into the document information dictionary
const Creator = "ticket-engine"

// ErrPageOutOfRange is returned when a preview asks for a page the purchase
// does not have
var ErrPageOutOfRange = errors.New("page out of range")

// documentNamespace scopes name-based document IDs
var documentNamespace = uuid.MustParse("6f3b7f0e-2a51-4c57-9a43-1d2e8c0b5a64")

// Document is a finished ticket document
type Document struct {
	ID    uuid.UUID
	Pages int
	Bytes []byte
}

// Result is delivered by AssembleAsync
type Result struct {
	Document *Document
	Err      error
}

// Assembler renders ticket documents. It holds only read-only configuration
// and is safe for concurrent use.
type Assembler struct {
	assets       *assets.Resolver
	event        style.Event
	layout       renderer.Layout
	logger       *log.Logger
	previewScale float64
	compress     bool

	// finalize runs just before the document is written out
	finalize func(*gofpdf.Fpdf)
}

// Option configures an Assembler
type Option func(*Assembler)

// WithAssets sets the resolver for the logo and collage images
func WithAssets(r *assets.Resolver) Option {
	return func(a *Assembler) {
		if r != nil {
			a.assets = r
		}
	}
}

// WithEvent replaces the event details printed on every page
func WithEvent(ev style.Event) Option {
	return func(a *Assembler) { a.event = ev }
}

// WithLayout sets the configurable template parts
func WithLayout(l renderer.Layout) Option {
	return func(a *Assembler) { a.layout = l }
}

// WithLogger sets the logger for recoverable per-page failures
func WithLogger(l *log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPreviewScale sets the pixels per point of PNG previews
func WithPreviewScale(scale float64) Option {
	return func(a *Assembler) {
		if scale > 0 {
			a.previewScale = scale
		}
	}
}

// New creates an assembler. Without WithAssets every asset is absent.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		assets:       assets.New(nil),
		event:        style.DefaultEvent,
		logger:       log.Default(),
		previewScale: 2,
		compress:     true,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DocumentID derives the document ID from the purchase reference
func DocumentID(reference string) uuid.UUID {
	return uuid.NewSHA1(documentNamespace, []byte(reference))
}

// resources loads the shared page resources through a fresh asset session,
// so each asset is read at most once per call
func (a *Assembler) resources() *renderer.Resources {
	session := a.assets.Session()
	res := &renderer.Resources{
		Event:  a.event,
		Layout: a.layout,
		Logger: a.logger,
	}
	if img, ok := session.Image(assets.Logo); ok {
		res.Logo = img
	}
	if img, ok := session.Image(assets.Collage); ok {
		res.Collage = img
	}
	return res
}

func (a *Assembler) info(p *ticketformat.Purchase, id uuid.UUID) documentInfo {
	return documentInfo{
		ID:       id,
		Title:    "Tickets " + p.Reference,
		Author:   a.event.Author,
		Keywords: id.String(),
		Created:  p.PurchaseDate.Time,
	}
}

func (a *Assembler) newPDF(info documentInfo) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: renderer.PageWidth, Ht: renderer.PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(a.compress)
	pdf.SetCreationDate(info.Created)
	pdf.SetModificationDate(info.Created)
	pdf.SetTitle(info.Title, true)
	pdf.SetAuthor(info.Author, true)
	pdf.SetKeywords(info.Keywords, true)
	pdf.SetCreator(Creator, true)
	return pdf
}

// Assemble renders one page per ticket, in order, and returns the finished
// document. Image problems degrade to fallback visuals; only a failure to
// finalize the document is returned.
func (a *Assembler) Assemble(tickets []ticketformat.Ticket, p ticketformat.Purchase) (*Document, error) {
	id := DocumentID(p.Reference)
	info := a.info(&p, id)

	if len(tickets) == 0 {
		data, err := emptyDocument(info)
		if err != nil {
			return nil, fmt.Errorf("finalize document: %w", err)
		}
		return &Document{ID: id, Pages: 0, Bytes: data}, nil
	}

	pdf := a.newPDF(info)
	canvas, err := renderer.NewPDFCanvas(pdf)
	if err != nil {
		return nil, err
	}
	res := a.resources()

	for i, rec := range tickets {
		pdf.AddPage()
		state := renderer.ComposePage(canvas, i, renderer.NewTicket(rec, &p), res)
		if state != renderer.PageComplete {
			return nil, fmt.Errorf("compose page %d: stopped at %s", i+1, state)
		}
	}

	if a.finalize != nil {
		a.finalize(pdf)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("finalize document: %w", err)
	}

	return &Document{ID: id, Pages: len(tickets), Bytes: buf.Bytes()}, nil
}

// AssembleAsync runs Assemble on its own goroutine. The channel receives
// exactly one result and is then closed.
func (a *Assembler) AssembleAsync(tickets []ticketformat.Ticket, p ticketformat.Purchase) <-chan Result {
	tickets = slices.Clone(tickets)
	out := make(chan Result, 1)

	go func() {
		defer close(out)
		doc, err := a.Assemble(tickets, p)
		out <- Result{Document: doc, Err: err}
	}()

	return out
}

// Preview renders page (zero-based) of the document as PNG
func (a *Assembler) Preview(tickets []ticketformat.Ticket, p ticketformat.Purchase, page int) ([]byte, error) {
	if page < 0 || page >= len(tickets) {
		return nil, fmt.Errorf("preview page %d of %d: %w", page+1, len(tickets), ErrPageOutOfRange)
	}

	canvas, err := renderer.NewRasterCanvas(a.previewScale)
	if err != nil {
		return nil, fmt.Errorf("create preview canvas: %w", err)
	}

	renderer.ComposePage(canvas, page, renderer.NewTicket(tickets[page], &p), a.resources())

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
