package assembler

import (
	"bytes"
	"fmt"
	"time"

	"github.com/google/uuid"
	"seehuhn.de/go/pdf"
)

// documentInfo is the information dictionary shared by every document of
// one purchase
type documentInfo struct {
	ID       uuid.UUID
	Title    string
	Author   string
	Keywords string
	Created  time.Time
}

// emptyDocument writes a well-formed PDF with an empty page tree. gofpdf
// always emits at least one page, so the zero-ticket case is written here.
func emptyDocument(info documentInfo) ([]byte, error) {
	var buf bytes.Buffer

	w, err := pdf.NewWriter(&buf, pdf.V1_4, &pdf.WriterOptions{HumanReadable: true})
	if err != nil {
		return nil, fmt.Errorf("open empty document: %w", err)
	}

	pages := w.Alloc()
	err = w.Put(pages, pdf.Dict{
		"Type":  pdf.Name("Pages"),
		"Kids":  pdf.Array{},
		"Count": pdf.Integer(0),
	})
	if err != nil {
		return nil, fmt.Errorf("write page tree: %w", err)
	}

	meta := w.GetMeta()
	meta.Catalog.Pages = pages
	meta.ID = [][]byte{info.ID[:], info.ID[:]}
	meta.Info = &pdf.Info{
		Title:        pdf.TextString(info.Title),
		Author:       pdf.TextString(info.Author),
		Keywords:     pdf.TextString(info.Keywords),
		Creator:      Creator,
		CreationDate: pdf.Date(info.Created),
		ModDate:      pdf.Date(info.Created),
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close empty document: %w", err)
	}
	return buf.Bytes(), nil
}
