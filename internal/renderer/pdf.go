package renderer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/thereceipt/ticket-engine/internal/style"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// kappa places cubic Bézier control points for a quarter circle
const kappa = 0.5522847498

// pdfFontFamily is the Go font family, embedded as a subset so any
// holder name prints as written
const pdfFontFamily = "go"

// PDFCanvas draws onto the current page of a gofpdf document
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	images map[string]bool
	alpha  float64
}

// NewPDFCanvas wraps pdf and registers the text fonts with it. The document
// must use points as its unit.
func NewPDFCanvas(pdf *gofpdf.Fpdf) (*PDFCanvas, error) {
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFontFamily, "B", gobold.TTF)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register fonts: %w", err)
	}

	pdf.SetLineCapStyle("butt")
	return &PDFCanvas{
		pdf:    pdf,
		images: make(map[string]bool),
		alpha:  1,
	}, nil
}

func (c *PDFCanvas) setAlpha(a float64) {
	if a == c.alpha {
		return
	}
	c.pdf.SetAlpha(a, "Normal")
	c.alpha = a
}

// FillRect implements Canvas
func (c *PDFCanvas) FillRect(r Rect, col style.Color, opacity float64) {
	c.setAlpha(clamp(opacity, 0, 1))
	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.Rect(r.X, r.Y, r.W, r.H, "F")
	c.setAlpha(1)
}

// FillRoundedRect implements Canvas
func (c *PDFCanvas) FillRoundedRect(r Rect, radius float64, col style.Color) {
	radius = clamp(radius, 0, min(r.W, r.H)/2)
	k := radius * kappa
	x0, y0, x1, y1 := r.X, r.Y, r.Right(), r.Bottom()

	c.pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
	c.pdf.MoveTo(x0+radius, y0)
	c.pdf.LineTo(x1-radius, y0)
	c.pdf.CurveBezierCubicTo(x1-radius+k, y0, x1, y0+radius-k, x1, y0+radius)
	c.pdf.LineTo(x1, y1-radius)
	c.pdf.CurveBezierCubicTo(x1, y1-radius+k, x1-radius+k, y1, x1-radius, y1)
	c.pdf.LineTo(x0+radius, y1)
	c.pdf.CurveBezierCubicTo(x0+radius-k, y1, x0, y1-radius+k, x0, y1-radius)
	c.pdf.LineTo(x0, y0+radius)
	c.pdf.CurveBezierCubicTo(x0, y0+radius-k, x0+radius-k, y0, x0+radius, y0)
	c.pdf.ClosePath()
	c.pdf.DrawPath("F")
}

// Line implements Canvas
func (c *PDFCanvas) Line(x1, y1, x2, y2, width float64, col style.Color) {
	c.pdf.SetDrawColor(int(col.R), int(col.G), int(col.B))
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) setFont(ts TextStyle) {
	fontStyle := ""
	if ts.Bold {
		fontStyle = "B"
	}
	c.pdf.SetFont(pdfFontFamily, fontStyle, ts.Size)
}

// Text implements Canvas
func (c *PDFCanvas) Text(x, y, w float64, s string, ts TextStyle) {
	if s == "" {
		return
	}
	c.setFont(ts)
	tx := alignedX(x, w, c.pdf.GetStringWidth(s), ts.Align)

	c.pdf.SetTextColor(int(ts.Color.R), int(ts.Color.G), int(ts.Color.B))
	c.pdf.Text(tx, y+ts.Size*baselineRatio, s)
}

// MeasureText implements Canvas
func (c *PDFCanvas) MeasureText(s string, ts TextStyle) float64 {
	c.setFont(ts)
	return c.pdf.GetStringWidth(s)
}

// Image implements Canvas. The image is re-encoded as 8-bit PNG and
// registered once under key; a registration failure leaves the document
// usable.
func (c *PDFCanvas) Image(key string, img image.Image, r Rect) error {
	if err := c.pdf.Error(); err != nil {
		return err
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	if !c.images[key] {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, imaging.Clone(img), imaging.PNG); err != nil {
			return fmt.Errorf("encode image %s: %w", key, err)
		}

		c.pdf.RegisterImageOptionsReader(key, opts, &buf)
		if err := c.pdf.Error(); err != nil {
			c.pdf.ClearError()
			return fmt.Errorf("register image %s: %w", key, err)
		}
		c.images[key] = true
	}

	c.pdf.ImageOptions(key, r.X, r.Y, r.W, r.H, false, opts, 0, "")
	if err := c.pdf.Error(); err != nil {
		c.pdf.ClearError()
		return fmt.Errorf("place image %s: %w", key, err)
	}

	return nil
}
