package renderer

import (
	"image"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/thereceipt/ticket-engine/internal/style"
)

// RasterCanvas draws a page into an RGBA image for previews. Coordinates
// are in points and multiplied by scale.
type RasterCanvas struct {
	ctx   *gg.Context
	scale float64
	faces *faceCache
}

// NewRasterCanvas creates a white page-sized canvas. scale is pixels per
// point and defaults to 2.
func NewRasterCanvas(scale float64) (*RasterCanvas, error) {
	if scale <= 0 {
		scale = 2
	}

	faces, err := newFaceCache()
	if err != nil {
		return nil, err
	}

	ctx := gg.NewContext(int(math.Round(PageWidth*scale)), int(math.Round(PageHeight*scale)))
	ctx.SetRGB(1, 1, 1)
	ctx.Clear()
	ctx.SetLineCapButt()

	return &RasterCanvas{ctx: ctx, scale: scale, faces: faces}, nil
}

func (c *RasterCanvas) setColor(col style.Color, opacity float64) {
	c.ctx.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, clamp(opacity, 0, 1))
}

// FillRect implements Canvas
func (c *RasterCanvas) FillRect(r Rect, col style.Color, opacity float64) {
	s := c.scale
	c.setColor(col, opacity)
	c.ctx.DrawRectangle(r.X*s, r.Y*s, r.W*s, r.H*s)
	c.ctx.Fill()
}

// FillRoundedRect implements Canvas
func (c *RasterCanvas) FillRoundedRect(r Rect, radius float64, col style.Color) {
	s := c.scale
	c.setColor(col, 1)
	c.ctx.DrawRoundedRectangle(r.X*s, r.Y*s, r.W*s, r.H*s, radius*s)
	c.ctx.Fill()
}

// Line implements Canvas
func (c *RasterCanvas) Line(x1, y1, x2, y2, width float64, col style.Color) {
	s := c.scale
	c.setColor(col, 1)
	c.ctx.SetLineWidth(width * s)
	c.ctx.DrawLine(x1*s, y1*s, x2*s, y2*s)
	c.ctx.Stroke()
}

func (c *RasterCanvas) useFace(ts TextStyle) bool {
	face, err := c.faces.face(ts.Bold, ts.Size*c.scale)
	if err != nil {
		return false
	}
	c.ctx.SetFontFace(face)
	return true
}

// Text implements Canvas
func (c *RasterCanvas) Text(x, y, w float64, str string, ts TextStyle) {
	if str == "" || !c.useFace(ts) {
		return
	}
	s := c.scale
	tw, _ := c.ctx.MeasureString(str)
	tx := alignedX(x*s, w*s, tw, ts.Align)

	c.setColor(ts.Color, 1)
	c.ctx.DrawString(str, tx, (y+ts.Size*baselineRatio)*s)
}

// MeasureText implements Canvas
func (c *RasterCanvas) MeasureText(str string, ts TextStyle) float64 {
	if !c.useFace(ts) {
		return 0
	}
	w, _ := c.ctx.MeasureString(str)
	return w / c.scale
}

// Image implements Canvas
func (c *RasterCanvas) Image(_ string, img image.Image, r Rect) error {
	s := c.scale
	w := int(math.Round(r.W * s))
	h := int(math.Round(r.H * s))
	if w <= 0 || h <= 0 {
		return nil
	}

	resized := imaging.Resize(img, w, h, imaging.Lanczos)
	c.ctx.DrawImage(resized, int(math.Round(r.X*s)), int(math.Round(r.Y*s)))
	return nil
}

// Result returns the rendered page
func (c *RasterCanvas) Result() image.Image {
	return c.ctx.Image()
}

// EncodePNG writes the rendered page as PNG
func (c *RasterCanvas) EncodePNG(w io.Writer) error {
	return c.ctx.EncodePNG(w)
}
