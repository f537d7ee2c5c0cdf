package renderer

import (
	"image"
	"log"
)

// placeImage fits img into box and draws it. It reports false when there is
// no image or the canvas refused it; the failure is logged and the caller
// draws its fallback.
func placeImage(c Canvas, logger *log.Logger, key string, img image.Image, box Rect) bool {
	if img == nil {
		return false
	}

	b := img.Bounds()
	target := Fit(b.Dx(), b.Dy(), box)
	if target.W <= 0 || target.H <= 0 {
		return false
	}

	if err := c.Image(key, img, target); err != nil {
		logger.Printf("renderer: %v", err)
		return false
	}

	return true
}
