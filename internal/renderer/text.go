package renderer

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// WrapText breaks s into lines no wider than width, splitting on spaces.
// A single word wider than width gets a line of its own.
func WrapText(c Canvas, s string, ts TextStyle, width float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if c.MeasureText(candidate, ts) <= width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}

	return append(lines, current)
}

// truncateText shortens s with a trailing ellipsis until it fits width
func truncateText(c Canvas, s string, ts TextStyle, width float64) string {
	if c.MeasureText(s, ts) <= width {
		return s
	}

	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + "..."
		if c.MeasureText(candidate, ts) <= width {
			return candidate
		}
	}

	return ""
}

// goFonts are the embedded Go fonts used by the raster canvas. Parsed fonts
// are shared; faces are created per canvas.
type goFonts struct {
	regular *opentype.Font
	bold    *opentype.Font
}

var loadGoFonts = sync.OnceValues(func() (*goFonts, error) {
	regular, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}

	bold, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	return &goFonts{regular: regular, bold: bold}, nil
})

type faceKey struct {
	bold bool
	size float64
}

// faceCache creates font faces on demand. Faces are not safe for concurrent
// use, so every canvas owns its cache.
type faceCache struct {
	fonts *goFonts
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	fonts, err := loadGoFonts()
	if err != nil {
		return nil, err
	}
	return &faceCache{fonts: fonts, faces: make(map[faceKey]font.Face)}, nil
}

func (fc *faceCache) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := fc.faces[key]; ok {
		return f, nil
	}

	src := fc.fonts.regular
	if bold {
		src = fc.fonts.bold
	}

	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face at %.1fpt: %w", size, err)
	}

	fc.faces[key] = f
	return f, nil
}
