package renderer

import "math"

// Band is one horizontal strip of a simulated vertical gradient
type Band struct {
	Y, H    float64
	Opacity float64
}

// GradientBands covers a region of the given height with strips of height
// band. The strip starting at offset y gets opacity base + (y/height)*span,
// clamped to [0, 1]. The last strip is clipped to the region.
func GradientBands(height, band, base, span float64) []Band {
	if height <= 0 || band <= 0 {
		return nil
	}

	bands := make([]Band, 0, int(math.Ceil(height/band)))
	for y := 0.0; y < height; y += band {
		bands = append(bands, Band{
			Y:       y,
			H:       math.Min(band, height-y),
			Opacity: clamp(base+(y/height)*span, 0, 1),
		})
	}

	return bands
}
