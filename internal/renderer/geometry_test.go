package renderer

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDashRuns(t *testing.T) {
	tests := []struct {
		name           string
		from, to       float64
		dash, gap      float64
		want           []Segment
	}{
		{"exact fit", 0, 20, 6, 4, []Segment{{0, 6}, {10, 16}}},
		{"clipped final dash", 0, 23, 6, 4, []Segment{{0, 6}, {10, 16}, {20, 23}}},
		{"offset start", 5, 12, 3, 1, []Segment{{5, 8}, {9, 12}}},
		{"no gap", 0, 9, 4, 0, []Segment{{0, 4}, {4, 8}, {8, 9}}},
		{"empty range", 10, 10, 6, 4, nil},
		{"reversed range", 10, 0, 6, 4, nil},
		{"zero dash", 0, 10, 0, 4, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DashRuns(tt.from, tt.to, tt.dash, tt.gap)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DashRuns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDashRuns_CoversPageHeight(t *testing.T) {
	runs := DashRuns(0, PageHeight, DashLength, DashGap)
	if len(runs) == 0 {
		t.Fatal("Expected dash runs")
	}

	if runs[0].Start != 0 {
		t.Errorf("First dash starts at %v, want 0", runs[0].Start)
	}

	painted := 0.0
	for i, s := range runs {
		if s.End > PageHeight || s.Start < 0 {
			t.Errorf("Segment %d %+v extends beyond the page", i, s)
		}
		if s.Len() > DashLength {
			t.Errorf("Segment %d longer than a dash: %v", i, s.Len())
		}
		if i > 0 && math.Abs(s.Start-runs[i-1].Start-(DashLength+DashGap)) > 1e-9 {
			t.Errorf("Segment %d breaks the dash/gap period", i)
		}
		painted += s.Len()
	}

	last := runs[len(runs)-1]
	if last.End+DashGap < PageHeight {
		t.Errorf("Pattern stops at %v, leaving the bottom of the page uncovered", last.End)
	}

	// 200pt with a 10pt period is exactly 20 full dashes
	if want := 20 * DashLength; painted != want {
		t.Errorf("Painted length = %v, want %v", painted, want)
	}
}

func TestGradientBands(t *testing.T) {
	bands := GradientBands(10, 4, 0.2, 0.5)
	want := []Band{
		{Y: 0, H: 4, Opacity: 0.2},
		{Y: 4, H: 4, Opacity: 0.4},
		{Y: 8, H: 2, Opacity: 0.6},
	}

	if diff := cmp.Diff(want, bands, cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })); diff != "" {
		t.Errorf("GradientBands mismatch (-want +got):\n%s", diff)
	}
}

func TestGradientBands_ClampsOpacity(t *testing.T) {
	for _, b := range GradientBands(100, 10, 0.8, 2) {
		if b.Opacity < 0 || b.Opacity > 1 {
			t.Errorf("Band at %v has opacity %v outside [0, 1]", b.Y, b.Opacity)
		}
	}

	for _, b := range GradientBands(100, 10, -0.5, 0.1) {
		if b.Opacity != 0 {
			t.Errorf("Band at %v has opacity %v, want clamped 0", b.Y, b.Opacity)
		}
	}
}

func TestGradientBands_CoverStub(t *testing.T) {
	bands := GradientBands(PageHeight, GradientBand, GradientBaseOpacity, GradientOpacitySpan)

	covered := 0.0
	prev := -1.0
	for _, b := range bands {
		if b.Opacity < prev {
			t.Errorf("Opacity decreases at y=%v", b.Y)
		}
		prev = b.Opacity
		covered += b.H
	}

	if covered != PageHeight {
		t.Errorf("Bands cover %v, want %v", covered, PageHeight)
	}
}

func TestGradientBands_Degenerate(t *testing.T) {
	if GradientBands(0, 2, 0, 1) != nil {
		t.Error("Expected no bands for zero height")
	}
	if GradientBands(10, 0, 0, 1) != nil {
		t.Error("Expected no bands for zero band height")
	}
}

func TestFit(t *testing.T) {
	box := Rect{X: 10, Y: 20, W: 100, H: 50}

	tests := []struct {
		name string
		w, h int
		want Rect
	}{
		{"wide image", 400, 100, Rect{X: 10, Y: 32.5, W: 100, H: 25}},
		{"tall image", 100, 200, Rect{X: 47.5, Y: 20, W: 25, H: 50}},
		{"same aspect", 20, 10, Rect{X: 10, Y: 20, W: 100, H: 50}},
		{"empty image", 0, 10, Rect{X: 10, Y: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.w, tt.h, box); got != tt.want {
				t.Errorf("Fit(%d, %d) = %+v, want %+v", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	c := &recorder{}
	ts := TextStyle{Size: 10}

	tests := []struct {
		in    string
		width float64
		want  []string
	}{
		{"VIP for Couple", 100, []string{"VIP for Couple"}},
		{"VIP for Couple", 40, []string{"VIP for", "Couple"}},
		{"Extraordinarily long", 20, []string{"Extraordinarily", "long"}},
		{"   ", 100, nil},
	}

	for _, tt := range tests {
		got := WrapText(c, tt.in, ts, tt.width)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("WrapText(%q, %v) mismatch (-want +got):\n%s", tt.in, tt.width, diff)
		}
	}
}

func TestTruncateText(t *testing.T) {
	c := &recorder{}
	ts := TextStyle{Size: 10}

	if got := truncateText(c, "short", ts, 100); got != "short" {
		t.Errorf("truncateText kept %q, want %q", got, "short")
	}

	got := truncateText(c, "a rather long line of text", ts, 50)
	if c.MeasureText(got, ts) > 50 {
		t.Errorf("truncateText returned %q which is wider than 50", got)
	}
	if got == "" || got[len(got)-3:] != "..." {
		t.Errorf("truncateText returned %q, want ellipsis", got)
	}
}
