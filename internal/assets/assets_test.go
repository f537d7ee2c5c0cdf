package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"log"
	"testing"
	"testing/fstest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 40, B: 60, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestLoad_Present(t *testing.T) {
	data := pngBytes(t, 4, 4)
	r := New(fstest.MapFS{"logo.png": {Data: data}})

	got, ok, err := r.Load(Logo)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ok {
		t.Fatal("Expected logo to be present")
	}
	if !bytes.Equal(got, data) {
		t.Error("Load returned different bytes")
	}
}

func TestLoad_MissingIsNotAnError(t *testing.T) {
	r := New(fstest.MapFS{})

	data, ok, err := r.Load(Collage)
	if err != nil {
		t.Fatalf("Expected nil error for missing asset, got %v", err)
	}
	if ok || data != nil {
		t.Error("Expected missing asset to be absent")
	}
}

func TestLoad_NilFS(t *testing.T) {
	r := NewDir("")

	if _, ok, err := r.Load(Logo); ok || err != nil {
		t.Errorf("Load on disabled resolver = ok %v, err %v", ok, err)
	}
}

func TestLoad_CustomFileName(t *testing.T) {
	r := New(fstest.MapFS{"brand/rotary.png": {Data: pngBytes(t, 2, 2)}}, WithFile(Logo, "brand/rotary.png"))

	if _, ok, err := r.Load(Logo); !ok || err != nil {
		t.Errorf("Load with custom file = ok %v, err %v", ok, err)
	}
}

type failingFS struct{}

func (failingFS) Open(name string) (fs.File, error) {
	return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrPermission}
}

func TestLoad_UnexpectedErrorBubbles(t *testing.T) {
	r := New(failingFS{})

	_, ok, err := r.Load(Logo)
	if err == nil {
		t.Fatal("Expected error for permission failure")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Expected wrapped ErrPermission, got %v", err)
	}
	if ok {
		t.Error("Expected ok == false on error")
	}
}

// countingFS only implements Open so fs.ReadFile cannot bypass the counter
type countingFS struct {
	files fstest.MapFS
	opens map[string]int
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens[name]++
	return c.files.Open(name)
}

func TestSession_CachesLoads(t *testing.T) {
	fsys := &countingFS{
		files: fstest.MapFS{"logo.png": {Data: pngBytes(t, 8, 8)}},
		opens: make(map[string]int),
	}
	s := New(fsys, WithLogger(quietLogger())).Session()

	for i := 0; i < 5; i++ {
		if _, ok := s.Image(Logo); !ok {
			t.Fatal("Expected logo image")
		}
		if _, ok := s.Image(Collage); ok {
			t.Fatal("Expected collage to be absent")
		}
	}

	if fsys.opens["logo.png"] != 1 {
		t.Errorf("logo.png opened %d times, want 1", fsys.opens["logo.png"])
	}
	if fsys.opens["collage.png"] != 1 {
		t.Errorf("collage.png opened %d times, want 1", fsys.opens["collage.png"])
	}
}

func TestSession_CorruptImageIsAbsent(t *testing.T) {
	var logs bytes.Buffer
	r := New(fstest.MapFS{"collage.png": {Data: []byte("definitely not a png")}}, WithLogger(log.New(&logs, "", 0)))
	s := r.Session()

	if img, ok := s.Image(Collage); ok || img != nil {
		t.Error("Expected corrupt collage to be absent")
	}
	if logs.Len() == 0 {
		t.Error("Expected decode failure to be logged")
	}
}

func TestSession_IsPerCall(t *testing.T) {
	fsys := &countingFS{
		files: fstest.MapFS{"logo.png": {Data: pngBytes(t, 2, 2)}},
		opens: make(map[string]int),
	}
	r := New(fsys)

	r.Session().Image(Logo)
	r.Session().Image(Logo)

	if fsys.opens["logo.png"] != 2 {
		t.Errorf("logo.png opened %d times across two sessions, want 2", fsys.opens["logo.png"])
	}
}
