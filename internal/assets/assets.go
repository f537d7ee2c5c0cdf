// Package assets loads the optional image assets printed on tickets
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log"
	"os"

	"github.com/disintegration/imaging"
)

// ID names one of the well-known assets
type ID string

const (
	Logo    ID = "logo"
	Collage ID = "collage"
)

// Default file names inside the asset directory
const (
	DefaultLogoFile    = "logo.png"
	DefaultCollageFile = "collage.png"
)

// Resolver reads assets from a file system. Missing files are a normal
// steady state, not an error.
type Resolver struct {
	fsys   fs.FS
	files  map[ID]string
	logger *log.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithFile overrides the file name used for an asset
func WithFile(id ID, name string) Option {
	return func(r *Resolver) {
		if name != "" {
			r.files[id] = name
		}
	}
}

// WithLogger sets the logger used for recoverable asset failures
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a resolver over fsys. A nil fsys resolves every asset as absent.
func New(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys: fsys,
		files: map[ID]string{
			Logo:    DefaultLogoFile,
			Collage: DefaultCollageFile,
		},
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDir creates a resolver for a directory on disk. An empty dir disables assets.
func NewDir(dir string, opts ...Option) *Resolver {
	if dir == "" {
		return New(nil, opts...)
	}
	return New(os.DirFS(dir), opts...)
}

// Load reads the raw bytes of an asset. It returns ok == false with a nil
// error when the asset does not exist.
func (r *Resolver) Load(id ID) (data []byte, ok bool, err error) {
	if r.fsys == nil {
		return nil, false, nil
	}

	name, known := r.files[id]
	if !known {
		return nil, false, nil
	}

	data, err = fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load asset %s: %w", id, err)
	}

	return data, true, nil
}

// Session returns a per-call cache over the resolver. A session is not safe
// for concurrent use and must not outlive one assembly call.
func (r *Resolver) Session() *Session {
	return &Session{
		resolver: r,
		images:   make(map[ID]image.Image),
		resolved: make(map[ID]bool),
	}
}

// Session memoizes decoded assets for one document
type Session struct {
	resolver *Resolver
	images   map[ID]image.Image
	resolved map[ID]bool
}

// Image returns the decoded asset. Absent, unreadable and corrupt assets all
// report ok == false; the failure is logged once per session.
func (s *Session) Image(id ID) (image.Image, bool) {
	if s.resolved[id] {
		img := s.images[id]
		return img, img != nil
	}
	s.resolved[id] = true

	data, ok, err := s.resolver.Load(id)
	if err != nil {
		s.resolver.logger.Printf("assets: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		s.resolver.logger.Printf("assets: decode %s: %v", id, err)
		return nil, false
	}

	s.images[id] = img
	return img, true
}
