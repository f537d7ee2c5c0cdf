// Package registry keeps a persistent index of rendered ticket documents
package registry

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Registry maps purchase references to the documents rendered for them
type Registry struct {
	filePath string
	data     map[string]*Entry
	mu       sync.RWMutex
}

// Entry stores persistent information about a rendered document
type Entry struct {
	ID         string    `json:"id"`
	Reference  string    `json:"reference"`
	Email      string    `json:"email,omitempty"`
	Path       string    `json:"path"`
	Pages      int       `json:"pages"`
	Size       int       `json:"size"`
	Checksum   string    `json:"checksum"`
	RenderedAt time.Time `json:"rendered_at"`
}

// Document describes a render that should be recorded
type Document struct {
	ID        uuid.UUID
	Reference string
	Email     string
	Path      string
	Pages     int
	Bytes     []byte
}

// New opens the registry stored at filePath. A missing file is an empty
// registry; it is created on the first write.
func New(filePath string) (*Registry, error) {
	r := &Registry{
		filePath: filePath,
		data:     make(map[string]*Entry),
	}

	if err := r.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load registry: %w", err)
		}
	}

	return r, nil
}

// Checksum returns the hex BLAKE3 digest of a document
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Record stores doc under its reference, replacing any earlier render
func (r *Registry) Record(doc Document, now time.Time) (*Entry, error) {
	if doc.Reference == "" {
		return nil, fmt.Errorf("record document: empty reference")
	}

	entry := &Entry{
		ID:         doc.ID.String(),
		Reference:  doc.Reference,
		Email:      doc.Email,
		Path:       doc.Path,
		Pages:      doc.Pages,
		Size:       len(doc.Bytes),
		Checksum:   Checksum(doc.Bytes),
		RenderedAt: now.UTC(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	previous, had := r.data[doc.Reference]
	r.data[doc.Reference] = entry
	if err := r.save(); err != nil {
		if had {
			r.data[doc.Reference] = previous
		} else {
			delete(r.data, doc.Reference)
		}
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}

	entryCopy := *entry
	return &entryCopy, nil
}

// Get returns the entry for a purchase reference, or nil
func (r *Registry) Get(reference string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.data[reference]
	if !ok {
		return nil
	}
	entryCopy := *entry
	return &entryCopy
}

// Lookup finds an entry by document ID, or nil
func (r *Registry) Lookup(id string) *Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.data {
		if entry.ID == id {
			entryCopy := *entry
			return &entryCopy
		}
	}
	return nil
}

// Remove deletes the entry for reference. It reports whether one existed.
func (r *Registry) Remove(reference string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.data[reference]
	if !ok {
		return false, nil
	}
	delete(r.data, reference)

	if err := r.save(); err != nil {
		r.data[reference] = entry
		return false, fmt.Errorf("failed to save registry: %w", err)
	}
	return true, nil
}

// All returns every entry ordered by reference
func (r *Registry) All() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Entry, 0, len(r.data))
	for _, v := range r.data {
		entryCopy := *v
		result = append(result, &entryCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Reference < result[j].Reference })
	return result
}

func (r *Registry) load() error {
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &r.data)
}

func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return err
	}

	tmp := r.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, r.filePath)
}
