package font

import (
	"fmt"
	"os"
	"sync"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"golang.org/x/image/font/sfnt"
)

// Registry holds the font currently used for rendering. One font is current
// at a time; registering a font replaces the previous one.
type Registry struct {
	mu      sync.RWMutex
	current domain.Font
	data    []byte
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register reads and parses the font file of row and makes it current.
func (r *Registry) Register(row domain.FontRow) (domain.Font, error) {
	data, err := os.ReadFile(row.File)
	if err != nil {
		return domain.Font{}, fmt.Errorf("read font file: %w", err)
	}
	family, err := familyName(data)
	if err != nil {
		return domain.Font{}, fmt.Errorf("parse font %s: %w", row.File, err)
	}

	f := domain.Font{
		Language: row.Language,
		File:     row.File,
		Name:     row.Font,
		Family:   family,
	}
	if f.Name == "" {
		f.Name = family
	}

	r.mu.Lock()
	r.current = f
	r.data = data
	r.mu.Unlock()
	return f, nil
}

// Current returns the registered font and its file contents.
func (r *Registry) Current() (domain.Font, []byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current, r.data, r.data != nil
}

func familyName(data []byte) (string, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", err
	}
	var buf sfnt.Buffer
	name, err := f.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return "", err
	}
	return name, nil
}
