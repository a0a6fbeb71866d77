package slide

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when a registry is built without slides.
var ErrEmpty = errors.New("no slides")

// Registry is the immutable ordered slide list.
type Registry struct {
	slides []Descriptor
}

// NewRegistry validates and copies the descriptors.
func NewRegistry(slides []Descriptor) (*Registry, error) {
	if len(slides) == 0 {
		return nil, ErrEmpty
	}
	for i, d := range slides {
		if d.Kind < Image || d.Kind > EmbeddedPlayer {
			return nil, fmt.Errorf("slide %d: %w", i, ErrUnknownKind)
		}
		if d.Source == "" {
			return nil, fmt.Errorf("slide %d: empty source", i)
		}
	}
	cp := make([]Descriptor, len(slides))
	copy(cp, slides)
	return &Registry{slides: cp}, nil
}

// Get returns the descriptor at index. It panics when index is out of range,
// which is a programming error.
func (r *Registry) Get(index int) Descriptor {
	if index < 0 || index >= len(r.slides) {
		panic(fmt.Sprintf("slide: index %d out of range [0,%d)", index, len(r.slides)))
	}
	return r.slides[index]
}

// Count returns the number of slides.
func (r *Registry) Count() int {
	return len(r.slides)
}

// Contains reports whether index addresses a slide.
func (r *Registry) Contains(index int) bool {
	return index >= 0 && index < len(r.slides)
}

// All returns a copy of every descriptor in order.
func (r *Registry) All() []Descriptor {
	cp := make([]Descriptor, len(r.slides))
	copy(cp, r.slides)
	return cp
}
