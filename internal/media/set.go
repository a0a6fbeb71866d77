package media

import (
	"log/slog"

	"github.com/llehouerou/carousel/internal/slide"
)

// Set holds one Media per slide index.
type Set struct {
	items []Media
}

// NewSet builds the media for every slide of the registry.
func NewSet(reg *slide.Registry, s Surface, log *slog.Logger) *Set {
	items := make([]Media, reg.Count())
	for i := range items {
		items[i] = New(i, reg.Get(i), s, log)
	}
	return &Set{items: items}
}

// Len returns the number of media.
func (s *Set) Len() int { return len(s.items) }

// At returns the media at index, or nil if out of range.
func (s *Set) At(index int) Media {
	if index < 0 || index >= len(s.items) {
		return nil
	}
	return s.items[index]
}

// Activate starts the media at index. It returns true if playback was
// requested and accepted.
func (s *Set) Activate(index int) bool {
	if m := s.At(index); m != nil {
		return m.Activate()
	}
	return false
}

// Deactivate stops the media at index.
func (s *Set) Deactivate(index int) {
	if m := s.At(index); m != nil {
		m.Deactivate()
	}
}

// Quiesce deactivates every playable media except active.
func (s *Set) Quiesce(active int) {
	for i, m := range s.items {
		if i != active && m.Playable() {
			m.Deactivate()
		}
	}
}

// Connect records that the embedded player at index registered its event
// channel. It returns false if index is not an embedded player.
func (s *Set) Connect(index int) bool {
	e, ok := s.At(index).(*embedded)
	if !ok {
		return false
	}
	e.connected = true
	return true
}
