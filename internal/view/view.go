// Package view projects carousel state onto presentational markers.
package view

import "strconv"

// Surface receives the presentational markers. Attached returns false
// while the rendered surface is not available; the syncer then skips the
// update and replays it in full on the next sync.
type Surface interface {
	Attached() bool
	SetSlideActive(index int, active bool)
	SetDotActive(index int, active bool)
	SetCounter(text string)
}

// Quiescer forces every non-active media to its inactive presentation.
type Quiescer interface {
	Quiesce(active int)
}

// Projection is the derived view of the carousel state.
type Projection struct {
	Active  int
	Total   int
	Counter string
}

// Project derives the projection for the active index.
func Project(active, total int) Projection {
	return Projection{
		Active:  active,
		Total:   total,
		Counter: strconv.Itoa(active + 1),
	}
}

// Syncer applies projections to a surface. Applying the same projection
// twice writes nothing the second time.
type Syncer struct {
	surface Surface
	media   Quiescer
	applied bool
	last    Projection
}

// NewSyncer creates a syncer. Either argument may be nil.
func NewSyncer(s Surface, m Quiescer) *Syncer {
	return &Syncer{surface: s, media: m}
}

// Sync applies p.
func (s *Syncer) Sync(p Projection) {
	if s.media != nil {
		s.media.Quiesce(p.Active)
	}
	if s.surface == nil || !s.surface.Attached() {
		s.applied = false
		return
	}

	if !s.applied || s.last.Total != p.Total {
		for i := range p.Total {
			s.surface.SetSlideActive(i, i == p.Active)
			s.surface.SetDotActive(i, i == p.Active)
		}
		s.surface.SetCounter(p.Counter)
		s.applied = true
		s.last = p
		return
	}

	if s.last.Active != p.Active {
		s.surface.SetSlideActive(s.last.Active, false)
		s.surface.SetDotActive(s.last.Active, false)
		s.surface.SetSlideActive(p.Active, true)
		s.surface.SetDotActive(p.Active, true)
	}
	if s.last.Counter != p.Counter {
		s.surface.SetCounter(p.Counter)
	}
	s.last = p
}
