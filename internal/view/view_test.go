package view

import (
	"slices"
	"testing"
)

type quiesceRecorder struct {
	calls []int
}

func (q *quiesceRecorder) Quiesce(active int) { q.calls = append(q.calls, active) }

func TestProject(t *testing.T) {
	p := Project(0, 10)
	if p.Active != 0 || p.Total != 10 || p.Counter != "1" {
		t.Errorf("Project(0, 10) = %+v", p)
	}
	if got := Project(9, 10).Counter; got != "10" {
		t.Errorf("Counter = %q, want 10", got)
	}
}

func TestSyncer_MarksExactlyOneActive(t *testing.T) {
	s := NewMock()
	q := &quiesceRecorder{}
	sy := NewSyncer(s, q)

	sy.Sync(Project(0, 5))
	sy.Sync(Project(3, 5))

	if got := s.ActiveSlides(); !slices.Equal(got, []int{3}) {
		t.Errorf("active slides = %v, want [3]", got)
	}
	if got := s.ActiveDots(); !slices.Equal(got, []int{3}) {
		t.Errorf("active dots = %v, want [3]", got)
	}
	if s.Counter != "4" {
		t.Errorf("Counter = %q, want 4", s.Counter)
	}
	if !slices.Equal(q.calls, []int{0, 3}) {
		t.Errorf("Quiesce calls = %v, want [0 3]", q.calls)
	}
}

func TestSyncer_Idempotent(t *testing.T) {
	s := NewMock()
	sy := NewSyncer(s, nil)
	p := Project(2, 4)

	sy.Sync(p)
	writes := s.Writes
	slides := s.ActiveSlides()

	sy.Sync(p)

	if s.Writes != writes {
		t.Errorf("second Sync wrote %d markers, want 0", s.Writes-writes)
	}
	if !slices.Equal(s.ActiveSlides(), slides) {
		t.Error("second Sync changed the active slide")
	}
}

func TestSyncer_DetachedSurfaceRetries(t *testing.T) {
	s := NewMock()
	s.Detached = true
	sy := NewSyncer(s, nil)

	sy.Sync(Project(1, 3))
	if s.Writes != 0 {
		t.Fatalf("detached surface received %d writes", s.Writes)
	}

	s.Detached = false
	sy.Sync(Project(1, 3))

	if got := s.ActiveSlides(); !slices.Equal(got, []int{1}) {
		t.Errorf("active slides = %v, want [1]", got)
	}
	if s.Counter != "2" {
		t.Errorf("Counter = %q, want 2", s.Counter)
	}
}

func TestSyncer_NilSurface(t *testing.T) {
	q := &quiesceRecorder{}
	sy := NewSyncer(nil, q)
	sy.Sync(Project(1, 2))
	if len(q.calls) != 1 {
		t.Errorf("Quiesce calls = %d, want 1", len(q.calls))
	}
}
