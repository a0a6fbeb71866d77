package view

import "slices"

// Mock is a test double for Surface that records markers and write counts.
type Mock struct {
	Detached bool
	Slides   map[int]bool
	Dots     map[int]bool
	Counter  string
	Writes   int
}

// NewMock creates an attached mock surface.
func NewMock() *Mock {
	return &Mock{Slides: make(map[int]bool), Dots: make(map[int]bool)}
}

func (m *Mock) Attached() bool { return !m.Detached }

func (m *Mock) SetSlideActive(index int, active bool) {
	m.Slides[index] = active
	m.Writes++
}

func (m *Mock) SetDotActive(index int, active bool) {
	m.Dots[index] = active
	m.Writes++
}

func (m *Mock) SetCounter(text string) {
	m.Counter = text
	m.Writes++
}

// ActiveSlides returns the indices marked active.
func (m *Mock) ActiveSlides() []int { return activeKeys(m.Slides) }

// ActiveDots returns the indices of active dots.
func (m *Mock) ActiveDots() []int { return activeKeys(m.Dots) }

func activeKeys(marks map[int]bool) []int {
	var out []int
	for i, on := range marks {
		if on {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

var _ Surface = (*Mock)(nil)
