package tui

import (
	"errors"
	"strings"
	"sync"

	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
	"github.com/llehouerou/carousel/internal/view"
)

// SlideState is what the terminal shows for one slide.
type SlideState struct {
	Kind    slide.Kind
	Title   string
	Source  string
	Active  bool
	Dot     bool
	Playing bool
	Muted   bool
}

// Surface is an in-process rendering target for the controller. Video and
// frame handles only record what a browser would do with them.
type Surface struct {
	mu      sync.Mutex
	slides  []SlideState
	counter string
}

// NewSurface creates a surface for the slides of reg.
func NewSurface(reg *slide.Registry) *Surface {
	slides := make([]SlideState, reg.Count())
	for i, d := range reg.All() {
		slides[i] = SlideState{
			Kind:   d.Kind,
			Title:  d.Title,
			Source: d.Source,
			Muted:  d.Kind == slide.LocalVideo || frameMuted(d.Source),
		}
	}
	return &Surface{slides: slides}
}

// State returns a copy of the rendered slides and the counter.
func (s *Surface) State() ([]SlideState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SlideState, len(s.slides))
	copy(out, s.slides)
	return out, s.counter
}

func (s *Surface) Video(i int) media.VideoElement {
	if !s.is(i, slide.LocalVideo) {
		return nil
	}
	return surfaceVideo{s: s, index: i}
}

func (s *Surface) Frame(i int) media.FrameElement {
	if !s.is(i, slide.EmbeddedPlayer) {
		return nil
	}
	return surfaceFrame{s: s, index: i}
}

func (s *Surface) Attached() bool { return true }

func (s *Surface) SetSlideActive(i int, active bool) {
	s.with(i, func(st *SlideState) { st.Active = active })
}

func (s *Surface) SetDotActive(i int, active bool) {
	s.with(i, func(st *SlideState) { st.Dot = active })
}

func (s *Surface) SetCounter(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter = text
}

// setPlaying records playback reported by the simulated player.
func (s *Surface) setPlaying(i int, playing bool) {
	s.with(i, func(st *SlideState) {
		if st.Kind == slide.LocalVideo {
			st.Playing = playing
		}
	})
}

func (s *Surface) is(i int, k slide.Kind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return i >= 0 && i < len(s.slides) && s.slides[i].Kind == k
}

func (s *Surface) with(i int, fn func(*SlideState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i >= 0 && i < len(s.slides) {
		fn(&s.slides[i])
	}
}

// errNoPlayer is returned by Play: the terminal cannot play video, so
// playback only starts when the user simulates it.
var errNoPlayer = errors.New("preview has no video player")

type surfaceVideo struct {
	s     *Surface
	index int
}

func (v surfaceVideo) Play() error { return errNoPlayer }

func (v surfaceVideo) Pause() {
	v.s.with(v.index, func(st *SlideState) { st.Playing = false })
}

func (v surfaceVideo) Rewind() {}

func (v surfaceVideo) SetMuted(muted bool) {
	v.s.with(v.index, func(st *SlideState) { st.Muted = muted })
}

type surfaceFrame struct {
	s     *Surface
	index int
}

func (f surfaceFrame) Source() string {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.s.slides[f.index].Source
}

func (f surfaceFrame) SetSource(src string) {
	f.s.with(f.index, func(st *SlideState) {
		st.Source = src
		st.Muted = frameMuted(src)
	})
}

func frameMuted(src string) bool { return strings.Contains(src, "mute=1") }

var (
	_ media.Surface = (*Surface)(nil)
	_ view.Surface  = (*Surface)(nil)
)
