package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
	"github.com/llehouerou/carousel/internal/view"
)

// slideView is the rendered state of one slide as browsers see it.
type slideView struct {
	Kind    string `json:"kind"`
	Source  string `json:"source"`
	Title   string `json:"title,omitempty"`
	Active  bool   `json:"active"`
	Dot     bool   `json:"dot"`
	Muted   bool   `json:"muted"`
	Playing bool   `json:"playing"`

	atStart bool
}

// stateView mirrors carousel.State for browsers and the REST API.
type stateView struct {
	Index           int    `json:"index"`
	Count           int    `json:"count"`
	PlaybackActive  bool   `json:"playbackActive"`
	ManuallyPaused  bool   `json:"manuallyPaused"`
	AutoplayRunning bool   `json:"autoplayRunning"`
	Suspended       string `json:"suspended,omitempty"`
}

func newStateView(s carousel.State, suspended string) stateView {
	return stateView{
		Index:           s.Index,
		Count:           s.Count,
		PlaybackActive:  s.PlaybackActive,
		ManuallyPaused:  s.ManuallyPaused,
		AutoplayRunning: s.AutoplayRunning,
		Suspended:       suspended,
	}
}

// op is one incremental change pushed to every browser.
type op struct {
	Type   string `json:"type"` // play, pause, rewind, mute, src, slide, dot, counter
	Index  int    `json:"index"`
	Active bool   `json:"active,omitempty"`
	Muted  bool   `json:"muted,omitempty"`
	Src    string `json:"src,omitempty"`
	Text   string `json:"text,omitempty"`
}

type snapshotMsg struct {
	Type    string      `json:"type"` // "snapshot"
	Counter string      `json:"counter"`
	Slides  []slideView `json:"slides"`
	State   stateView   `json:"state"`
}

type stateMsg struct {
	Type  string    `json:"type"` // "state"
	State stateView `json:"state"`
}

// Remote is the rendered surface of every connected browser. It keeps the
// view model the controller writes to and pushes each change to the
// clients; a client joining later receives the model as a snapshot.
//
// Remote implements media.Surface and view.Surface.
type Remote struct {
	log *slog.Logger

	mu      sync.Mutex
	slides  []slideView
	counter string
	state   stateView
	clients map[string]*client
}

// NewRemote creates the surface for the slides of reg.
func NewRemote(reg *slide.Registry, log *slog.Logger) *Remote {
	if log == nil {
		log = slog.Default()
	}
	slides := make([]slideView, reg.Count())
	for i, d := range reg.All() {
		slides[i] = slideView{
			Kind:    d.Kind.String(),
			Source:  d.Source,
			Title:   d.Title,
			Muted:   d.Kind == slide.LocalVideo,
			atStart: true,
		}
	}
	return &Remote{
		log:     log,
		slides:  slides,
		state:   stateView{Count: reg.Count()},
		clients: make(map[string]*client),
	}
}

// Video returns the handle of the local video at i, or nil.
func (r *Remote) Video(i int) media.VideoElement {
	if !r.hasKind(i, slide.LocalVideo) {
		return nil
	}
	return remoteVideo{r: r, index: i}
}

// Frame returns the handle of the embedded player at i, or nil.
func (r *Remote) Frame(i int) media.FrameElement {
	if !r.hasKind(i, slide.EmbeddedPlayer) {
		return nil
	}
	return remoteFrame{r: r, index: i}
}

// Attached reports whether the markers can be written. The view model
// always exists, browsers catch up from the snapshot.
func (r *Remote) Attached() bool { return true }

func (r *Remote) SetSlideActive(i int, active bool) {
	r.update(i, func(s *slideView) bool {
		if s.Active == active {
			return false
		}
		s.Active = active
		return true
	}, op{Type: "slide", Index: i, Active: active})
}

func (r *Remote) SetDotActive(i int, active bool) {
	r.update(i, func(s *slideView) bool {
		if s.Dot == active {
			return false
		}
		s.Dot = active
		return true
	}, op{Type: "dot", Index: i, Active: active})
}

func (r *Remote) SetCounter(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.counter == text {
		return
	}
	r.counter = text
	r.broadcastLocked(op{Type: "counter", Text: text})
}

// SetState records the controller state and pushes it to every browser.
func (r *Remote) SetState(s carousel.State, suspended string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sv := newStateView(s, suspended)
	if sv == r.state {
		return
	}
	r.state = sv
	r.broadcastLocked(stateMsg{Type: "state", State: sv})
}

// Clients returns the number of connected browsers.
func (r *Remote) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

func (r *Remote) snapshotLocked() snapshotMsg {
	slides := make([]slideView, len(r.slides))
	copy(slides, r.slides)
	for i := range slides {
		if slides[i].Kind == slide.EmbeddedPlayer.String() {
			slides[i].Source = playerSource(slides[i].Source)
		}
	}
	return snapshotMsg{Type: "snapshot", Counter: r.counter, Slides: slides, State: r.state}
}

// register adds c and queues the current snapshot as its first message.
func (r *Remote) register(c *client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, err := json.Marshal(r.snapshotLocked())
	if err != nil {
		r.log.Error("server: encoding snapshot", "error", err)
		return
	}
	c.send <- data
	r.clients[c.id] = c
	r.log.Info("server: client connected", "client", c.id, "clients", len(r.clients))
}

func (r *Remote) unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropLocked(id)
}

func (r *Remote) dropLocked(id string) {
	c, ok := r.clients[id]
	if !ok {
		return
	}
	delete(r.clients, id)
	close(c.send)
	r.log.Info("server: client disconnected", "client", id, "clients", len(r.clients))
}

func (r *Remote) broadcastLocked(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		r.log.Error("server: encoding message", "error", err)
		return
	}
	for id, c := range r.clients {
		select {
		case c.send <- data:
		default:
			r.log.Warn("server: client too slow, dropping", "client", id)
			r.dropLocked(id)
		}
	}
}

func (r *Remote) hasKind(i int, k slide.Kind) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return i >= 0 && i < len(r.slides) && r.slides[i].Kind == k.String()
}

// update applies fn to slide i and broadcasts o when fn reports a change.
func (r *Remote) update(i int, fn func(*slideView) bool, o op) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.slides) {
		return
	}
	if fn(&r.slides[i]) {
		r.broadcastLocked(o)
	}
}

// observe records a playback event reported by a browser so later
// snapshots show the video as it is. Nothing is broadcast.
func (r *Remote) observe(i int, ev media.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.slides) || r.slides[i].Kind != slide.LocalVideo.String() {
		return
	}
	r.slides[i].Playing = ev == media.Started
}

func (r *Remote) source(i int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.slides) {
		return ""
	}
	return r.slides[i].Source
}

type remoteVideo struct {
	r     *Remote
	index int
}

// Play asks the browsers to start the video. A browser refusing autoplay
// reports it back as a rejected media event.
// errNoViewers is returned by Play while no browser is connected. The view
// model still records the request, so the next browser starts the video
// from its snapshot and reports playback itself.
var errNoViewers = errors.New("no browser connected")

func (v remoteVideo) Play() error {
	v.r.update(v.index, func(s *slideView) bool {
		if s.Playing {
			return false
		}
		s.Playing = true
		s.atStart = false
		return true
	}, op{Type: "play", Index: v.index})
	if v.r.Clients() == 0 {
		return errNoViewers
	}
	return nil
}

func (v remoteVideo) Pause() {
	v.r.update(v.index, func(s *slideView) bool {
		if !s.Playing {
			return false
		}
		s.Playing = false
		return true
	}, op{Type: "pause", Index: v.index})
}

func (v remoteVideo) Rewind() {
	v.r.update(v.index, func(s *slideView) bool {
		if s.atStart {
			return false
		}
		s.atStart = true
		return true
	}, op{Type: "rewind", Index: v.index})
}

func (v remoteVideo) SetMuted(muted bool) {
	v.r.update(v.index, func(s *slideView) bool {
		if s.Muted == muted {
			return false
		}
		s.Muted = muted
		return true
	}, op{Type: "mute", Index: v.index, Muted: muted})
}

type remoteFrame struct {
	r     *Remote
	index int
}

func (f remoteFrame) Source() string { return f.r.source(f.index) }

func (f remoteFrame) SetSource(src string) {
	f.r.update(f.index, func(s *slideView) bool {
		if s.Source == src {
			return false
		}
		s.Source = src
		return true
	}, op{Type: "src", Index: f.index, Src: playerSource(src)})
}

var (
	_ media.Surface = (*Remote)(nil)
	_ view.Surface  = (*Remote)(nil)
)
