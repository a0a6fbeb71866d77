// Package media adapts the three slide kinds to one play/pause/mute contract.
package media

import (
	"log/slog"
	"strings"

	"github.com/llehouerou/carousel/internal/slide"
)

const (
	muteOn  = "mute=1"
	muteOff = "mute=0"
)

// New selects the Media implementation for a descriptor.
func New(index int, d slide.Descriptor, s Surface, log *slog.Logger) Media {
	if log == nil {
		log = slog.Default()
	}
	switch d.Kind {
	case slide.LocalVideo:
		return &localVideo{index: index, surface: s, log: log}
	case slide.EmbeddedPlayer:
		return &embedded{index: index, source: d.Source, surface: s}
	default:
		return still{}
	}
}

// still is an image slide. It has no play state.
type still struct{}

func (still) Kind() slide.Kind { return slide.Image }
func (still) Playable() bool   { return false }
func (still) Reporting() bool  { return false }
func (still) Activate() bool   { return false }
func (still) Deactivate()      {}

type localVideo struct {
	index   int
	surface Surface
	log     *slog.Logger
}

func (v *localVideo) Kind() slide.Kind { return slide.LocalVideo }
func (v *localVideo) Playable() bool   { return true }
func (v *localVideo) Reporting() bool  { return true }

func (v *localVideo) element() VideoElement {
	if v.surface == nil {
		return nil
	}
	return v.surface.Video(v.index)
}

func (v *localVideo) Activate() bool {
	el := v.element()
	if el == nil {
		return false
	}
	el.SetMuted(false)
	if err := el.Play(); err != nil {
		v.log.Debug("media: play rejected", "index", v.index, "err", err)
		return false
	}
	return true
}

func (v *localVideo) Deactivate() {
	el := v.element()
	if el == nil {
		return
	}
	el.Pause()
	el.Rewind()
	el.SetMuted(true)
}

type embedded struct {
	index     int
	source    string
	surface   Surface
	connected bool
}

func (e *embedded) Kind() slide.Kind { return slide.EmbeddedPlayer }
func (e *embedded) Playable() bool   { return true }
func (e *embedded) Reporting() bool  { return e.connected }

func (e *embedded) element() FrameElement {
	if e.surface == nil {
		return nil
	}
	return e.surface.Frame(e.index)
}

func (e *embedded) Activate() bool { return e.apply(false) }
func (e *embedded) Deactivate()    { e.apply(true) }

func (e *embedded) apply(muted bool) bool {
	el := e.element()
	if el == nil {
		return false
	}
	target := WithMute(e.source, muted)
	if el.Source() != target {
		el.SetSource(target)
	}
	return true
}

// WithMute rewrites the mute flag of a source locator. Locators without a
// mute flag are returned unchanged.
func WithMute(src string, muted bool) string {
	if muted {
		return strings.Replace(src, muteOff, muteOn, 1)
	}
	return strings.Replace(src, muteOn, muteOff, 1)
}
