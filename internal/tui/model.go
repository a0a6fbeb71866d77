// Package tui is a terminal preview of a carousel. It drives a controller
// rendering to an in-process Surface and lets the user simulate media
// playback and pointer presence from the keyboard.
package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/errmsg"
	"github.com/llehouerou/carousel/internal/keymap"
	"github.com/llehouerou/carousel/internal/media"
)

const maxLogLines = 5

// Controller is the part of carousel.Controller the preview drives.
type Controller interface {
	Next() error
	Prev() error
	Navigate(index int) error
	TogglePause() error
	Key(k carousel.Key, inView bool) error
	Hint(h carousel.Hint) error
	MediaEvent(index int, ev media.Event) error
	EmbedReady(index int) error
	Snapshot() carousel.State
	Subscribe() *carousel.Subscription
	Interval() time.Duration
	Policy() carousel.Policy
}

// Model is the bubbletea model of the preview.
type Model struct {
	ctrl     Controller
	sub      *carousel.Subscription
	surface  *Surface
	keys     *keymap.Resolver
	title    string
	now      func() time.Time
	state    carousel.State
	reason   autoplay.Reason
	deadline time.Time // next automatic advance, zero when suspended
	inView   bool
	hovering bool
	touching bool
	showHelp bool
	closed   bool
	log      []string
	width    int
}

// New creates the preview model. surface must be the surface ctrl renders
// to.
func New(ctrl Controller, surface *Surface, title string) Model {
	m := Model{
		ctrl:    ctrl,
		sub:     ctrl.Subscribe(),
		surface: surface,
		keys:    keymap.NewResolver(keymap.Bindings),
		title:   title,
		now:     time.Now,
		state:   ctrl.Snapshot(),
		inView:  true,
	}
	if m.state.AutoplayRunning {
		m.deadline = m.now().Add(ctrl.Interval())
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(watchEvents(m.sub), refreshCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case slideChangedMsg:
		if msg.PreviousIndex >= 0 {
			m.logf("slide %d -> %d", msg.PreviousIndex+1, msg.Index+1)
		}
		return m, watchEvents(m.sub)

	case autoplayChangedMsg:
		if msg.Running {
			m.logf("autoplay running")
		} else {
			m.logf("autoplay suspended (%s)", msg.Suspended)
		}
		return m, watchEvents(m.sub)

	case playbackChangedMsg:
		if msg.Active {
			m.logf("slide %d playing", msg.Index+1)
		} else {
			m.logf("slide %d stopped", msg.Index+1)
		}
		return m, watchEvents(m.sub)

	case stateChangedMsg:
		// Every move re-arms the timer.
		switch {
		case !msg.State.AutoplayRunning:
			m.deadline = time.Time{}
		case !m.state.AutoplayRunning || m.deadline.IsZero() || msg.State.Index != m.state.Index:
			m.deadline = m.now().Add(m.ctrl.Interval())
		}
		m.state = msg.State
		m.reason = msg.Suspended
		return m, watchEvents(m.sub)

	case closedMsg:
		m.closed = true
		return m, tea.Quit

	case refreshMsg:
		return m, refreshCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	match := m.keys.Resolve(msg.String())
	active := m.state.Index

	var err error
	switch match.Action {
	case keymap.ActionQuit:
		return m, tea.Quit
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
	case keymap.ActionNext:
		err = m.ctrl.Next()
	case keymap.ActionPrev:
		err = m.ctrl.Prev()
	case keymap.ActionArrowLeft:
		err = m.ctrl.Key(carousel.KeyLeft, m.inView)
	case keymap.ActionArrowRight:
		err = m.ctrl.Key(carousel.KeyRight, m.inView)
	case keymap.ActionGoto:
		if err := m.ctrl.Navigate(match.Slot); err != nil {
			m.logf("error: %s", errmsg.FormatWith(errmsg.OpNavigate, strconv.Itoa(match.Slot+1), err))
		}
	case keymap.ActionTogglePause:
		err = m.ctrl.TogglePause()
	case keymap.ActionToggleView:
		m.inView = !m.inView
	case keymap.ActionMediaStarted:
		err = m.mediaEvent(active, media.Started)
	case keymap.ActionMediaPaused:
		err = m.mediaEvent(active, media.Paused)
	case keymap.ActionMediaEnded:
		err = m.mediaEvent(active, media.Ended)
	case keymap.ActionMediaRejected:
		err = m.mediaEvent(active, media.Rejected)
	case keymap.ActionEmbedReady:
		err = m.ctrl.EmbedReady(active)
		m.logf("embedded player %d ready", active+1)
	case keymap.ActionToggleHover:
		m.hovering = !m.hovering
		if m.hovering {
			err = m.ctrl.Hint(carousel.PointerEnter)
		} else {
			err = m.ctrl.Hint(carousel.PointerLeave)
		}
	case keymap.ActionToggleTouch:
		m.touching = !m.touching
		if m.touching {
			err = m.ctrl.Hint(carousel.TouchStart)
		} else {
			err = m.ctrl.Hint(carousel.TouchEnd)
		}
	}

	if err != nil {
		m.logf("error: %v", err)
	}
	return m, nil
}

func (m *Model) mediaEvent(index int, ev media.Event) error {
	m.logf("slide %d: %s", index+1, ev)
	if err := m.ctrl.MediaEvent(index, ev); err != nil {
		return err
	}
	m.surface.setPlaying(index, ev == media.Started)
	return nil
}

func (m *Model) logf(format string, args ...any) {
	line := m.now().Format("15:04:05") + " " + fmt.Sprintf(format, args...)
	m.log = append(m.log, line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}
