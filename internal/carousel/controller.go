// Package carousel implements the slide-rotation state machine.
//
// A Controller owns the current slide index and the autoplay timer. Every
// input (navigation, timer ticks, media playback events, presence hints) is
// queued as a message and handled in arrival order by the single goroutine
// running Run, so no two transitions ever interleave:
//
//	navigate/next/prev ──┐
//	timer tick ──────────┼──▶ inbox ──▶ Run ──▶ media.Set (activate/deactivate)
//	media events ────────┤                 └──▶ view.Syncer (markers, counter)
//	hints/keys ──────────┘
//
// After each transition the controller publishes a snapshot for Snapshot
// and notifies subscribers.
package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
	"github.com/llehouerou/carousel/internal/view"
)

const (
	// DefaultGraceDelay is the pause between a video's end and the advance.
	DefaultGraceDelay = time.Second
	// DefaultTouchResumeDelay is how long autoplay stays suspended after a
	// touch gesture ends.
	DefaultTouchResumeDelay = 2 * time.Second

	inboxSize = 64
)

var (
	// ErrOutOfRange is returned when navigating to an index outside the
	// slide list. Indices are never wrapped on behalf of the caller.
	ErrOutOfRange = errors.New("slide index out of range")
	// ErrClosed is returned after the controller has been torn down.
	ErrClosed = errors.New("carousel closed")
)

// Options configures a Controller.
type Options struct {
	// Interval between automatic advances. Zero uses autoplay.DefaultInterval.
	Interval time.Duration
	Policy   Policy
	// GraceDelay before advancing after the active media ends. Zero advances
	// immediately.
	GraceDelay time.Duration
	// TouchResumeDelay before autoplay resumes after a touch ends. Zero
	// resumes immediately.
	TouchResumeDelay time.Duration
	// StartIndex is the slide shown at mount. Out-of-range values fall back
	// to 0.
	StartIndex int
	Logger     *slog.Logger
}

// Controller is the carousel state machine.
type Controller struct {
	reg   *slide.Registry
	media *media.Set
	view  *view.Syncer
	timer *autoplay.Timer
	opts  Options
	log   *slog.Logger

	inbox     chan any
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
	started   atomic.Bool

	// Owned by the Run goroutine.
	state      State
	graceTimer *time.Timer
	graceGen   uint64
	touchTimer *time.Timer
	touchGen   uint64
	lastAuto   AutoplayChange
	published  bool

	snapMu sync.RWMutex
	snap   State

	subsMu     sync.RWMutex
	subs       []*Subscription
	subsClosed bool
}

// New creates a controller. The surface receives view markers and may be nil.
func New(reg *slide.Registry, set *media.Set, surface view.Surface, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if !reg.Contains(opts.StartIndex) {
		opts.StartIndex = 0
	}
	c := &Controller{
		reg:     reg,
		media:   set,
		view:    view.NewSyncer(surface, set),
		opts:    opts,
		log:     log,
		inbox:   make(chan any, inboxSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	c.timer = autoplay.New(opts.Interval, func(gen uint64) {
		_ = c.post(tickMsg{gen: gen})
	})
	c.snap = State{Index: opts.StartIndex, Count: reg.Count()}
	return c
}

// Run mounts the carousel and processes events until ctx is cancelled or
// Close is called. It must be called once.
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return errors.New("carousel: Run called twice")
	}
	defer c.teardown()

	c.mount()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.done:
			return nil
		case msg := <-c.inbox:
			c.handle(msg)
			c.publish()
		}
	}
}

// Close tears the carousel down and waits for Run to return.
func (c *Controller) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	if c.started.Load() {
		<-c.stopped
		return nil
	}
	c.closeSubscriptions()
	return nil
}

// Snapshot returns the state after the last processed event.
func (c *Controller) Snapshot() State {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap
}

// Slides returns the slide list.
func (c *Controller) Slides() []slide.Descriptor {
	return c.reg.All()
}

// Interval returns the autoplay cadence.
func (c *Controller) Interval() time.Duration {
	return c.timer.Interval()
}

// Policy returns the advance policy.
func (c *Controller) Policy() Policy {
	return c.opts.Policy
}

// Subscribe creates a new event subscription.
func (c *Controller) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	if c.subsClosed {
		sub.close()
		return sub
	}
	c.subs = append(c.subs, sub)
	return sub
}

// Navigate shows the slide at index.
func (c *Controller) Navigate(index int) error {
	if !c.reg.Contains(index) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return c.post(navigateMsg{index: index})
}

// Next advances to the next slide, subject to the policy.
func (c *Controller) Next() error { return c.post(nextMsg{}) }

// Prev goes back one slide.
func (c *Controller) Prev() error { return c.post(prevMsg{}) }

// TogglePause flips the manual pause.
func (c *Controller) TogglePause() error { return c.post(toggleMsg{}) }

// MediaEvent reports a playback event of the slide at index.
func (c *Controller) MediaEvent(index int, ev media.Event) error {
	if !c.reg.Contains(index) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return c.post(mediaMsg{index: index, event: ev})
}

// EmbedReady records that the embedded player at index connected its event
// channel. It may arrive at any time, including after the slide was left.
func (c *Controller) EmbedReady(index int) error {
	if !c.reg.Contains(index) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	return c.post(embedReadyMsg{index: index})
}

// EmbedState reports a raw state code from an embedded player. Codes with no
// playback meaning are ignored.
func (c *Controller) EmbedState(index, code int) error {
	ev, ok := media.EmbedStateEvent(code)
	if !ok {
		return nil
	}
	return c.MediaEvent(index, ev)
}

// Hint reports a pointer or touch presence change.
func (c *Controller) Hint(h Hint) error { return c.post(hintMsg{hint: h}) }

// Key reports a directional key. Keys are ignored unless the widget is in
// view.
func (c *Controller) Key(k Key, inView bool) error {
	return c.post(keyMsg{key: k, inView: inView})
}

func (c *Controller) post(msg any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.inbox <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

func (c *Controller) mount() {
	idx := c.opts.StartIndex
	c.state = State{Index: idx, Count: c.reg.Count()}
	requested := c.media.Activate(idx)
	c.view.Sync(view.Project(idx, c.state.Count))

	// Under the wait policy a reporting video that accepted play holds
	// autoplay until it pauses, ends or is rejected. A refused or missing
	// element leaves the slide timed like an image.
	if c.opts.Policy == PolicyWait && requested {
		if m := c.media.At(idx); m.Playable() && m.Reporting() {
			c.timer.Suspend(autoplay.Playback)
		}
	}
	c.timer.Start()

	c.log.Info("carousel: mounted",
		"slides", c.state.Count,
		"index", idx,
		"policy", c.opts.Policy,
		"interval", c.timer.Interval())
	c.emitSlide(SlideChange{PreviousIndex: -1, Index: idx, Slide: c.reg.Get(idx)})
	c.publish()
}

func (c *Controller) teardown() {
	c.timer.Stop()
	c.cancelGrace()
	c.cancelTouch()
	c.closeOnce.Do(func() { close(c.done) })
	c.closeSubscriptions()
	c.log.Info("carousel: stopped")
	close(c.stopped)
}

func (c *Controller) handle(msg any) {
	switch m := msg.(type) {
	case navigateMsg:
		c.moveTo(m.index)
	case nextMsg:
		c.advance()
	case prevMsg:
		c.retreat()
	case tickMsg:
		if c.timer.Accept(m.gen) {
			c.advance()
		}
	case graceMsg:
		if c.graceTimer == nil || m.gen != c.graceGen {
			return
		}
		c.graceTimer = nil
		c.advance()
	case touchMsg:
		if c.touchTimer == nil || m.gen != c.touchGen {
			return
		}
		c.touchTimer = nil
		c.timer.Resume(autoplay.Touch)
	case toggleMsg:
		c.state.ManuallyPaused = !c.state.ManuallyPaused
		if c.state.ManuallyPaused {
			c.timer.Suspend(autoplay.Manual)
		} else {
			c.timer.Resume(autoplay.Manual)
		}
	case hintMsg:
		c.onHint(m.hint)
	case keyMsg:
		if !m.inView {
			return
		}
		if m.key == KeyLeft {
			c.retreat()
		} else {
			c.advance()
		}
	case mediaMsg:
		c.onMedia(m.index, m.event)
	case embedReadyMsg:
		if c.media.Connect(m.index) {
			c.log.Debug("carousel: embedded player connected", "index", m.index)
		}
	}
}

func (c *Controller) advance() {
	if c.opts.Policy == PolicyWait && c.state.PlaybackActive {
		c.log.Debug("carousel: advance held by playing media", "index", c.state.Index)
		return
	}
	c.moveTo((c.state.Index + 1) % c.state.Count)
}

func (c *Controller) retreat() {
	n := c.state.Count
	c.moveTo((c.state.Index - 1 + n) % n)
}

func (c *Controller) moveTo(index int) {
	prev := c.state.Index
	c.cancelGrace()

	// Reselecting the active slide keeps its play state: a playing video
	// reports nothing new and keeps holding autoplay.
	if prev != index {
		c.setPlayback(false)
		c.media.Deactivate(prev)
	}
	if !c.state.PlaybackActive {
		c.timer.Resume(autoplay.Playback)
	}
	c.state.Index = index
	c.media.Activate(index)
	c.view.Sync(view.Project(index, c.state.Count))
	c.timer.Reset()

	c.emitSlide(SlideChange{PreviousIndex: prev, Index: index, Slide: c.reg.Get(index)})
}

func (c *Controller) onMedia(index int, ev media.Event) {
	if index != c.state.Index {
		c.log.Debug("carousel: media event from inactive slide", "index", index, "event", ev)
		return
	}
	m := c.media.At(index)
	if !m.Playable() {
		return
	}

	switch ev {
	case media.Started:
		c.setPlayback(true)
		c.timer.Suspend(autoplay.Playback)
	case media.Paused:
		c.setPlayback(false)
		c.timer.Resume(autoplay.Playback)
	case media.Rejected:
		c.log.Debug("carousel: playback rejected, falling back to timer", "index", index)
		c.setPlayback(false)
		c.timer.Resume(autoplay.Playback)
	case media.Ended:
		c.setPlayback(false)
		if c.graceTimer != nil {
			return
		}
		if c.opts.GraceDelay <= 0 {
			c.advance()
			return
		}
		c.graceGen++
		gen := c.graceGen
		c.graceTimer = time.AfterFunc(c.opts.GraceDelay, func() {
			_ = c.post(graceMsg{gen: gen})
		})
	}
}

func (c *Controller) onHint(h Hint) {
	switch h {
	case PointerEnter:
		c.timer.Suspend(autoplay.Hover)
	case PointerLeave:
		c.timer.Resume(autoplay.Hover)
	case TouchStart:
		c.cancelTouch()
		c.timer.Suspend(autoplay.Touch)
	case TouchEnd:
		c.cancelTouch()
		if c.opts.TouchResumeDelay <= 0 {
			c.timer.Resume(autoplay.Touch)
			return
		}
		c.touchGen++
		gen := c.touchGen
		c.touchTimer = time.AfterFunc(c.opts.TouchResumeDelay, func() {
			_ = c.post(touchMsg{gen: gen})
		})
	}
}

func (c *Controller) setPlayback(active bool) {
	if c.state.PlaybackActive == active {
		return
	}
	c.state.PlaybackActive = active
	c.emitPlayback(PlaybackChange{Index: c.state.Index, Active: active})
}

func (c *Controller) cancelGrace() {
	if c.graceTimer != nil {
		c.graceTimer.Stop()
		c.graceTimer = nil
	}
	c.graceGen++
}

func (c *Controller) cancelTouch() {
	if c.touchTimer != nil {
		c.touchTimer.Stop()
		c.touchTimer = nil
	}
	c.touchGen++
}

// publish stores the snapshot and reports autoplay changes.
func (c *Controller) publish() {
	c.state.AutoplayRunning = c.timer.Running()

	c.snapMu.Lock()
	changed := c.snap != c.state
	c.snap = c.state
	c.snapMu.Unlock()

	auto := AutoplayChange{Running: c.timer.Running(), Suspended: c.timer.Suspended()}
	if auto != c.lastAuto {
		c.lastAuto = auto
		c.emitAutoplay(auto)
		changed = true
	}
	if changed || !c.published {
		c.published = true
		c.emitState(StateChange{State: c.state, Suspended: auto.Suspended})
	}
}

func (c *Controller) emitState(e StateChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendState(e)
	}
}

func (c *Controller) emitSlide(e SlideChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendSlide(e)
	}
}

func (c *Controller) emitAutoplay(e AutoplayChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendAutoplay(e)
	}
}

func (c *Controller) emitPlayback(e PlaybackChange) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		sub.sendPlayback(e)
	}
}

func (c *Controller) closeSubscriptions() {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	if c.subsClosed {
		return
	}
	c.subsClosed = true
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
}
