// Package autoplay provides the single repeating timer that advances the
// carousel.
//
// The timer never calls the carousel directly. When the interval elapses it
// hands a generation number to the fire callback, which is expected to queue
// it for the owner's event loop. The owner then calls Accept with that
// generation; ticks from a cancelled generation are rejected, so at most one
// tick is ever honored per arm.
//
// Timer is not safe for concurrent use: every method except the fire
// callback must be called from the owner's goroutine.
package autoplay

import "time"

// DefaultInterval is the delay between automatic advances.
const DefaultInterval = 10 * time.Second

// Reason is a cause for suspending autoplay. Reasons are independent; the
// timer runs only when none is set.
type Reason uint8

const (
	// Playback: the active media is playing.
	Playback Reason = 1 << iota
	// Manual: the user paused the carousel.
	Manual
	// Hover: a pointer is over the widget.
	Hover
	// Touch: a touch gesture is in progress.
	Touch
)

// String returns the reason names joined by "+".
func (r Reason) String() string {
	if r == 0 {
		return "none"
	}
	names := []string{"playback", "manual", "hover", "touch"}
	out := ""
	for i, n := range names {
		if r&(1<<i) != 0 {
			if out != "" {
				out += "+"
			}
			out += n
		}
	}
	return out
}

// Timer schedules the repeating advance callback.
type Timer struct {
	interval  time.Duration
	fire      func(gen uint64)
	timer     *time.Timer
	gen       uint64
	suspended Reason
}

// New creates a stopped timer. A non-positive interval uses DefaultInterval.
func New(interval time.Duration, fire func(gen uint64)) *Timer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Timer{interval: interval, fire: fire}
}

// Interval returns the configured cadence.
func (t *Timer) Interval() time.Duration { return t.interval }

// Start arms the callback if it is not armed and no suspension reason is set.
func (t *Timer) Start() {
	if t.timer != nil || t.suspended != 0 {
		return
	}
	t.arm()
}

func (t *Timer) arm() {
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(t.interval, func() { t.fire(gen) })
}

// Stop cancels the armed callback. Safe to call when stopped.
func (t *Timer) Stop() {
	if t.timer == nil {
		return
	}
	t.timer.Stop()
	t.timer = nil
	// Invalidate a tick that already fired but was not accepted yet.
	t.gen++
}

// Reset restarts the interval from now.
func (t *Timer) Reset() {
	t.Stop()
	t.Start()
}

// Accept validates a fired generation. It returns true for the live
// generation and re-arms the next interval; stale generations return false.
func (t *Timer) Accept(gen uint64) bool {
	if t.timer == nil || gen != t.gen {
		return false
	}
	t.timer = nil
	t.arm()
	return true
}

// Suspend adds a suspension reason and stops the timer.
func (t *Timer) Suspend(r Reason) {
	t.suspended |= r
	t.Stop()
}

// Resume clears a suspension reason and starts the timer when no other
// reason remains.
func (t *Timer) Resume(r Reason) {
	t.suspended &^= r
	t.Start()
}

// Suspended returns the active suspension reasons.
func (t *Timer) Suspended() Reason { return t.suspended }

// Running returns true if a callback is armed.
func (t *Timer) Running() bool { return t.timer != nil }

// Pending returns the number of armed callbacks (0 or 1).
func (t *Timer) Pending() int {
	if t.timer != nil {
		return 1
	}
	return 0
}
