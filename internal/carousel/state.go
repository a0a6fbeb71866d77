// internal/carousel/state.go
package carousel

import (
	"fmt"
	"strings"
)

// State is a snapshot of the controller state.
type State struct {
	Index           int
	Count           int
	PlaybackActive  bool
	ManuallyPaused  bool
	AutoplayRunning bool
}

// Policy decides whether advancing waits for playing media.
type Policy int

const (
	// PolicyWait makes Next and timer ticks no-ops while the active slide's
	// media is playing.
	PolicyWait Policy = iota
	// PolicyAlways advances unconditionally; playback only suspends the
	// timer.
	PolicyAlways
)

// String returns the policy name as used in configuration.
func (p Policy) String() string {
	switch p {
	case PolicyWait:
		return "wait"
	case PolicyAlways:
		return "always"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "wait" or "always".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wait", "":
		return PolicyWait, nil
	case "always":
		return PolicyAlways, nil
	default:
		return PolicyWait, fmt.Errorf("invalid policy %q: must be wait or always", s)
	}
}

// Hint is a user presence signal used to suspend or resume autoplay.
type Hint int

const (
	PointerEnter Hint = iota
	PointerLeave
	TouchStart
	TouchEnd
)

// String returns the hint name.
func (h Hint) String() string {
	switch h {
	case PointerEnter:
		return "pointer-enter"
	case PointerLeave:
		return "pointer-leave"
	case TouchStart:
		return "touch-start"
	case TouchEnd:
		return "touch-end"
	default:
		return "unknown"
	}
}

// ParseHint parses a hint name.
func ParseHint(s string) (Hint, error) {
	for h := PointerEnter; h <= TouchEnd; h++ {
		if h.String() == s {
			return h, nil
		}
	}
	return PointerEnter, fmt.Errorf("unknown hint %q", s)
}

// Key is a directional key press.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
)

// ParseKey parses DOM key names ("ArrowLeft", "ArrowRight") and the
// terminal names ("left", "right").
func ParseKey(s string) (Key, bool) {
	switch s {
	case "ArrowLeft", "left":
		return KeyLeft, true
	case "ArrowRight", "right":
		return KeyRight, true
	default:
		return KeyLeft, false
	}
}
