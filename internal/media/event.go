package media

import (
	"errors"
	"fmt"
	"strings"
)

// Event is a playback notification emitted by a slide's media.
type Event int

const (
	Started Event = iota
	Paused
	Ended
	// Rejected means the host refused to start playback.
	Rejected
)

// String returns the event name.
func (e Event) String() string {
	switch e {
	case Started:
		return "started"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ErrUnknownEvent is returned by ParseEvent for unrecognized names.
var ErrUnknownEvent = errors.New("unknown media event")

// ParseEvent parses an event name. DOM event names ("play", "playing") are
// accepted as aliases.
func ParseEvent(s string) (Event, error) {
	switch strings.ToLower(s) {
	case "started", "play", "playing":
		return Started, nil
	case "paused", "pause":
		return Paused, nil
	case "ended":
		return Ended, nil
	case "rejected":
		return Rejected, nil
	default:
		return Started, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
}

// Embedded player state codes, as delivered on the player's event channel.
const (
	EmbedUnstarted = -1
	EmbedEnded     = 0
	EmbedPlaying   = 1
	EmbedPaused    = 2
	EmbedBuffering = 3
	EmbedCued      = 5
)

// EmbedStateEvent maps an embedded player state code to an Event.
// Codes without an equivalent (buffering, cued, unstarted) return false.
func EmbedStateEvent(code int) (Event, bool) {
	switch code {
	case EmbedPlaying:
		return Started, true
	case EmbedPaused:
		return Paused, true
	case EmbedEnded:
		return Ended, true
	default:
		return Started, false
	}
}
