// Package slide defines the ordered, read-only list of carousel slides.
package slide

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies how a slide's media is presented.
type Kind int

const (
	Image Kind = iota
	LocalVideo
	EmbeddedPlayer
)

// String returns the kind name as used in configuration.
func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	case LocalVideo:
		return "local-video"
	case EmbeddedPlayer:
		return "embedded-player"
	default:
		return "unknown"
	}
}

// Playable returns true for kinds that have a play state.
func (k Kind) Playable() bool {
	return k == LocalVideo || k == EmbeddedPlayer
}

// ErrUnknownKind is returned when a kind name is not recognized.
var ErrUnknownKind = errors.New("unknown slide kind")

// ParseKind parses a kind name. The short forms "video" and "iframe" are
// accepted as aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "image", "img":
		return Image, nil
	case "local-video", "video":
		return LocalVideo, nil
	case "embedded-player", "iframe", "embed":
		return EmbeddedPlayer, nil
	default:
		return Image, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Descriptor describes one slide.
type Descriptor struct {
	Kind   Kind
	Source string
	Title  string
}
