// internal/media/interface.go
package media

import "github.com/llehouerou/carousel/internal/slide"

// VideoElement is the control surface of a local video element.
type VideoElement interface {
	// Play starts playback. The host may reject it; callers treat that as
	// best-effort and never retry.
	Play() error
	Pause()
	Rewind()
	SetMuted(muted bool)
}

// FrameElement is the control surface of an embedded third-party player.
// The player cannot be instructed directly, only through its source locator.
type FrameElement interface {
	Source() string
	SetSource(src string)
}

// Surface gives index-addressable access to rendered media elements.
// Both methods return nil when the element is not attached yet.
type Surface interface {
	Video(index int) VideoElement
	Frame(index int) FrameElement
}

// Media is the uniform capability set of one slide.
type Media interface {
	Kind() slide.Kind
	// Playable returns true if the media has a play state.
	Playable() bool
	// Reporting returns true if the media is able to report playback
	// events (started, paused, ended) back to the controller.
	Reporting() bool
	// Activate brings the media forward. It returns true if playback was
	// requested and the element accepted it.
	Activate() bool
	Deactivate()
}
