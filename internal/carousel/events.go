package carousel

import (
	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
)

// SlideChange is emitted after the active slide changes.
type SlideChange struct {
	PreviousIndex int
	Index         int
	Slide         slide.Descriptor
}

// AutoplayChange is emitted when the autoplay timer starts or stops.
type AutoplayChange struct {
	Running   bool
	Suspended autoplay.Reason
}

// PlaybackChange is emitted when the active media starts or stops playing.
type PlaybackChange struct {
	Index  int
	Active bool
}

// StateChange is emitted after an event changed the published state.
type StateChange struct {
	State     State
	Suspended autoplay.Reason
}

// Inbound messages, processed in arrival order by the event loop.
type (
	navigateMsg struct{ index int }
	nextMsg     struct{}
	prevMsg     struct{}
	toggleMsg   struct{}
	tickMsg     struct{ gen uint64 }
	graceMsg    struct{ gen uint64 }
	touchMsg    struct{ gen uint64 }
	hintMsg     struct{ hint Hint }
	keyMsg      struct {
		key    Key
		inView bool
	}
	mediaMsg struct {
		index int
		event media.Event
	}
	embedReadyMsg struct{ index int }
)
