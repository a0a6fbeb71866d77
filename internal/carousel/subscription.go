package carousel

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	SlideChanged    <-chan SlideChange
	AutoplayChanged <-chan AutoplayChange
	PlaybackChanged <-chan PlaybackChange
	StateChanged    <-chan StateChange
	Done            <-chan struct{}

	slideCh    chan SlideChange
	autoplayCh chan AutoplayChange
	playbackCh chan PlaybackChange
	stateCh    chan StateChange
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		slideCh:    make(chan SlideChange, eventBufferSize),
		autoplayCh: make(chan AutoplayChange, eventBufferSize),
		playbackCh: make(chan PlaybackChange, eventBufferSize),
		stateCh:    make(chan StateChange, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.SlideChanged = s.slideCh
	s.AutoplayChanged = s.autoplayCh
	s.PlaybackChanged = s.playbackCh
	s.StateChanged = s.stateCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// Sends never block; events are dropped when the buffer is full.

func (s *Subscription) sendSlide(e SlideChange) {
	select {
	case s.slideCh <- e:
	default:
	}
}

func (s *Subscription) sendAutoplay(e AutoplayChange) {
	select {
	case s.autoplayCh <- e:
	default:
	}
}

func (s *Subscription) sendPlayback(e PlaybackChange) {
	select {
	case s.playbackCh <- e:
	default:
	}
}

func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
	}
}
