package carousel

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"
	"testing"
	"testing/synctest"
	"time"

	"github.com/llehouerou/carousel/internal/autoplay"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/slide"
	"github.com/llehouerou/carousel/internal/view"
)

const (
	interval = 10 * time.Second
	embedSrc = "https://www.youtube.com/embed/abc?autoplay=1&mute=1"
)

type fixture struct {
	ctrl   *Controller
	media  *media.Mock
	view   *view.Mock
	cancel context.CancelFunc
}

func images(n int) []slide.Descriptor {
	out := make([]slide.Descriptor, n)
	for i := range out {
		out[i] = slide.Descriptor{Kind: slide.Image, Source: "img.jpg", Title: "Image"}
	}
	return out
}

// start mounts a controller inside the current synctest bubble. Local videos
// and embedded players get mock elements.
func start(t *testing.T, descs []slide.Descriptor, opts Options) *fixture {
	t.Helper()
	return startWith(t, descs, opts, nil)
}

// startWith is start with a hook to adjust the mock elements before mount.
func startWith(t *testing.T, descs []slide.Descriptor, opts Options, prepare func(*media.Mock)) *fixture {
	t.Helper()
	reg, err := slide.NewRegistry(descs)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	ms := media.NewMock()
	for i, d := range descs {
		switch d.Kind {
		case slide.LocalVideo:
			ms.Videos[i] = media.NewMockVideo()
		case slide.EmbeddedPlayer:
			ms.Frames[i] = media.NewMockFrame(d.Source)
		}
	}
	if prepare != nil {
		prepare(ms)
	}
	if opts.Interval == 0 {
		opts.Interval = interval
	}
	opts.Logger = slog.New(slog.DiscardHandler)
	vs := view.NewMock()
	ctrl := New(reg, media.NewSet(reg, ms, opts.Logger), vs, opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = ctrl.Run(ctx) }()
	synctest.Wait()

	f := &fixture{ctrl: ctrl, media: ms, view: vs, cancel: cancel}
	t.Cleanup(func() {
		cancel()
		_ = ctrl.Close()
	})
	return f
}

func (f *fixture) index() int { return f.ctrl.Snapshot().Index }

func (f *fixture) assertSingleActive(t *testing.T, want int) {
	t.Helper()
	if got := f.view.ActiveSlides(); !slices.Equal(got, []int{want}) {
		t.Errorf("active slides = %v, want [%d]", got, want)
	}
	if got := f.view.ActiveDots(); !slices.Equal(got, []int{want}) {
		t.Errorf("active dots = %v, want [%d]", got, want)
	}
}

func TestController_InitialStateAndFirstTick(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(10), Options{})

		s := f.ctrl.Snapshot()
		if s.Index != 0 || s.Count != 10 {
			t.Fatalf("Snapshot() = %+v, want index 0 of 10", s)
		}
		if !s.AutoplayRunning {
			t.Error("autoplay should be scheduled at mount")
		}
		f.assertSingleActive(t, 0)
		if f.view.Counter != "1" {
			t.Errorf("Counter = %q, want 1", f.view.Counter)
		}

		time.Sleep(interval)
		synctest.Wait()

		if f.index() != 1 {
			t.Errorf("index after one tick = %d, want 1", f.index())
		}
		f.assertSingleActive(t, 1)
		if f.view.Counter != "2" {
			t.Errorf("Counter = %q, want 2", f.view.Counter)
		}
	})
}

func TestController_Wraps(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(3), Options{})

		_ = f.ctrl.Prev()
		synctest.Wait()
		if f.index() != 2 {
			t.Errorf("retreat from 0 = %d, want 2", f.index())
		}

		_ = f.ctrl.Next()
		synctest.Wait()
		if f.index() != 0 {
			t.Errorf("advance from 2 = %d, want 0", f.index())
		}
	})
}

func TestController_IndexStaysInRange(t *testing.T) {
	for n := 1; n <= 6; n++ {
		synctest.Test(t, func(t *testing.T) {
			f := start(t, images(n), Options{})
			r := rand.New(rand.NewPCG(uint64(n), 42))

			for range 40 {
				if r.IntN(2) == 0 {
					_ = f.ctrl.Next()
				} else {
					_ = f.ctrl.Prev()
				}
				synctest.Wait()

				idx := f.index()
				if idx < 0 || idx >= n {
					t.Fatalf("index %d out of [0,%d)", idx, n)
				}
				f.assertSingleActive(t, idx)
				if f.ctrl.timer.Pending() > 1 {
					t.Fatalf("Pending() = %d", f.ctrl.timer.Pending())
				}
			}
		})
	}
}

func TestController_WaitPolicyVideoEndAdvancesAfterGrace(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
			{Kind: slide.Image, Source: "c.jpg"},
		}
		f := start(t, descs, Options{Policy: PolicyWait, GraceDelay: time.Second})
		video := f.media.Videos[1]

		_ = f.ctrl.Navigate(1)
		synctest.Wait()
		if !video.Playing || video.Muted {
			t.Fatalf("video playing=%v muted=%v after navigate", video.Playing, video.Muted)
		}

		_ = f.ctrl.MediaEvent(1, media.Started)
		synctest.Wait()
		if f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("autoplay should stop while the video plays")
		}

		// Next is held while the video plays.
		_ = f.ctrl.Next()
		synctest.Wait()
		if f.index() != 1 {
			t.Fatalf("Next() moved to %d while playing", f.index())
		}

		_ = f.ctrl.MediaEvent(1, media.Ended)
		synctest.Wait()
		if f.index() != 1 {
			t.Fatalf("advanced before the grace delay")
		}

		time.Sleep(time.Second)
		synctest.Wait()
		if f.index() != 2 {
			t.Errorf("index after grace = %d, want 2", f.index())
		}
		if video.Playing || !video.Muted || !video.AtStart {
			t.Errorf("left video playing=%v muted=%v atStart=%v", video.Playing, video.Muted, video.AtStart)
		}
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Error("autoplay should resume on the next image")
		}
	})
}

func TestController_ZeroGraceAdvancesImmediately(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
		}
		f := start(t, descs, Options{})
		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.MediaEvent(1, media.Started)
		_ = f.ctrl.MediaEvent(1, media.Ended)
		synctest.Wait()

		if f.index() != 0 {
			t.Errorf("index = %d, want 0", f.index())
		}
	})
}

func TestController_DuplicateEndedAdvancesOnce(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.LocalVideo, Source: "a.mp4"},
			{Kind: slide.Image, Source: "b.jpg"},
			{Kind: slide.Image, Source: "c.jpg"},
		}
		f := start(t, descs, Options{GraceDelay: time.Second})

		_ = f.ctrl.MediaEvent(0, media.Ended)
		_ = f.ctrl.MediaEvent(0, media.Ended)
		time.Sleep(time.Second)
		synctest.Wait()

		if f.index() != 1 {
			t.Errorf("index = %d, want 1", f.index())
		}
	})
}

func TestController_NavigationCancelsGrace(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
			{Kind: slide.Image, Source: "c.jpg"},
		}
		f := start(t, descs, Options{GraceDelay: time.Second})
		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.MediaEvent(1, media.Ended)
		_ = f.ctrl.Navigate(0)
		time.Sleep(2 * time.Second)
		synctest.Wait()

		if f.index() != 0 {
			t.Errorf("index = %d, want 0 (grace advance cancelled)", f.index())
		}
	})
}

func TestController_AlwaysPolicyAdvancesWhilePlaying(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
		}
		f := start(t, descs, Options{Policy: PolicyAlways})

		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.MediaEvent(1, media.Started)
		synctest.Wait()
		if f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("playback should suspend the timer")
		}

		_ = f.ctrl.Next()
		synctest.Wait()
		if f.index() != 0 {
			t.Errorf("index = %d, want 0", f.index())
		}
		if f.media.Videos[1].Playing {
			t.Error("video should stop when navigating away")
		}
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Error("autoplay should resume on the image")
		}
	})
}

func TestController_StaleTickAfterNavigation(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(10), Options{})

		_ = f.ctrl.Navigate(2)
		synctest.Wait()
		time.Sleep(4 * time.Second)

		_ = f.ctrl.Navigate(5)
		synctest.Wait()

		// The tick scheduled from index 2 would have fired now.
		time.Sleep(6 * time.Second)
		synctest.Wait()
		if f.index() != 5 {
			t.Fatalf("index = %d, want 5 (no stale tick)", f.index())
		}

		time.Sleep(4 * time.Second)
		synctest.Wait()
		if f.index() != 6 {
			t.Fatalf("index = %d, want 6", f.index())
		}

		time.Sleep(interval - time.Second)
		synctest.Wait()
		if f.index() != 6 {
			t.Errorf("index = %d, want 6 (exactly one tick)", f.index())
		}
	})
}

func TestController_EmbeddedMuteFlags(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		other := "https://www.youtube.com/embed/xyz?mute=1"
		descs := append(images(3),
			slide.Descriptor{Kind: slide.EmbeddedPlayer, Source: embedSrc},
			slide.Descriptor{Kind: slide.EmbeddedPlayer, Source: other},
		)
		f := start(t, descs, Options{})
		frame, otherFrame := f.media.Frames[3], f.media.Frames[4]

		_ = f.ctrl.Navigate(3)
		synctest.Wait()
		if got := frame.Source(); got != media.WithMute(embedSrc, false) {
			t.Errorf("active source = %q, want mute=0", got)
		}

		_ = f.ctrl.Navigate(0)
		synctest.Wait()
		if got := frame.Source(); got != embedSrc {
			t.Errorf("source after leaving = %q, want mute=1", got)
		}
		if len(otherFrame.Writes()) != 0 || otherFrame.Source() != other {
			t.Errorf("untouched frame was rewritten: %v", otherFrame.Writes())
		}
	})
}

func TestController_EmbeddedStateChannel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.EmbeddedPlayer, Source: embedSrc},
			{Kind: slide.Image, Source: "c.jpg"},
		}
		f := start(t, descs, Options{GraceDelay: time.Second})

		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.EmbedReady(1)
		_ = f.ctrl.EmbedState(1, media.EmbedBuffering)
		_ = f.ctrl.EmbedState(1, media.EmbedPlaying)
		synctest.Wait()
		if !f.ctrl.Snapshot().PlaybackActive {
			t.Fatal("embedded playing state should mark playback active")
		}

		_ = f.ctrl.EmbedState(1, media.EmbedEnded)
		time.Sleep(time.Second)
		synctest.Wait()
		if f.index() != 2 {
			t.Errorf("index = %d, want 2", f.index())
		}
	})
}

func TestController_LateEmbedReadyIsHarmless(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.EmbeddedPlayer, Source: embedSrc},
			{Kind: slide.Image, Source: "b.jpg"},
		}
		f := start(t, descs, Options{})

		// Without a channel the embed behaves like an image.
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("autoplay should run for an unconnected embed")
		}
		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.EmbedReady(0)
		synctest.Wait()
		if f.index() != 1 || !f.ctrl.Snapshot().AutoplayRunning {
			t.Errorf("Snapshot() = %+v", f.ctrl.Snapshot())
		}
	})
}

func TestController_WaitPolicyVideoFirstHoldsAutoplay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.LocalVideo, Source: "a.mp4"},
			{Kind: slide.Image, Source: "b.jpg"},
		}
		f := start(t, descs, Options{Policy: PolicyWait})
		if f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("autoplay should wait for the first video")
		}

		_ = f.ctrl.MediaEvent(0, media.Rejected)
		synctest.Wait()
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("rejected playback should fall back to the timer")
		}

		time.Sleep(interval)
		synctest.Wait()
		if f.index() != 1 {
			t.Errorf("index = %d, want 1", f.index())
		}
	})
}

func TestController_WaitPolicyFirstVideoRefusedUsesTimer(t *testing.T) {
	descs := []slide.Descriptor{
		{Kind: slide.LocalVideo, Source: "a.mp4"},
		{Kind: slide.Image, Source: "b.jpg"},
	}
	tests := []struct {
		name    string
		prepare func(*media.Mock)
	}{
		{"play refused", func(ms *media.Mock) {
			ms.Videos[0].SetPlayError(errors.New("NotAllowedError"))
		}},
		{"element missing", func(ms *media.Mock) {
			delete(ms.Videos, 0)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			synctest.Test(t, func(t *testing.T) {
				f := startWith(t, descs, Options{Policy: PolicyWait}, tt.prepare)
				if !f.ctrl.Snapshot().AutoplayRunning {
					t.Fatal("autoplay should run when the first video cannot play")
				}

				time.Sleep(interval)
				synctest.Wait()
				if f.index() != 1 {
					t.Errorf("index = %d, want 1", f.index())
				}
			})
		})
	}
}

func TestController_ReselectingPlayingVideoKeepsHold(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
			{Kind: slide.Image, Source: "c.jpg"},
		}
		f := start(t, descs, Options{Policy: PolicyWait})
		video := f.media.Videos[1]

		_ = f.ctrl.Navigate(1)
		_ = f.ctrl.MediaEvent(1, media.Started)
		synctest.Wait()

		_ = f.ctrl.Navigate(1)
		synctest.Wait()
		s := f.ctrl.Snapshot()
		if !s.PlaybackActive || s.AutoplayRunning {
			t.Fatalf("after reselect: %+v, want playback held", s)
		}

		time.Sleep(3 * interval)
		synctest.Wait()
		if f.index() != 1 || !video.Playing {
			t.Errorf("index = %d playing = %v, want the video left playing", f.index(), video.Playing)
		}
		f.assertSingleActive(t, 1)

		// Once it pauses the timer takes over again.
		_ = f.ctrl.MediaEvent(1, media.Paused)
		synctest.Wait()
		time.Sleep(interval)
		synctest.Wait()
		if f.index() != 2 {
			t.Errorf("index after pause = %d, want 2", f.index())
		}
	})
}

func TestController_ReselectingAfterEndCancelsGrace(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.LocalVideo, Source: "a.mp4"},
			{Kind: slide.Image, Source: "b.jpg"},
		}
		f := start(t, descs, Options{Policy: PolicyWait, GraceDelay: time.Second})

		_ = f.ctrl.MediaEvent(0, media.Started)
		_ = f.ctrl.MediaEvent(0, media.Ended)
		synctest.Wait()
		_ = f.ctrl.Navigate(0)
		synctest.Wait()

		time.Sleep(time.Second)
		synctest.Wait()
		if f.index() != 0 {
			t.Fatalf("grace advance fired after reselect, index = %d", f.index())
		}
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("autoplay should run after the video ended")
		}
		time.Sleep(interval)
		synctest.Wait()
		if f.index() != 1 {
			t.Errorf("index = %d, want 1", f.index())
		}
	})
}

func TestController_InactiveMediaEventIgnored(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.Image, Source: "a.jpg"},
			{Kind: slide.LocalVideo, Source: "b.mp4"},
		}
		f := start(t, descs, Options{})

		_ = f.ctrl.MediaEvent(1, media.Started)
		synctest.Wait()
		s := f.ctrl.Snapshot()
		if s.PlaybackActive || !s.AutoplayRunning {
			t.Errorf("Snapshot() = %+v, event from inactive slide should be ignored", s)
		}
	})
}

func TestController_ManualPauseWinsOverMediaPause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		descs := []slide.Descriptor{
			{Kind: slide.LocalVideo, Source: "a.mp4"},
			{Kind: slide.Image, Source: "b.jpg"},
		}
		f := start(t, descs, Options{Policy: PolicyAlways})

		_ = f.ctrl.TogglePause()
		_ = f.ctrl.MediaEvent(0, media.Started)
		_ = f.ctrl.MediaEvent(0, media.Paused)
		synctest.Wait()
		s := f.ctrl.Snapshot()
		if !s.ManuallyPaused || s.AutoplayRunning {
			t.Fatalf("Snapshot() = %+v, want manually paused and stopped", s)
		}

		_ = f.ctrl.TogglePause()
		synctest.Wait()
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Error("autoplay should resume after unpausing")
		}
	})
}

func TestController_HoverSuspends(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(4), Options{})

		_ = f.ctrl.Hint(PointerEnter)
		synctest.Wait()
		time.Sleep(3 * interval)
		synctest.Wait()
		if f.index() != 0 {
			t.Fatalf("advanced to %d while hovered", f.index())
		}

		_ = f.ctrl.Hint(PointerLeave)
		synctest.Wait()
		time.Sleep(interval)
		synctest.Wait()
		if f.index() != 1 {
			t.Errorf("index = %d, want 1", f.index())
		}
	})
}

func TestController_TouchResumesAfterDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(4), Options{TouchResumeDelay: 2 * time.Second})

		_ = f.ctrl.Hint(TouchStart)
		_ = f.ctrl.Hint(TouchEnd)
		synctest.Wait()
		if f.ctrl.Snapshot().AutoplayRunning {
			t.Fatal("autoplay should stay suspended right after touch end")
		}

		time.Sleep(2 * time.Second)
		synctest.Wait()
		if !f.ctrl.Snapshot().AutoplayRunning {
			t.Error("autoplay should resume after the touch delay")
		}
	})
}

func TestController_KeysOnlyInView(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(4), Options{})

		_ = f.ctrl.Key(KeyRight, false)
		synctest.Wait()
		if f.index() != 0 {
			t.Fatalf("out-of-view key moved to %d", f.index())
		}

		_ = f.ctrl.Key(KeyRight, true)
		_ = f.ctrl.Key(KeyRight, true)
		_ = f.ctrl.Key(KeyLeft, true)
		synctest.Wait()
		if f.index() != 1 {
			t.Errorf("index = %d, want 1", f.index())
		}
	})
}

func TestController_NavigateOutOfRange(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(3), Options{})

		for _, i := range []int{-1, 3, 100} {
			if err := f.ctrl.Navigate(i); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("Navigate(%d) error = %v, want ErrOutOfRange", i, err)
			}
		}
		synctest.Wait()
		if f.index() != 0 {
			t.Errorf("index = %d, want 0", f.index())
		}
	})
}

func TestController_StartIndex(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(5), Options{StartIndex: 3})
		if f.index() != 3 {
			t.Errorf("index = %d, want 3", f.index())
		}
		f.assertSingleActive(t, 3)
	})
}

func TestController_SubscriptionAndClose(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		f := start(t, images(3), Options{})
		sub := f.ctrl.Subscribe()

		_ = f.ctrl.Navigate(2)
		synctest.Wait()

		select {
		case e := <-sub.SlideChanged:
			if e.PreviousIndex != 0 || e.Index != 2 {
				t.Errorf("SlideChange = %+v, want 0 -> 2", e)
			}
		default:
			t.Fatal("no SlideChange received")
		}

		select {
		case e := <-sub.StateChanged:
			if e.State.Index != 2 || !e.State.AutoplayRunning {
				t.Errorf("StateChange = %+v, want index 2 with autoplay running", e)
			}
		default:
			t.Fatal("no StateChange received")
		}

		_ = f.ctrl.TogglePause()
		synctest.Wait()
		select {
		case e := <-sub.StateChanged:
			if !e.State.ManuallyPaused || e.Suspended != autoplay.Manual {
				t.Errorf("StateChange = %+v, want manual pause", e)
			}
		default:
			t.Fatal("no StateChange after TogglePause")
		}

		if err := f.ctrl.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
		<-sub.Done
		if err := f.ctrl.Next(); !errors.Is(err, ErrClosed) {
			t.Errorf("Next() after Close error = %v, want ErrClosed", err)
		}
		if f.ctrl.timer.Running() {
			t.Error("timer should be released on teardown")
		}
	})
}
