package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/carousel/internal/carousel"
)

const refreshInterval = 250 * time.Millisecond

type (
	slideChangedMsg    carousel.SlideChange
	autoplayChangedMsg carousel.AutoplayChange
	playbackChangedMsg carousel.PlaybackChange
	stateChangedMsg    carousel.StateChange
	closedMsg          struct{}
	refreshMsg         time.Time
)

// watchEvents waits for the next controller event.
func watchEvents(sub *carousel.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.SlideChanged:
			return slideChangedMsg(e)
		case e := <-sub.AutoplayChanged:
			return autoplayChangedMsg(e)
		case e := <-sub.PlaybackChanged:
			return playbackChangedMsg(e)
		case e := <-sub.StateChanged:
			return stateChangedMsg(e)
		case <-sub.Done:
			return closedMsg{}
		}
	}
}

func refreshCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}
