package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/carousel/internal/keymap"
	"github.com/llehouerou/carousel/internal/slide"
)

func (m Model) View() string {
	if m.closed {
		return ""
	}

	slides, counter := m.surface.State()

	sections := []string{
		m.renderHeader(len(slides)),
		m.renderDots(slides, counter),
		m.renderActive(slides),
		m.renderStatus(),
		m.renderLog(),
	}
	body := frameStyle.Render(strings.Join(sections, "\n"))
	return body + "\n" + m.renderHelp() + "\n"
}

func (m Model) renderHeader(total int) string {
	title := m.title
	if title == "" {
		title = "Carousel"
	}
	info := fmt.Sprintf("%d slides · policy %s · every %s", total, m.ctrl.Policy(), m.ctrl.Interval())
	return titleStyle.Render(title) + "  " + mutedStyle.Render(info)
}

func (m Model) renderDots(slides []SlideState, counter string) string {
	dots := make([]string, len(slides))
	for i, s := range slides {
		if s.Dot {
			dots[i] = dotOnStyle.Render("●")
		} else {
			dots[i] = dotOffStyle.Render("○")
		}
	}
	return strings.Join(dots, " ") + "   " + counter + " / " + strconv.Itoa(len(slides))
}

func (m Model) renderActive(slides []SlideState) string {
	var active *SlideState
	for i := range slides {
		if slides[i].Active {
			active = &slides[i]
			break
		}
	}
	if active == nil {
		return subtleStyle.Render("(no active slide)")
	}

	title := active.Title
	if title == "" {
		title = "untitled"
	}
	line := fmt.Sprintf("[%s] %s", active.Kind, title)

	var info []string
	switch active.Kind {
	case slide.LocalVideo:
		if active.Playing {
			info = append(info, runningStyle.Render("playing"))
		} else {
			info = append(info, "stopped")
		}
		info = append(info, mutedText(active.Muted))
	case slide.EmbeddedPlayer:
		info = append(info, mutedText(active.Muted))
	}

	src := subtleStyle.Render(active.Source)
	if len(info) > 0 {
		src += "  " + strings.Join(info, " · ")
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, src)
}

func mutedText(muted bool) string {
	if muted {
		return "muted"
	}
	return "sound on"
}

func (m Model) renderStatus() string {
	var auto string
	switch {
	case m.state.AutoplayRunning && !m.deadline.IsZero():
		next := humanize.RelTime(m.deadline, m.now(), "ago", "from now")
		auto = runningStyle.Render("autoplay running") + mutedStyle.Render(", next slide "+next)
	case m.state.AutoplayRunning:
		auto = runningStyle.Render("autoplay running")
	case m.reason != 0:
		auto = waitStyle.Render("autoplay suspended (" + m.reason.String() + ")")
	default:
		auto = waitStyle.Render("autoplay stopped")
	}

	flags := []string{
		onOff("in view", m.inView),
		onOff("pointer over", m.hovering),
		onOff("touching", m.touching),
		onOff("paused", m.state.ManuallyPaused),
	}
	return auto + "\n" + mutedStyle.Render(strings.Join(flags, " · "))
}

func onOff(label string, on bool) string {
	if on {
		return label + ": yes"
	}
	return label + ": no"
}

func (m Model) renderLog() string {
	if len(m.log) == 0 {
		return subtleStyle.Render("no events yet")
	}
	lines := make([]string, len(m.log))
	for i, l := range m.log {
		if strings.Contains(l, "error:") {
			lines[i] = errorStyle.Render(l)
		} else {
			lines[i] = subtleStyle.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	contexts := []string{"carousel"}
	if m.showHelp {
		contexts = []string{"global", "carousel", "simulate"}
	}

	var parts []string
	for _, ctx := range contexts {
		for _, b := range keymap.ByContext(ctx) {
			k := m.keys.Label(b.Action)
			parts = append(parts, keyStyle.Render(k)+" "+mutedStyle.Render(b.Description))
		}
	}
	if !m.showHelp {
		parts = append(parts, keyStyle.Render("?")+" "+mutedStyle.Render("more"))
	}
	return strings.Join(parts, "  ")
}
