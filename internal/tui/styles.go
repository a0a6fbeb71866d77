package tui

import "github.com/charmbracelet/lipgloss"

var (
	primary = lipgloss.Color("#a78bfa")
	muted   = lipgloss.Color("#808080")
	subtle  = lipgloss.Color("#585858")
	success = lipgloss.Color("#42b883")
	warning = lipgloss.Color("#f1a208")
	danger  = lipgloss.Color("#ff5555")
)

var (
	frameStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)

	titleStyle   = lipgloss.NewStyle().Foreground(primary).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	subtleStyle  = lipgloss.NewStyle().Foreground(subtle)
	dotOnStyle   = lipgloss.NewStyle().Foreground(primary)
	dotOffStyle  = lipgloss.NewStyle().Foreground(subtle)
	runningStyle = lipgloss.NewStyle().Foreground(success)
	waitStyle    = lipgloss.NewStyle().Foreground(warning)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
	keyStyle     = lipgloss.NewStyle().Foreground(primary).Bold(true)
)
