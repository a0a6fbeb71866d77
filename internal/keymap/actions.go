// Package keymap defines key bindings and action dispatch for the preview.
package keymap

// Action represents a user-triggerable action.
type Action string

const (
	// Global actions
	ActionQuit Action = "quit"
	ActionHelp Action = "help"

	// Carousel navigation
	ActionNext        Action = "next"
	ActionPrev        Action = "prev"
	ActionArrowLeft   Action = "arrow_left"  // keyboard navigation, honors in-view
	ActionArrowRight  Action = "arrow_right" // keyboard navigation, honors in-view
	ActionGoto        Action = "goto"        // 1-9, the key is the slide number
	ActionTogglePause Action = "toggle_pause"
	ActionToggleView  Action = "toggle_view" // move the widget in or out of view

	// Simulated media and pointer input
	ActionMediaStarted  Action = "media_started"
	ActionMediaPaused   Action = "media_paused"
	ActionMediaEnded    Action = "media_ended"
	ActionMediaRejected Action = "media_rejected"
	ActionEmbedReady    Action = "embed_ready"
	ActionToggleHover   Action = "toggle_hover"
	ActionToggleTouch   Action = "toggle_touch"
)
