package keymap

// Binding describes a single key binding.
type Binding struct {
	Action      Action
	Keys        []string
	Description string
	Context     string // "global", "carousel", "simulate"
}

// Bindings contains all key bindings for the preview and its help line.
var Bindings = []Binding{
	// Global
	{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
	{ActionHelp, []string{"?"}, "Toggle help", "global"},

	// Carousel
	{ActionArrowLeft, []string{"left"}, "Previous slide (in view)", "carousel"},
	{ActionArrowRight, []string{"right"}, "Next slide (in view)", "carousel"},
	{ActionPrev, []string{"h", "pgup"}, "Previous slide", "carousel"},
	{ActionNext, []string{"l", "pgdown"}, "Next slide", "carousel"},
	{ActionGoto, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, "Go to slide", "carousel"},
	{ActionTogglePause, []string{" "}, "Pause/resume autoplay", "carousel"},
	{ActionToggleView, []string{"v"}, "Scroll widget in/out of view", "carousel"},

	// Simulated media events for the active slide
	{ActionMediaStarted, []string{"s"}, "Media started", "simulate"},
	{ActionMediaPaused, []string{"p"}, "Media paused", "simulate"},
	{ActionMediaEnded, []string{"e"}, "Media ended", "simulate"},
	{ActionMediaRejected, []string{"x"}, "Autoplay rejected", "simulate"},
	{ActionEmbedReady, []string{"r"}, "Embedded player ready", "simulate"},
	{ActionToggleHover, []string{"o"}, "Pointer over/out", "simulate"},
	{ActionToggleTouch, []string{"t"}, "Touch start/end", "simulate"},
}

// ByContext returns key bindings filtered by context.
func ByContext(context string) []Binding {
	var result []Binding
	for _, kb := range Bindings {
		if kb.Context == context {
			result = append(result, kb)
		}
	}
	return result
}
