package keymap

import "testing"

func TestResolver_Resolve(t *testing.T) {
	bindings := []Binding{
		{ActionQuit, []string{"q", "ctrl+c"}, "Quit", "global"},
		{ActionTogglePause, []string{" "}, "Pause", "carousel"},
		{ActionPrev, []string{"h", "pgup"}, "Previous", "carousel"},
		{ActionGoto, []string{"1", "2", "3"}, "Go to slide", "carousel"},
	}

	r := NewResolver(bindings)

	tests := []struct {
		key    string
		action Action
		slot   int
	}{
		{"q", ActionQuit, -1},
		{"ctrl+c", ActionQuit, -1},
		{" ", ActionTogglePause, -1},
		{"pgup", ActionPrev, -1},
		{"1", ActionGoto, 0},
		{"3", ActionGoto, 2},
		{"4", "", -1},
		{"", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got := r.Resolve(tt.key)
			if got.Action != tt.action || got.Slot != tt.slot {
				t.Errorf("Resolve(%q) = %+v, want {%q %d}", tt.key, got, tt.action, tt.slot)
			}
		})
	}
}

func TestResolver_FirstBindingWins(t *testing.T) {
	r := NewResolver([]Binding{
		{ActionNext, []string{"l"}, "Next", "carousel"},
		{ActionMediaEnded, []string{"l", "e"}, "Ended", "simulate"},
	})

	if got := r.Resolve("l").Action; got != ActionNext {
		t.Errorf("Resolve(l) = %q, want %q", got, ActionNext)
	}
	if got := r.Resolve("e").Action; got != ActionMediaEnded {
		t.Errorf("Resolve(e) = %q, want %q", got, ActionMediaEnded)
	}
}

func TestResolver_Label(t *testing.T) {
	r := NewResolver(Bindings)

	tests := []struct {
		action Action
		want   string
	}{
		{ActionQuit, "q/ctrl+c"},
		{ActionTogglePause, "space"},
		{ActionPrev, "h/pgup"},
		{ActionGoto, "1-9"},
		{Action("unknown"), ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			if got := r.Label(tt.action); got != tt.want {
				t.Errorf("Label(%q) = %q, want %q", tt.action, got, tt.want)
			}
		})
	}
}

func TestResolver_WithGlobalBindings(t *testing.T) {
	r := NewResolver(Bindings)

	if got := r.Slots(); got != 9 {
		t.Errorf("Slots() = %d, want 9", got)
	}
	if m := r.Resolve("left"); m.Action != ActionArrowLeft {
		t.Errorf("Resolve(left) = %q, want %q", m.Action, ActionArrowLeft)
	}
	if m := r.Resolve("7"); m.Action != ActionGoto || m.Slot != 6 {
		t.Errorf("Resolve(7) = %+v, want goto slot 6", m)
	}
}

func TestResolver_EmptyBindings(t *testing.T) {
	r := NewResolver(nil)

	if m := r.Resolve("q"); m.Action != "" || m.Slot != -1 {
		t.Errorf("Resolve on empty resolver = %+v", m)
	}
	if l := r.Label(ActionQuit); l != "" {
		t.Errorf("Label on empty resolver = %q", l)
	}
}
