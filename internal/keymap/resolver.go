package keymap

import "strings"

// Match is the result of resolving a key.
type Match struct {
	Action Action
	// Slot is the zero-based slide index for ActionGoto keys, -1 otherwise.
	Slot int
}

// Resolver maps key strings to actions and builds help labels.
type Resolver struct {
	actions map[string]Action
	slots   map[string]int
	labels  map[Action]string
}

// NewResolver creates a resolver from bindings. Goto keys are numbered in
// the order they are listed, so the first goto key selects slide 0.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		slots:   make(map[string]int),
		labels:  make(map[Action]string),
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			if _, dup := r.actions[key]; dup {
				continue
			}
			r.actions[key] = b.Action
			if b.Action == ActionGoto {
				r.slots[key] = len(r.slots)
			}
		}
		if _, ok := r.labels[b.Action]; !ok {
			r.labels[b.Action] = label(b)
		}
	}
	return r
}

// Resolve returns the match for a key. Unbound keys resolve to an empty
// action.
func (r *Resolver) Resolve(key string) Match {
	m := Match{Action: r.actions[key], Slot: -1}
	if slot, ok := r.slots[key]; ok {
		m.Slot = slot
	}
	return m
}

// Label returns the display form of the keys bound to an action.
func (r *Resolver) Label(action Action) string {
	return r.labels[action]
}

// Slots returns how many slides can be reached directly by key.
func (r *Resolver) Slots() int {
	return len(r.slots)
}

func label(b Binding) string {
	if b.Action == ActionGoto && len(b.Keys) > 1 {
		return b.Keys[0] + "-" + b.Keys[len(b.Keys)-1]
	}
	keys := make([]string, len(b.Keys))
	for i, k := range b.Keys {
		if k == " " {
			k = "space"
		}
		keys[i] = k
	}
	return strings.Join(keys, "/")
}
