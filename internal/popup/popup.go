// Package popup owns the popups of one bar. At most one popup is visible at
// any time. The registry is only touched from the Bubble Tea update loop.
package popup

import (
	"errors"
	"fmt"

	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/widget"
)

// ErrUnknownPopup is returned for ids without a registered popup.
var ErrUnknownPopup = errors.New("no popup registered")

// Entry is a registered popup node and the widgets that summon it.
type Entry struct {
	ID       module.ID
	Node     widget.Widget
	Triggers []widget.Widget
}

// Registry tracks every popup of a bar and which one is visible.
type Registry struct {
	entries map[module.ID]*Entry
	order   []module.ID
	current module.ID
	open    bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[module.ID]*Entry)}
}

// Register records the popup built for module id. The node is kept and
// reused across open/close cycles.
func (r *Registry) Register(id module.ID, node widget.Widget, triggers []widget.Widget) {
	if node == nil {
		return
	}
	if _, exists := r.entries[id]; !exists {
		r.order = append(r.order, id)
	}
	r.entries[id] = &Entry{ID: id, Node: node, Triggers: triggers}
	events.Popup.Register(uint64(id), len(triggers))
}

// Unregister forgets the popup of id, hiding it first when visible.
func (r *Registry) Unregister(id module.ID) {
	if _, ok := r.entries[id]; !ok {
		return
	}
	if r.open && r.current == id {
		r.Close()
	}
	delete(r.entries, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	events.Popup.Unregister(uint64(id))
}

// Open hides the visible popup, whichever it is, then shows id's popup.
// Unknown ids leave the current state untouched.
func (r *Registry) Open(id module.ID) error {
	if _, ok := r.entries[id]; !ok {
		events.Popup.Unknown(uint64(id))
		return fmt.Errorf("open popup %d: %w", id, ErrUnknownPopup)
	}
	r.Close()
	r.current = id
	r.open = true
	events.Popup.Open(uint64(id))
	metrics.PopupTransition("open")
	return nil
}

// Close hides the visible popup. Closing with nothing open does nothing.
func (r *Registry) Close() {
	if !r.open {
		return
	}
	closed := r.current
	r.open = false
	r.current = 0
	events.Popup.Close(uint64(closed))
	metrics.PopupTransition("close")
}

// Toggle opens id's popup unless it is the visible one, in which case it
// closes it.
func (r *Registry) Toggle(id module.ID) error {
	if r.IsOpen(id) {
		r.Close()
		return nil
	}
	return r.Open(id)
}

// IsOpen reports whether id's popup is the visible one.
func (r *Registry) IsOpen(id module.ID) bool {
	return r.open && r.current == id
}

// Visible returns the visible popup, if any.
func (r *Registry) Visible() (*Entry, bool) {
	if !r.open {
		return nil, false
	}
	entry, ok := r.entries[r.current]
	return entry, ok
}

// Get returns the entry registered for id.
func (r *Registry) Get(id module.ID) (*Entry, bool) {
	entry, ok := r.entries[id]
	return entry, ok
}

// Entries returns the registered popups in registration order.
func (r *Registry) Entries() []*Entry {
	out := make([]*Entry, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.entries[id])
	}
	return out
}

// Apply performs a popup event raised by a controller.
func (r *Registry) Apply(ev module.Event) error {
	switch e := ev.(type) {
	case module.OpenPopup:
		return r.Open(e.ID)
	case module.TogglePopup:
		return r.Toggle(e.ID)
	case module.ClosePopup:
		r.Close()
		return nil
	default:
		return fmt.Errorf("unsupported popup event %s", ev)
	}
}
