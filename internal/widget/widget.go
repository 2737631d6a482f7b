// Package widget defines the UI contract shared by every bar element and the
// generic containers used to compose them. Widgets are Bubble Tea components:
// they are created and mutated only from the program's Update loop.
package widget

import tea "github.com/charmbracelet/bubbletea"

// Widget is a renderable bar element.
type Widget interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View() string
}

// Container is implemented by widgets that hold other widgets.
type Container interface {
	Children() []Widget
}

// Focusable widgets take part in keyboard traversal.
type Focusable interface {
	Widget
	Focus()
	Blur()
	Focused() bool
	Activate() tea.Cmd
}

// Adjustable widgets react to left/right while focused.
type Adjustable interface {
	Focusable
	Adjust(delta int) tea.Cmd
}

// Sizable widgets accept fixed size requests.
type Sizable interface {
	SetWidth(int)
	SetHeight(int)
}

// Walk visits w and every descendant depth-first, in child order.
func Walk(w Widget, fn func(Widget)) {
	if w == nil {
		return
	}
	fn(w)
	if c, ok := w.(Container); ok {
		for _, child := range c.Children() {
			Walk(child, fn)
		}
	}
}

// Focusables collects the focusable widgets under root in visual order.
// Hidden subtrees are skipped.
func Focusables(root Widget) []Focusable {
	var out []Focusable
	var visit func(Widget)
	visit = func(w Widget) {
		if w == nil {
			return
		}
		if h, ok := w.(interface{ IsHidden() bool }); ok && h.IsHidden() {
			return
		}
		if f, ok := w.(Focusable); ok {
			out = append(out, f)
		}
		if c, ok := w.(Container); ok {
			for _, child := range c.Children() {
				visit(child)
			}
		}
	}
	visit(root)
	return out
}
