package ui

import (
	"fmt"

	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/popup"
	"github.com/atomicstack/modbar/internal/widget"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Next     key.Binding
	Prev     key.Binding
	Activate key.Binding
	Increase key.Binding
	Decrease key.Binding
	Close    key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Prev:     key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous")),
		Activate: key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter", "activate")),
		Increase: key.NewBinding(key.WithKeys("right", "l", "up", "k"), key.WithHelp("→", "increase")),
		Decrease: key.NewBinding(key.WithKeys("left", "h", "down", "j"), key.WithHelp("←", "decrease")),
		Close:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close popup")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		events.App.Stop("quit key")
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(keyMsg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(keyMsg, m.keys.Activate):
		if m.focused == nil {
			return nil
		}
		events.UI.Activate(m.focusIndex(), kindOf(m.focused))
		return m.focused.Activate()
	case key.Matches(keyMsg, m.keys.Increase):
		return m.adjust(1)
	case key.Matches(keyMsg, m.keys.Decrease):
		return m.adjust(-1)
	case key.Matches(keyMsg, m.keys.Close):
		visible, _ := m.popups.Visible()
		m.popups.Close()
		m.restoreFocus(visible)
	}
	return nil
}

func (m *Model) adjust(delta int) tea.Cmd {
	if adjustable, ok := m.focused.(widget.Adjustable); ok {
		return adjustable.Adjust(delta)
	}
	return nil
}

// focusables lists the bar's focusable widgets in visual order followed by
// those of the visible popup.
func (m *Model) focusables() []widget.Focusable {
	var out []widget.Focusable
	for _, section := range m.sections {
		if section == nil {
			continue
		}
		out = append(out, widget.Focusables(section)...)
	}
	if entry, ok := m.popups.Visible(); ok {
		out = append(out, widget.Focusables(entry.Node)...)
	}
	return out
}

func (m *Model) focusIndex() int {
	if m.focused == nil {
		return -1
	}
	for i, f := range m.focusables() {
		if f == m.focused {
			return i
		}
	}
	return -1
}

// moveFocus steps through the focusable widgets, wrapping at both ends.
func (m *Model) moveFocus(delta int) {
	list := m.focusables()
	if len(list) == 0 {
		m.setFocus(nil)
		return
	}
	idx := m.focusIndex()
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(list) - 1
	default:
		idx = (idx + delta%len(list) + len(list)) % len(list)
	}
	m.setFocus(list[idx])
	events.UI.Focus(idx, kindOf(list[idx]))
}

func (m *Model) setFocus(f widget.Focusable) {
	if m.focused != nil && m.focused != f {
		m.focused.Blur()
	}
	m.focused = f
	if f != nil {
		f.Focus()
	}
}

// revalidateFocus drops focus from a widget that is no longer reachable,
// for example one inside a popup that just closed.
func (m *Model) revalidateFocus() {
	if m.focused != nil && m.focusIndex() < 0 {
		m.setFocus(nil)
	}
}

// restoreFocus hands focus back to a trigger of the popup that just closed
// when the focused widget went away with it.
func (m *Model) restoreFocus(closed *popup.Entry) {
	m.revalidateFocus()
	if m.focused != nil || closed == nil {
		return
	}
	if current, ok := m.popups.Visible(); ok && current == closed {
		return
	}
	list := m.focusables()
	for _, trigger := range closed.Triggers {
		f, ok := trigger.(widget.Focusable)
		if !ok {
			continue
		}
		for i, candidate := range list {
			if candidate == f {
				m.setFocus(f)
				events.UI.Focus(i, kindOf(f))
				return
			}
		}
	}
}

// Focused returns the widget holding keyboard focus.
func (m *Model) Focused() widget.Focusable {
	return m.focused
}

func kindOf(w widget.Widget) string {
	return fmt.Sprintf("%T", w)
}
