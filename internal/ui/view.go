package ui

import (
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/widget"
	"github.com/charmbracelet/lipgloss"
)

// View renders the bar and, next to it, the visible popup.
func (m *Model) View() string {
	bar := m.renderBar()
	if m.errMsg != "" {
		bar = m.join(bar, styles.Error.Render(m.errMsg))
	}
	entry, ok := m.popups.Visible()
	if !ok {
		return bar
	}
	popup := styles.Popup.Render(entry.Node.View())
	switch m.info.Position {
	case module.Bottom:
		return lipgloss.JoinVertical(lipgloss.Left, popup, bar)
	case module.Left:
		return lipgloss.JoinHorizontal(lipgloss.Top, bar, popup)
	case module.Right:
		return lipgloss.JoinHorizontal(lipgloss.Top, popup, bar)
	default:
		return lipgloss.JoinVertical(lipgloss.Left, bar, popup)
	}
}

// renderBar lays the start, center and end sections out along the bar's
// axis. Without a known size the sections are simply concatenated.
func (m *Model) renderBar() string {
	views := [sectionCount]string{}
	for i, section := range m.sections {
		if section != nil {
			views[i] = section.View()
		}
	}
	vertical := m.info.Orientation() == widget.Vertical
	length := m.width
	if vertical {
		length = m.height
	}
	if length <= 0 {
		return styles.Bar.Render(m.join(views[sectionStart], views[sectionCenter], views[sectionEnd]))
	}

	third := length / 3
	middle := length - 2*third
	if vertical {
		return styles.Bar.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.PlaceVertical(third, lipgloss.Top, views[sectionStart]),
			lipgloss.PlaceVertical(middle, lipgloss.Center, views[sectionCenter]),
			lipgloss.PlaceVertical(third, lipgloss.Bottom, views[sectionEnd]),
		))
	}
	return styles.Bar.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.PlaceHorizontal(third, lipgloss.Left, views[sectionStart]),
		lipgloss.PlaceHorizontal(middle, lipgloss.Center, views[sectionCenter]),
		lipgloss.PlaceHorizontal(third, lipgloss.Right, views[sectionEnd]),
	))
}

func (m *Model) join(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if m.info.Orientation() == widget.Vertical {
		return lipgloss.JoinVertical(lipgloss.Left, nonEmpty...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, nonEmpty...)
}
