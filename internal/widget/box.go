package widget

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Box lays out its children in insertion order along one axis.
type Box struct {
	Orientation Orientation
	children    []Widget
}

// NewBox returns an empty container.
func NewBox(o Orientation) *Box {
	return &Box{Orientation: o}
}

// Add appends w after the existing children.
func (b *Box) Add(w Widget) {
	if w == nil {
		return
	}
	b.children = append(b.children, w)
}

// Children returns the children in visual order.
func (b *Box) Children() []Widget {
	return b.children
}

// Len reports the number of children.
func (b *Box) Len() int {
	return len(b.children)
}

func (b *Box) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(b.children))
	for _, child := range b.children {
		if cmd := child.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return batch(cmds)
}

func (b *Box) Update(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(b.children))
	for _, child := range b.children {
		if cmd := child.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return batch(cmds)
}

func (b *Box) View() string {
	views := make([]string, 0, len(b.children))
	for _, child := range b.children {
		if v := child.View(); v != "" {
			views = append(views, v)
		}
	}
	if len(views) == 0 {
		return ""
	}
	if b.Orientation == Vertical {
		return lipgloss.JoinVertical(lipgloss.Left, views...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, views...)
}

func batch(cmds []tea.Cmd) tea.Cmd {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}
