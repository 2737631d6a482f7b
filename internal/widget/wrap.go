package widget

import (
	"strings"

	"github.com/atomicstack/modbar/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
)

// CommonConfig holds the presentation options shared by every module and
// widget kind. It is flattened into each configuration variant.
type CommonConfig struct {
	Name    string `yaml:"name,omitempty"`
	Class   string `yaml:"class,omitempty"`
	Visible *bool  `yaml:"visible,omitempty"`
	Length  int    `yaml:"length,omitempty"`
}

// IsVisible reports the configured visibility, defaulting to shown.
func (c CommonConfig) IsVisible() bool {
	return c.Visible == nil || *c.Visible
}

// Classes splits the class attribute on whitespace.
func (c CommonConfig) Classes() []string {
	return strings.Fields(c.Class)
}

// Wrapped decorates a widget with identifiers, classes, visibility and a
// fixed size.
type Wrapped struct {
	Inner   Widget
	Name    string
	Classes []string
	hidden  bool
	width   int
	height  int
}

// Wrap applies common to w. The length is interpreted against the bar
// orientation.
func Wrap(w Widget, common CommonConfig, bar Orientation) *Wrapped {
	wrapped := &Wrapped{
		Inner:   w,
		Name:    common.Name,
		Classes: common.Classes(),
		hidden:  !common.IsVisible(),
	}
	SetLength(wrapped, common.Length, bar)
	return wrapped
}

func (w *Wrapped) SetWidth(n int)  { w.width = n }
func (w *Wrapped) SetHeight(n int) { w.height = n }

// Size returns the fixed width and height; zero means unconstrained.
func (w *Wrapped) Size() (int, int) { return w.width, w.height }

func (w *Wrapped) SetHidden(hidden bool) { w.hidden = hidden }
func (w *Wrapped) IsHidden() bool        { return w.hidden }

func (w *Wrapped) Children() []Widget {
	return []Widget{w.Inner}
}

func (w *Wrapped) Init() tea.Cmd {
	return w.Inner.Init()
}

func (w *Wrapped) Update(msg tea.Msg) tea.Cmd {
	return w.Inner.Update(msg)
}

func (w *Wrapped) View() string {
	if w.hidden {
		return ""
	}
	style := theme.Default().Module.Copy()
	for _, class := range w.Classes {
		if extra, ok := theme.Class(class); ok {
			style = style.Inherit(extra)
		}
	}
	if w.width > 0 {
		style = style.Width(w.width).MaxWidth(w.width)
	}
	if w.height > 0 {
		style = style.Height(w.height).MaxHeight(w.height)
	}
	return style.Render(w.Inner.View())
}
