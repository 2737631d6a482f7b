package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the bar.
type Styles struct {
	Bar           *lipgloss.Style
	Section       *lipgloss.Style
	Module        *lipgloss.Style
	Label         *lipgloss.Style
	Button        *lipgloss.Style
	FocusedButton *lipgloss.Style
	Image         *lipgloss.Style
	SliderTrack   *lipgloss.Style
	SliderKnob    *lipgloss.Style
	Popup         *lipgloss.Style
	Error         *lipgloss.Style
}

var defaultStyles = Styles{
	Bar: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("235")),
	),
	Section: ptr(
		lipgloss.NewStyle(),
	),
	Module: ptr(
		lipgloss.NewStyle().Padding(0, 1),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Button: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	FocusedButton: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("33")).Bold(true),
	),
	Image: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	),
	SliderTrack: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	SliderKnob: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Popup: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("33")).Padding(0, 1),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
}

// classStyles maps configuration classes to extra styling layered over a
// widget's base style.
var classStyles = map[string]lipgloss.Style{
	"bold":    lipgloss.NewStyle().Bold(true),
	"dim":     lipgloss.NewStyle().Faint(true),
	"italic":  lipgloss.NewStyle().Italic(true),
	"warning": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"urgent":  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	"accent":  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

// Class returns the style registered for a configuration class.
func Class(name string) (lipgloss.Style, bool) {
	style, ok := classStyles[name]
	return style, ok
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
