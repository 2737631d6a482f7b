package custom

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/reflow/truncate"
)

// Widget is a primitive widget description. The set of kinds is closed.
type Widget interface {
	Kind() string
	build(ctx *WidgetContext) (widget.Widget, error)
}

// WidgetContext is shared by every node while one custom group is built.
// It is owned by the builder alone, so triggers are appended without
// locking.
type WidgetContext struct {
	App            *module.App
	ID             module.ID
	Info           module.Info
	Popups         module.Popups
	Tx             *module.Sender[command.ExecEvent]
	BarOrientation widget.Orientation
	Icons          *theme.Icons

	// PopupTriggers collects the buttons built so far, which the popup
	// subsystem uses to open the group's popup.
	PopupTriggers []widget.Widget

	own func(interface{ Close() })
}

func (c *WidgetContext) context() context.Context {
	if c.App == nil {
		return context.Background()
	}
	return c.App.Context()
}

func (c *WidgetContext) send(cmd string, args ...string) {
	if cmd == "" || c.Tx == nil {
		return
	}
	// Drops are already logged and counted by the sender.
	_ = c.Tx.TrySend(command.ExecEvent{Cmd: cmd, Args: args, ID: c.ID})
}

// BoxWidget nests further widgets along its own axis.
type BoxWidget struct {
	Orientation string
	Widgets     []WidgetConfig
}

func (*BoxWidget) Kind() string { return "box" }

func (b *BoxWidget) build(ctx *WidgetContext) (widget.Widget, error) {
	orientation := widget.Horizontal
	if b.Orientation != "" {
		parsed, err := widget.ParseOrientation(b.Orientation)
		if err != nil {
			return nil, err
		}
		orientation = parsed
	}
	box := widget.NewBox(orientation)
	for _, child := range b.Widgets {
		child.addTo(box, ctx)
	}
	return box, nil
}

// LabelWidget shows fixed text.
type LabelWidget struct {
	Label    string `yaml:"label"`
	Truncate uint   `yaml:"truncate"`
}

func (*LabelWidget) Kind() string { return "label" }

func (l *LabelWidget) build(*WidgetContext) (widget.Widget, error) {
	text := l.Label
	if l.Truncate > 0 {
		text = truncate.StringWithTail(text, l.Truncate, "…")
	}
	return &Label{Text: text}, nil
}

// Label renders static text.
type Label struct {
	Text string
}

func (*Label) Init() tea.Cmd          { return nil }
func (*Label) Update(tea.Msg) tea.Cmd { return nil }

func (l *Label) View() string {
	return theme.Default().Label.Render(l.Text)
}

// ButtonWidget sends a command when activated.
type ButtonWidget struct {
	Label   string `yaml:"label"`
	OnClick string `yaml:"on_click"`
}

func (*ButtonWidget) Kind() string { return "button" }

func (b *ButtonWidget) build(ctx *WidgetContext) (widget.Widget, error) {
	button := &Button{Label: b.Label, OnClick: b.OnClick, send: ctx.send}
	ctx.PopupTriggers = append(ctx.PopupTriggers, button)
	return button, nil
}

// Button is a focusable element that forwards its command to the
// controller.
type Button struct {
	Label   string
	OnClick string

	focused bool
	send    func(cmd string, args ...string)
}

func (*Button) Init() tea.Cmd          { return nil }
func (*Button) Update(tea.Msg) tea.Cmd { return nil }

func (b *Button) Focus()        { b.focused = true }
func (b *Button) Blur()         { b.focused = false }
func (b *Button) Focused() bool { return b.focused }

// Activate never blocks: a full channel drops the click.
func (b *Button) Activate() tea.Cmd {
	if b.send != nil {
		b.send(b.OnClick)
	}
	return nil
}

func (b *Button) View() string {
	styles := theme.Default()
	if b.focused {
		return styles.FocusedButton.Render(b.Label)
	}
	return styles.Button.Render(b.Label)
}

// ImageWidget shows an icon from the theme, or its name when the theme has
// no match.
type ImageWidget struct {
	Src string `yaml:"src"`
}

func (*ImageWidget) Kind() string { return "image" }

func (i *ImageWidget) build(ctx *WidgetContext) (widget.Widget, error) {
	name := strings.TrimPrefix(i.Src, "icon:")
	glyph, ok := ctx.Icons.Lookup(name)
	if !ok {
		glyph = "[" + name + "]"
	}
	return &Image{Glyph: glyph}, nil
}

// Image renders a single glyph.
type Image struct {
	Glyph string
}

func (*Image) Init() tea.Cmd          { return nil }
func (*Image) Update(tea.Msg) tea.Cmd { return nil }

func (i *Image) View() string {
	return theme.Default().Image.Render(i.Glyph)
}

// SliderWidget adjusts a value and reports every change.
type SliderWidget struct {
	Orientation string  `yaml:"orientation"`
	Min         float64 `yaml:"min"`
	Max         float64 `yaml:"max"`
	Step        float64 `yaml:"step"`
	Value       float64 `yaml:"value"`
	Length      int     `yaml:"length"`
	OnChange    string  `yaml:"on_change"`
}

func (*SliderWidget) Kind() string { return "slider" }

const defaultSliderLength = 10

func (s *SliderWidget) build(ctx *WidgetContext) (widget.Widget, error) {
	orientation := widget.Horizontal
	if s.Orientation != "" {
		parsed, err := widget.ParseOrientation(s.Orientation)
		if err != nil {
			return nil, err
		}
		orientation = parsed
	}
	lo, hi := s.Min, s.Max
	if hi <= lo {
		lo, hi = 0, 100
	}
	step := s.Step
	if step <= 0 {
		step = (hi - lo) / 20
	}
	length := s.Length
	if length <= 0 {
		length = defaultSliderLength
	}
	slider := &Slider{
		Orientation: orientation,
		Min:         lo,
		Max:         hi,
		Step:        step,
		Length:      length,
		OnChange:    s.OnChange,
		send:        ctx.send,
	}
	slider.Value = slider.clamp(s.Value)
	return slider, nil
}

// Slider is an adjustable value between Min and Max.
type Slider struct {
	Orientation widget.Orientation
	Min, Max    float64
	Step        float64
	Value       float64
	Length      int
	OnChange    string

	focused bool
	send    func(cmd string, args ...string)
}

func (*Slider) Init() tea.Cmd          { return nil }
func (*Slider) Update(tea.Msg) tea.Cmd { return nil }

func (s *Slider) Focus()            { s.focused = true }
func (s *Slider) Blur()             { s.focused = false }
func (s *Slider) Focused() bool     { return s.focused }
func (s *Slider) Activate() tea.Cmd { return nil }

// Adjust moves the value by delta steps and sends the new value as the
// last argument of OnChange.
func (s *Slider) Adjust(delta int) tea.Cmd {
	next := s.clamp(s.Value + float64(delta)*s.Step)
	if next == s.Value {
		return nil
	}
	s.Value = next
	if s.send != nil {
		s.send(s.OnChange, strconv.FormatFloat(next, 'f', -1, 64))
	}
	return nil
}

func (s *Slider) clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

func (s *Slider) View() string {
	styles := theme.Default()
	knob := 0
	if span := s.Max - s.Min; span > 0 && s.Length > 1 {
		knob = int((s.Value - s.Min) / span * float64(s.Length-1))
	}
	track, mark := "─", "●"
	if s.Orientation == widget.Vertical {
		track = "│"
	}
	if s.focused {
		mark = "◉"
	}
	cells := make([]string, s.Length)
	for i := range cells {
		if i == knob {
			cells[i] = styles.SliderKnob.Render(mark)
			continue
		}
		cells[i] = styles.SliderTrack.Render(track)
	}
	if s.Orientation == widget.Vertical {
		// Highest values sit at the top.
		for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
			cells[i], cells[j] = cells[j], cells[i]
		}
		return strings.Join(cells, "\n")
	}
	return strings.Join(cells, "")
}

// ProgressWidget polls a shell command for a number and shows it as a bar.
type ProgressWidget struct {
	Value    string  `yaml:"value"`
	Max      float64 `yaml:"max"`
	Length   int     `yaml:"length"`
	Interval int     `yaml:"interval"`
}

func (*ProgressWidget) Kind() string { return "progress" }

const (
	defaultProgressLength   = 10
	defaultProgressInterval = 5 * time.Second
)

func (p *ProgressWidget) build(ctx *WidgetContext) (widget.Widget, error) {
	limit := p.Max
	if limit <= 0 {
		limit = 100
	}
	length := p.Length
	if length <= 0 {
		length = defaultProgressLength
	}
	interval := defaultProgressInterval
	if p.Interval > 0 {
		interval = time.Duration(p.Interval) * time.Millisecond
	}
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(length))
	out := &Progress{Max: limit, Interval: interval, bar: bar, ctx: ctx.context()}
	if strings.TrimSpace(p.Value) != "" {
		source := command.Shell(p.Value)
		out.source = &source
	}
	return out, nil
}

// progressSample carries one poll result back to the widget that asked.
type progressSample struct {
	target *Progress
	value  float64
	err    error
}

type progressTick struct {
	target *Progress
}

// Progress renders a fraction of Max. The value is refreshed off the
// update loop by running its source on every tick.
type Progress struct {
	Max      float64
	Interval time.Duration
	Percent  float64

	bar    progress.Model
	source *command.Script
	ctx    context.Context
}

func (p *Progress) Init() tea.Cmd {
	return p.poll()
}

func (p *Progress) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case progressSample:
		if msg.target != p {
			return nil
		}
		if msg.err != nil {
			logging.Error(msg.err, "widget", "progress")
		} else {
			p.Percent = clampPercent(msg.value / p.Max)
		}
		return tea.Tick(p.Interval, func(time.Time) tea.Msg { return progressTick{target: p} })
	case progressTick:
		if msg.target != p {
			return nil
		}
		return p.poll()
	}
	return nil
}

func (p *Progress) poll() tea.Cmd {
	if p.source == nil {
		return nil
	}
	source := *p.source
	ctx := p.ctx
	return func() tea.Msg {
		out, err := source.Run(ctx)
		if err != nil {
			return progressSample{target: p, err: err}
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
		if err != nil {
			return progressSample{target: p, err: fmt.Errorf("parse progress value %q: %w", out, err)}
		}
		return progressSample{target: p, value: v}
	}
}

func (p *Progress) View() string {
	return p.bar.ViewAs(p.Percent)
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

var errAmbiguousNode = errors.New("widget node is both a widget and a module")

// addTo builds the node and appends it to parent. A node that fails is
// logged and skipped so its siblings still appear.
func (wc WidgetConfig) addTo(parent *widget.Box, ctx *WidgetContext) {
	switch {
	case wc.Node.Widget != nil && wc.Node.Module != nil:
		logging.Error(errAmbiguousNode, "module", ctx.ID, "widget", wc.Node.Widget.Kind(), "kind", wc.Node.Module.Kind())
	case wc.Node.Widget != nil:
		built, err := wc.Node.Widget.build(ctx)
		if err != nil {
			logging.Error(err, "module", ctx.ID, "widget", wc.Node.Widget.Kind())
			return
		}
		parent.Add(widget.Wrap(built, wc.Common, ctx.BarOrientation))
	case wc.Node.Module != nil:
		parts, err := module.AddTo(parent, wc.Node.Module, ctx.App, ctx.Info, ctx.Popups)
		if err != nil {
			return
		}
		if ctx.own != nil {
			ctx.own(parts)
		}
	default:
		logging.Error(errors.New("empty widget node"), "module", ctx.ID)
	}
}
