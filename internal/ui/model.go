package ui

import (
	"reflect"

	"github.com/atomicstack/modbar/internal/backend"
	"github.com/atomicstack/modbar/internal/config/barfile"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/popup"
	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
	tea "github.com/charmbracelet/bubbletea"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

const (
	sectionStart = iota
	sectionCenter
	sectionEnd
	sectionCount
)

// Options configures a new Model.
type Options struct {
	App *module.App
	Bar barfile.Bar
	// BarPath is only used for tracing.
	BarPath string
	// Position overrides the bar file's position when set.
	Position string
	Output   string
	Watcher  *backend.Watcher
}

// Model implements the Bubble Tea model for the bar.
type Model struct {
	app      *module.App
	info     module.Info
	position string
	output   string
	barPath  string

	sections [sectionCount]*widget.Box
	parts    []module.Parts[widget.Widget]
	popups   *popup.Registry
	focused  widget.Focusable

	width   int
	height  int
	errMsg  string
	keys    keyMap
	backend *backend.Watcher
	initCmd tea.Cmd

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the bar described by opts.Bar.
func NewModel(opts Options) *Model {
	m := &Model{
		app:      opts.App,
		position: opts.Position,
		output:   opts.Output,
		barPath:  opts.BarPath,
		popups:   popup.NewRegistry(),
		keys:     defaultKeyMap(),
		backend:  opts.Watcher,
	}
	m.registerHandlers()
	m.initCmd = m.build(opts.Bar)
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.initCmd}
	m.initCmd = nil
	if m.app != nil {
		cmds = append(cmds, waitForAppEvent(m.app))
	}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.forward(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(appEventMsg{}):       m.handleAppEventMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// forward hands msg to every widget on the bar and every popup node, shown
// or not, so subscriptions keep being serviced while a popup is hidden.
func (m *Model) forward(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for _, section := range m.sections {
		if section == nil {
			continue
		}
		if cmd := section.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	for _, entry := range m.popups.Entries() {
		if cmd := entry.Node.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return batch(cmds)
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size := msg.(tea.WindowSizeMsg)
	m.width = size.Width
	m.height = size.Height
	events.UI.Resize(size.Width, size.Height)
	return nil
}

// build replaces the current bar with one built from bar and returns the
// widgets' start-up commands.
func (m *Model) build(bar barfile.Bar) tea.Cmd {
	m.teardown()

	position := bar.Position
	if m.position != "" {
		override, err := module.ParsePosition(m.position)
		if err != nil {
			logging.Error(err)
		} else {
			position = override
		}
	}
	m.info = module.Info{
		Position: position,
		Output:   m.output,
		Icons:    theme.NewIcons(m.barPath, bar.IconTheme),
	}

	orientation := position.Orientation()
	var cmds []tea.Cmd
	for i, cfgs := range [sectionCount][]module.Config{bar.Start, bar.Center, bar.End} {
		section := widget.NewBox(orientation)
		for _, cfg := range cfgs {
			parts, err := module.AddTo(section, cfg, m.app, m.info, m.popups)
			if err != nil {
				continue
			}
			m.parts = append(m.parts, parts)
		}
		m.sections[i] = section
		if cmd := section.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	for _, entry := range m.popups.Entries() {
		if cmd := entry.Node.Init(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	events.App.Reload(m.barPath, len(m.parts))
	return batch(cmds)
}

// teardown closes every module. Closing a module closes its channels, so
// its controller drains and stops, and unregisters its popup.
func (m *Model) teardown() {
	m.popups.Close()
	for _, parts := range m.parts {
		parts.Close()
	}
	m.parts = nil
	m.sections = [sectionCount]*widget.Box{}
	m.setFocus(nil)
}

// Close tears the bar down. It is called once the program has exited.
func (m *Model) Close() {
	m.teardown()
}

// Parts returns the modules currently on the bar.
func (m *Model) Parts() []module.Parts[widget.Widget] {
	return append([]module.Parts[widget.Widget](nil), m.parts...)
}

// Popups exposes the popup registry.
func (m *Model) Popups() *popup.Registry {
	return m.popups
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
