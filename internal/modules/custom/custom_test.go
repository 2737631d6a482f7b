package custom

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/theme"
	"github.com/atomicstack/modbar/internal/widget"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	logging.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type brokenConfig struct {
	common widget.CommonConfig
}

func (*brokenConfig) Kind() string                   { return "broken" }
func (c *brokenConfig) Common() *widget.CommonConfig { return &c.common }

type popupRecorder struct {
	mu         sync.Mutex
	registered map[module.ID][]widget.Widget
	removed    []module.ID
}

func (p *popupRecorder) Register(id module.ID, _ widget.Widget, triggers []widget.Widget) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.registered == nil {
		p.registered = map[module.ID][]widget.Widget{}
	}
	p.registered[id] = triggers
}

func (p *popupRecorder) Unregister(id module.ID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.removed = append(p.removed, id)
}

// testFactory builds custom groups and refuses every other kind.
type testFactory struct {
	mu      sync.Mutex
	created []module.Parts[widget.Widget]
}

func (f *testFactory) Create(cfg module.Config, id module.ID, app *module.App, name string, info module.Info, popups module.Popups) (module.Parts[widget.Widget], error) {
	c, ok := cfg.(*Config)
	if !ok {
		return module.Parts[widget.Widget]{}, errors.New("unsupported module kind " + cfg.Kind())
	}
	parts, err := module.Create[*widget.Box, struct{}, command.ExecEvent](New(c), id, app, name, info, popups)
	if err != nil {
		return module.Parts[widget.Widget]{}, err
	}
	erased := parts.Erase()
	f.mu.Lock()
	f.created = append(f.created, erased)
	f.mu.Unlock()
	return erased, nil
}

func newApp(t *testing.T) (*module.App, *testFactory) {
	t.Helper()
	factory := &testFactory{}
	app := module.NewApp(factory)
	t.Cleanup(app.Stop)
	return app, factory
}

func build(t *testing.T, app *module.App, cfg *Config, popups module.Popups) module.Parts[*widget.Box] {
	t.Helper()
	parts, err := module.Create[*widget.Box, struct{}, command.ExecEvent](New(cfg), module.NextID(), app, "test", testInfo(), popups)
	require.NoError(t, err)
	t.Cleanup(parts.Close)
	return parts
}

// logBuffer collects log output; controllers may write from their own
// goroutines.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *logBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *logBuffer) lines(level string) []string {
	var out []string
	for _, line := range strings.Split(b.String(), "\n") {
		if strings.Contains(line, level) {
			out = append(out, line)
		}
	}
	return out
}

func captureLog(t *testing.T) *logBuffer {
	t.Helper()
	logs := &logBuffer{}
	logging.SetOutput(logs)
	t.Cleanup(func() { logging.SetOutput(io.Discard) })
	return logs
}

func testInfo() module.Info {
	return module.Info{Position: module.Top, Icons: theme.NewIcons("default", nil)}
}

func label(text string) WidgetConfig {
	return WidgetNode(&LabelWidget{Label: text}, widget.CommonConfig{})
}

func labels(root widget.Widget) []string {
	var out []string
	widget.Walk(root, func(w widget.Widget) {
		if l, ok := w.(*Label); ok {
			out = append(out, l.Text)
		}
	})
	return out
}

func awaitEvent(t *testing.T, app *module.App) module.Event {
	t.Helper()
	select {
	case ev := <-app.Events():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for app event")
		return nil
	}
}

func TestBarChildrenKeepConfigurationOrder(t *testing.T) {
	app, _ := newApp(t)
	cfg := NewConfig(widget.CommonConfig{}, []WidgetConfig{label("A"), label("B"), label("C")}, nil)
	parts := build(t, app, cfg, nil)

	require.Equal(t, 3, parts.Widget.Len())
	if diff := cmp.Diff([]string{"A", "B", "C"}, labels(parts.Widget)); diff != "" {
		t.Fatalf("unexpected bar order (-want +got):\n%s", diff)
	}
}

func TestFailedNestedModuleIsSkipped(t *testing.T) {
	app, _ := newApp(t)
	bar := []WidgetConfig{
		label("A"),
		ModuleNode(&brokenConfig{}, widget.CommonConfig{}),
		label("C"),
	}
	logs := captureLog(t)
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, nil), nil)

	require.Equal(t, 2, parts.Widget.Len())
	if diff := cmp.Diff([]string{"A", "C"}, labels(parts.Widget)); diff != "" {
		t.Fatalf("unexpected bar order (-want +got):\n%s", diff)
	}
	errs := logs.lines("ERRO")
	require.Len(t, errs, 1, "log:\n%s", logs.String())
	require.Contains(t, errs[0], "kind=broken")
}

func TestNodeWithBothVariantsIsSkipped(t *testing.T) {
	app, factory := newApp(t)
	both := WidgetConfig{Node: WidgetOrModule{
		Widget: &LabelWidget{Label: "B"},
		Module: NewConfig(widget.CommonConfig{}, []WidgetConfig{label("nested")}, nil),
	}}
	logs := captureLog(t)
	parts := build(t, app, NewConfig(widget.CommonConfig{}, []WidgetConfig{label("A"), both, label("C")}, nil), nil)

	if diff := cmp.Diff([]string{"A", "C"}, labels(parts.Widget)); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}
	factory.mu.Lock()
	require.Empty(t, factory.created)
	factory.mu.Unlock()
	errs := logs.lines("ERRO")
	require.Len(t, errs, 1, "log:\n%s", logs.String())
	require.Contains(t, errs[0], "both a widget and a module")
}

func TestInvalidOrientationSkipsOnlyThatNode(t *testing.T) {
	app, _ := newApp(t)
	bar := []WidgetConfig{
		label("A"),
		WidgetNode(&BoxWidget{Orientation: "diagonal", Widgets: []WidgetConfig{label("lost")}}, widget.CommonConfig{}),
		WidgetNode(&BoxWidget{Orientation: "V", Widgets: []WidgetConfig{label("B")}}, widget.CommonConfig{}),
	}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, nil), nil)

	if diff := cmp.Diff([]string{"A", "B"}, labels(parts.Widget)); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}
}

func TestNestedModulesCloseWithParent(t *testing.T) {
	app, factory := newApp(t)
	inner := NewConfig(widget.CommonConfig{Name: "inner"}, []WidgetConfig{label("B")}, nil)
	bar := []WidgetConfig{label("A"), ModuleNode(inner, widget.CommonConfig{}), label("C")}
	parts, err := module.Create[*widget.Box, struct{}, command.ExecEvent](New(NewConfig(widget.CommonConfig{}, bar, nil)), module.NextID(), app, "outer", testInfo(), nil)
	require.NoError(t, err)

	if diff := cmp.Diff([]string{"A", "B", "C"}, labels(parts.Widget)); diff != "" {
		t.Fatalf("unexpected labels (-want +got):\n%s", diff)
	}
	factory.mu.Lock()
	require.Len(t, factory.created, 1)
	nested := factory.created[0]
	factory.mu.Unlock()
	require.Equal(t, module.Running, nested.Controller().State())

	parts.Close()
	require.Eventually(t, func() bool {
		return nested.Controller().State() == module.Terminated
	}, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return parts.Controller().State() == module.Terminated
	}, 2*time.Second, 10*time.Millisecond)
}

func TestButtonsBecomePopupTriggers(t *testing.T) {
	app, _ := newApp(t)
	popups := &popupRecorder{}
	bar := []WidgetConfig{
		label("cpu"),
		WidgetNode(&ButtonWidget{Label: "more", OnClick: command.PopupToggle}, widget.CommonConfig{}),
	}
	popup := []WidgetConfig{label("details")}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, popup), popups)

	require.NotNil(t, parts.Popup)
	require.Equal(t, []string{"details"}, labels(parts.Popup.Widget))
	popups.mu.Lock()
	triggers := popups.registered[parts.ID()]
	popups.mu.Unlock()
	require.Len(t, triggers, 1)
	_, ok := triggers[0].(*Button)
	require.True(t, ok)
}

func TestPopupButtonsAreNotTriggers(t *testing.T) {
	app, _ := newApp(t)
	popups := &popupRecorder{}
	bar := []WidgetConfig{WidgetNode(&ButtonWidget{Label: "open", OnClick: command.PopupToggle}, widget.CommonConfig{})}
	popup := []WidgetConfig{WidgetNode(&ButtonWidget{Label: "close", OnClick: command.PopupClose}, widget.CommonConfig{})}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, popup), popups)

	popups.mu.Lock()
	triggers := popups.registered[parts.ID()]
	popups.mu.Unlock()
	require.Len(t, triggers, 1)
	button, ok := triggers[0].(*Button)
	require.True(t, ok)
	require.Equal(t, "open", button.Label)
}

func TestNoPopupWithoutPopupWidgets(t *testing.T) {
	app, _ := newApp(t)
	popups := &popupRecorder{}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, []WidgetConfig{label("A")}, nil), popups)
	require.Nil(t, parts.Popup)
	require.Empty(t, popups.registered)
}

func TestPopupToggleReachesApp(t *testing.T) {
	app, _ := newApp(t)
	bar := []WidgetConfig{WidgetNode(&ButtonWidget{Label: "open", OnClick: command.PopupToggle}, widget.CommonConfig{})}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, []WidgetConfig{label("p")}), nil)

	buttons := widget.Focusables(parts.Widget)
	require.Len(t, buttons, 1)
	require.Nil(t, buttons[0].Activate())

	require.Equal(t, module.TogglePopup{ID: parts.ID()}, awaitEvent(t, app))
}

func TestInvalidCommandKeepsControllerRunning(t *testing.T) {
	app, _ := newApp(t)
	bar := []WidgetConfig{
		WidgetNode(&ButtonWidget{Label: "bad", OnClick: "frobnicate"}, widget.CommonConfig{}),
		WidgetNode(&ButtonWidget{Label: "open", OnClick: command.PopupOpen}, widget.CommonConfig{}),
	}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, nil), nil)

	buttons := widget.Focusables(parts.Widget)
	require.Len(t, buttons, 2)
	buttons[0].Activate()
	buttons[1].Activate()

	require.Equal(t, module.OpenPopup{ID: parts.ID()}, awaitEvent(t, app))
	require.Equal(t, module.Running, parts.Controller().State())
}

func TestScriptCommandRuns(t *testing.T) {
	app, _ := newApp(t)
	marker := filepath.Join(t.TempDir(), "clicked")
	bar := []WidgetConfig{WidgetNode(&ButtonWidget{Label: "touch", OnClick: "!touch " + marker}, widget.CommonConfig{})}
	parts := build(t, app, NewConfig(widget.CommonConfig{}, bar, nil), nil)

	widget.Focusables(parts.Widget)[0].Activate()
	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
}

func TestSliderSendsValueAsLastArgument(t *testing.T) {
	var got []string
	ctx := &WidgetContext{}
	slider, err := (&SliderWidget{Min: 0, Max: 10, Step: 1, Value: 5, OnChange: "!volume set"}).build(ctx)
	require.NoError(t, err)
	s := slider.(*Slider)
	s.send = func(cmd string, args ...string) {
		got = append(append(got, cmd), args...)
	}

	s.Adjust(2)
	require.Equal(t, []string{"!volume set", "7"}, got)
	require.Equal(t, 7.0, s.Value)

	got = nil
	s.Adjust(10)
	require.Equal(t, 10.0, s.Value)
	s.Adjust(1)
	require.Equal(t, []string{"!volume set", "10"}, got)
}

func TestDecodeConfigTriesWidgetsBeforeModules(t *testing.T) {
	src := `
name: media
class: accent
bar:
  - type: label
    label: hello
  - type: box
    orientation: v
    widgets:
      - type: button
        label: go
        on_click: "popup:toggle"
  - type: clock
    name: nested
popup:
  - type: image
    src: icon:volume
`
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &node))

	var decodedModules []string
	decodeModule := func(n *yaml.Node) (module.Config, error) {
		var head struct {
			Type string `yaml:"type"`
			Name string `yaml:"name"`
		}
		if err := n.Decode(&head); err != nil {
			return nil, err
		}
		decodedModules = append(decodedModules, head.Type)
		return &brokenConfig{common: widget.CommonConfig{Name: head.Name}}, nil
	}
	cfg, err := DecodeConfig(node.Content[0], decodeModule)
	require.NoError(t, err)

	require.Equal(t, "media", cfg.Common().Name)
	require.Equal(t, "accent", cfg.Common().Class)
	require.Len(t, cfg.Bar, 3)
	require.IsType(t, &LabelWidget{}, cfg.Bar[0].Node.Widget)
	box, ok := cfg.Bar[1].Node.Widget.(*BoxWidget)
	require.True(t, ok)
	require.Equal(t, "v", box.Orientation)
	require.Len(t, box.Widgets, 1)
	require.Equal(t, &ButtonWidget{Label: "go", OnClick: command.PopupToggle}, box.Widgets[0].Node.Widget)
	require.Nil(t, cfg.Bar[2].Node.Widget)
	require.Equal(t, "nested", cfg.Bar[2].Node.Module.Common().Name)
	require.Equal(t, []string{"clock"}, decodedModules)
	require.Len(t, cfg.Popup, 1)
	require.Equal(t, &ImageWidget{Src: "icon:volume"}, cfg.Popup[0].Node.Widget)
}

func TestDecodeUnknownTypeWithoutModulesFails(t *testing.T) {
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("bar:\n  - type: mystery\n"), &node))
	_, err := DecodeConfig(node.Content[0], nil)
	require.Error(t, err)
}

func TestProgressPollsItsSource(t *testing.T) {
	built, err := (&ProgressWidget{Value: "echo 25", Max: 50, Interval: 10}).build(&WidgetContext{})
	require.NoError(t, err)
	p := built.(*Progress)

	cmd := p.Init()
	require.NotNil(t, cmd)
	sample := cmd()
	require.Equal(t, progressSample{target: p, value: 25}, sample)

	next := p.Update(sample)
	require.InDelta(t, 0.5, p.Percent, 1e-9)
	require.NotNil(t, next)

	other := &Progress{}
	require.Nil(t, p.Update(progressSample{target: other, value: 1}))
	require.InDelta(t, 0.5, p.Percent, 1e-9)
}
