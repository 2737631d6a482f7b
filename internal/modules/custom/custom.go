// Package custom implements the composite module: a tree of primitive
// widgets and nested modules described entirely by configuration, backed by
// a controller that interprets the command vocabulary.
package custom

import (
	"errors"

	"github.com/atomicstack/modbar/internal/command"
	"github.com/atomicstack/modbar/internal/module"
	"github.com/atomicstack/modbar/internal/widget"
)

// Name is the module kind.
const Name = "custom"

// Context is the construction bundle for a custom module. Its controller
// never broadcasts.
type Context = module.Context[struct{}, command.ExecEvent]

// Module builds a custom group from its description.
type Module struct {
	cfg *Config
}

// New returns the module for cfg.
func New(cfg *Config) *Module {
	return &Module{cfg: cfg}
}

func (m *Module) Name() string { return Name }

// SpawnController starts the command interpreter.
func (m *Module) SpawnController(_ module.Info, ctx *Context, rx <-chan command.ExecEvent) error {
	if ctx.App == nil {
		return errors.New("custom module requires an app handle")
	}
	_, err := ctx.Spawn(rx, command.Handler(ctx))
	return err
}

// IntoWidget builds the bar portion in configuration order. Every bar
// button becomes a trigger for the popup, which is built here as well.
func (m *Module) IntoWidget(ctx *Context, info module.Info) (module.Parts[*widget.Box], error) {
	wctx := m.widgetContext(ctx, info)
	container := widget.NewBox(info.Orientation())
	for _, wc := range m.cfg.Bar {
		wc.addTo(container, wctx)
	}

	parts := module.Parts[*widget.Box]{Widget: container}
	if popup, ok := m.buildPopup(m.widgetContext(ctx, info)); ok {
		parts.Popup = &module.PopupParts{Widget: popup, Triggers: wctx.PopupTriggers}
	}
	return parts, nil
}

// IntoPopup builds only the popup portion. It reports false when the group
// declares no popup widgets.
func (m *Module) IntoPopup(_ *module.Sender[command.ExecEvent], sub *module.Subscription[struct{}], ctx *Context, info module.Info) (widget.Widget, bool) {
	if sub != nil {
		sub.Unsubscribe()
	}
	return m.buildPopup(m.widgetContext(ctx, info))
}

// buildPopup expects a context of its own. Buttons inside the popup are not
// triggers for it.
func (m *Module) buildPopup(wctx *WidgetContext) (*widget.Box, bool) {
	if len(m.cfg.Popup) == 0 {
		return nil, false
	}
	popup := widget.NewBox(widget.Vertical)
	for _, wc := range m.cfg.Popup {
		wc.addTo(popup, wctx)
	}
	return popup, true
}

func (m *Module) widgetContext(ctx *Context, info module.Info) *WidgetContext {
	return &WidgetContext{
		App:            ctx.App,
		ID:             ctx.ID,
		Info:           info,
		Popups:         ctx.Popups,
		Tx:             ctx.Tx,
		BarOrientation: info.Orientation(),
		Icons:          info.Icons,
		own:            ctx.Own,
	}
}
