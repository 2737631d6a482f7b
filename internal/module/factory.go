package module

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
	"github.com/atomicstack/modbar/internal/widget"
)

// Module is implemented by every module kind. W is the widget placed on the
// bar, S the controller's broadcast type and R the type the UI sends to the
// controller.
type Module[W widget.Widget, S, R any] interface {
	Name() string
	SpawnController(info Info, ctx *Context[S, R], rx <-chan R) error
	IntoWidget(ctx *Context[S, R], info Info) (Parts[W], error)
}

// Popupper is implemented by modules that expose a popup. It is only
// consulted when IntoWidget did not already supply one.
type Popupper[S, R any] interface {
	IntoPopup(tx *Sender[R], sub *Subscription[S], ctx *Context[S, R], info Info) (widget.Widget, bool)
}

// Popups is the registry a module's popup is recorded in.
type Popups interface {
	Register(id ID, node widget.Widget, triggers []widget.Widget)
	Unregister(id ID)
}

// PopupParts is a popup node plus the widgets that open it.
type PopupParts struct {
	Widget   widget.Widget
	Triggers []widget.Widget
}

// Parts is a constructed module.
type Parts[W widget.Widget] struct {
	Widget W
	Popup  *PopupParts

	id         ID
	kind       string
	controller *Controller
	close      func()
}

// ID returns the module id.
func (p Parts[W]) ID() ID { return p.id }

// Kind returns the module kind name.
func (p Parts[W]) Kind() string { return p.kind }

// Controller returns the module's controller, if it spawned one.
func (p Parts[W]) Controller() *Controller { return p.controller }

// Close removes the module: nested modules are closed, both channels are
// closed so the controller drains and exits, and the popup is unregistered.
func (p Parts[W]) Close() {
	if p.close != nil {
		p.close()
	}
}

// Erase converts to the widget interface so heterogeneous modules can be
// handled uniformly.
func (p Parts[W]) Erase() Parts[widget.Widget] {
	return Parts[widget.Widget]{
		Widget:     p.Widget,
		Popup:      p.Popup,
		id:         p.id,
		kind:       p.kind,
		controller: p.controller,
		close:      p.close,
	}
}

// ConstructionError reports a module that could not be built.
type ConstructionError struct {
	ID    ID
	Kind  string
	Name  string
	Stage string
	Err   error
}

func (e *ConstructionError) Error() string {
	label := e.Kind
	if e.Name != "" {
		label = fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("create %s module (id %d): %s: %v", label, e.ID, e.Stage, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// Create builds module m: it allocates the channel pair, spawns the
// controller, builds the widget and registers the popup keyed by id.
// Construction is all-or-nothing.
func Create[W widget.Widget, S, R any](m Module[W, S, R], id ID, app *App, name string, info Info, popups Popups) (Parts[W], error) {
	tx := NewSender[R](id, ChannelCapacity)
	updates := NewBroadcast[S](ChannelCapacity)
	ctx := &Context[S, R]{
		App:     app,
		ID:      id,
		Name:    name,
		Info:    info,
		Tx:      tx,
		Updates: updates,
		Popups:  popups,
	}
	abandon := func() {
		ctx.closeOwned()
		tx.Close()
		updates.Close()
	}
	fail := func(stage string, err error) (Parts[W], error) {
		abandon()
		cerr := &ConstructionError{ID: id, Kind: m.Name(), Name: name, Stage: stage, Err: err}
		events.Module.Failed(uint64(id), m.Name(), name, cerr)
		metrics.ModuleFailed(m.Name())
		return Parts[W]{}, cerr
	}

	if err := m.SpawnController(info, ctx, tx.receiver()); err != nil {
		return fail("controller", err)
	}
	parts, err := m.IntoWidget(ctx, info)
	if err != nil {
		return fail("widget", err)
	}
	if parts.Popup == nil {
		if p, ok := any(m).(Popupper[S, R]); ok {
			if node, ok := p.IntoPopup(tx, ctx.Subscribe(), ctx, info); ok {
				parts.Popup = &PopupParts{Widget: node}
			}
		}
	}

	hasPopup := parts.Popup != nil && popups != nil
	if hasPopup {
		popups.Register(id, parts.Popup.Widget, parts.Popup.Triggers)
	}

	kind := m.Name()
	var once sync.Once
	parts.id = id
	parts.kind = kind
	parts.controller = ctx.controller
	parts.close = func() {
		once.Do(func() {
			abandon()
			if hasPopup {
				popups.Unregister(id)
			}
			events.Module.Closed(uint64(id), kind)
		})
	}
	events.Module.Created(uint64(id), kind, name, parts.Popup != nil)
	metrics.ModuleCreated(kind)
	return parts, nil
}

// Config is an opaque module description decoded from configuration.
type Config interface {
	Kind() string
	Common() *widget.CommonConfig
}

// Factory builds a module from its description.
type Factory interface {
	Create(cfg Config, id ID, app *App, name string, info Info, popups Popups) (Parts[widget.Widget], error)
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(cfg Config, id ID, app *App, name string, info Info, popups Popups) (Parts[widget.Widget], error)

func (f FactoryFunc) Create(cfg Config, id ID, app *App, name string, info Info, popups Popups) (Parts[widget.Widget], error) {
	return f(cfg, id, app, name, info, popups)
}

// ErrNoFactory is returned by AddTo when the App has no factory.
var ErrNoFactory = errors.New("no module factory configured")

// AddTo builds cfg with a fresh id, applies its common options and appends
// it to parent. Failures are logged and leave parent untouched so siblings
// can still be built. A description without common configuration is a
// programming error and panics.
func AddTo(parent *widget.Box, cfg Config, app *App, info Info, popups Popups) (Parts[widget.Widget], error) {
	common := cfg.Common()
	if common == nil {
		panic(fmt.Sprintf("module: %s config has no common config", cfg.Kind()))
	}
	id := NextID()
	if app == nil || app.Factory() == nil {
		logging.Error(ErrNoFactory, "kind", cfg.Kind())
		return Parts[widget.Widget]{}, ErrNoFactory
	}
	parts, err := app.Factory().Create(cfg, id, app, common.Name, info, popups)
	if err != nil {
		logging.Error(err, "kind", cfg.Kind(), "id", id)
		return Parts[widget.Widget]{}, err
	}
	parent.Add(widget.Wrap(parts.Widget, *common, info.Orientation()))
	return parts, nil
}
