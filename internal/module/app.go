package module

import (
	"context"
	"fmt"
)

// Event is an intent raised by a controller for the UI to act on.
type Event interface {
	fmt.Stringer
	event()
}

// OpenPopup asks the UI to show the popup of module ID.
type OpenPopup struct{ ID ID }

// TogglePopup asks the UI to flip the popup of module ID.
type TogglePopup struct{ ID ID }

// ClosePopup asks the UI to hide whichever popup is open.
type ClosePopup struct{}

func (OpenPopup) event()   {}
func (TogglePopup) event() {}
func (ClosePopup) event()  {}

func (e OpenPopup) String() string   { return "popup:open " + e.ID.String() }
func (e TogglePopup) String() string { return "popup:toggle " + e.ID.String() }
func (ClosePopup) String() string    { return "popup:close" }

const eventBuffer = 64

// App is the process-wide handle shared by every module.
type App struct {
	ctx     context.Context
	cancel  context.CancelFunc
	events  chan Event
	factory Factory
}

// NewApp creates the shared handle. The factory builds nested modules.
func NewApp(factory Factory) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		ctx:     ctx,
		cancel:  cancel,
		events:  make(chan Event, eventBuffer),
		factory: factory,
	}
}

// Context is cancelled when the application stops.
func (a *App) Context() context.Context {
	return a.ctx
}

// Factory returns the module factory.
func (a *App) Factory() Factory {
	return a.factory
}

// Emit hands ev to the UI. It blocks while the event buffer is full and
// gives up once the application stops, so it must only be called from
// controller goroutines.
func (a *App) Emit(ev Event) bool {
	select {
	case <-a.ctx.Done():
		return false
	case a.events <- ev:
		return true
	}
}

// Events is consumed by the UI.
func (a *App) Events() <-chan Event {
	return a.events
}

// Stop cancels the application context.
func (a *App) Stop() {
	a.cancel()
}
