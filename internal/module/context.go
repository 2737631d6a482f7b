package module

import (
	"errors"
	"sync"
)

// ErrControllerExists is returned when a module tries to start a second
// controller.
var ErrControllerExists = errors.New("controller already spawned")

// Context is the bundle injected into a module at construction.
type Context[S, R any] struct {
	App     *App
	ID      ID
	Name    string
	Info    Info
	Tx      *Sender[R]
	Updates *Broadcast[S]
	Popups  Popups

	controller *Controller
	mu         sync.Mutex
	owned      []interface{ Close() }
}

// Subscribe returns a new subscription to the controller's broadcasts.
func (c *Context[S, R]) Subscribe() *Subscription[S] {
	return c.Updates.Subscribe()
}

// Spawn starts the module's controller reading rx. A module gets exactly one
// controller for its lifetime.
func (c *Context[S, R]) Spawn(rx <-chan R, handle Handler[R]) (*Controller, error) {
	if c.controller != nil {
		return nil, ErrControllerExists
	}
	c.controller = spawn(c.ID, rx, handle)
	return c.controller, nil
}

// Controller returns the spawned controller, if any.
func (c *Context[S, R]) Controller() *Controller {
	return c.controller
}

// Emit forwards ev to the UI through the App.
func (c *Context[S, R]) Emit(ev Event) bool {
	if c.App == nil {
		return false
	}
	return c.App.Emit(ev)
}

// Own ties the lifetime of a nested module to this one.
func (c *Context[S, R]) Own(child interface{ Close() }) {
	c.mu.Lock()
	c.owned = append(c.owned, child)
	c.mu.Unlock()
}

func (c *Context[S, R]) closeOwned() {
	c.mu.Lock()
	owned := c.owned
	c.owned = nil
	c.mu.Unlock()
	for _, child := range owned {
		child.Close()
	}
}
