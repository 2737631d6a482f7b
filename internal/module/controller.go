package module

import (
	"sync/atomic"

	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// State is a controller's lifecycle stage.
type State int32

const (
	Running State = iota
	Draining
	Terminated
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// MaxInFlight bounds the independent jobs a controller runs at once. When
// the limit is reached the controller stops reading its channel until a job
// finishes, so backpressure lands on the channel rather than on the UI.
const MaxInFlight = 8

// Handler processes one received message. It runs on the controller
// goroutine; independent work should be started with Controller.Go.
type Handler[R any] func(c *Controller, msg R)

// Controller is the goroutine that owns one module's non-UI state.
type Controller struct {
	id    ID
	state atomic.Int32
	jobs  errgroup.Group
	done  chan struct{}
}

func spawn[R any](id ID, rx <-chan R, handle Handler[R]) *Controller {
	c := &Controller{id: id, done: make(chan struct{})}
	c.jobs.SetLimit(MaxInFlight)
	metrics.ControllerStarted()
	events.Controller.State(uint64(id), Running.String())
	go func() {
		for msg := range rx {
			handle(c, msg)
		}
		c.setState(Draining)
		_ = c.jobs.Wait()
		c.setState(Terminated)
		metrics.ControllerTerminated()
		close(c.done)
	}()
	return c
}

// Go runs fn alongside the receive loop. Jobs are started in receipt order
// but may complete in any order.
func (c *Controller) Go(fn func()) {
	c.jobs.Go(func() error {
		fn()
		return nil
	})
}

// ID returns the owning module's id.
func (c *Controller) ID() ID {
	return c.id
}

// State reports the current lifecycle stage.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// Done is closed once the controller has terminated.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
	events.Controller.State(uint64(c.id), s.String())
}
