package module

import (
	"errors"
	"sync"

	"github.com/atomicstack/modbar/internal/logging"
	"github.com/atomicstack/modbar/internal/logging/events"
	"github.com/atomicstack/modbar/internal/metrics"
)

// ChannelCapacity bounds both directions of a module's channels.
const ChannelCapacity = 32

var (
	ErrChannelFull   = errors.New("controller channel full")
	ErrChannelClosed = errors.New("controller channel closed")
)

// Sender is the UI side of a module's bounded controller channel. Sends never
// block: overflow is reported and the message dropped.
type Sender[R any] struct {
	id     ID
	mu     sync.RWMutex
	ch     chan R
	closed bool
}

// NewSender allocates a channel holding up to capacity pending messages.
func NewSender[R any](id ID, capacity int) *Sender[R] {
	if capacity <= 0 {
		capacity = ChannelCapacity
	}
	return &Sender[R]{id: id, ch: make(chan R, capacity)}
}

// TrySend queues msg for the controller. It returns ErrChannelFull when the
// controller is behind and ErrChannelClosed after the module was removed;
// both are logged and counted.
func (s *Sender[R]) TrySend(msg R) error {
	err := s.trySend(msg)
	if err != nil {
		logging.Warn("dropping controller message", "module", s.id, "error", err)
		events.Controller.Dropped(uint64(s.id), err)
		metrics.MessageDropped()
	}
	return err
}

func (s *Sender[R]) trySend(msg R) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrChannelClosed
	}
	select {
	case s.ch <- msg:
		return nil
	default:
		return ErrChannelFull
	}
}

// Close closes the channel, which stops the controller once it has drained.
// It is safe to call more than once.
func (s *Sender[R]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

// Len reports the number of queued messages.
func (s *Sender[R]) Len() int {
	return len(s.ch)
}

func (s *Sender[R]) receiver() <-chan R {
	return s.ch
}
