package module

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Broadcast fans controller messages out to any number of UI subscribers.
// Subscribers only see messages sent after they subscribed.
type Broadcast[S any] struct {
	mu       sync.RWMutex
	subs     map[uint64]chan S
	next     uint64
	capacity int
	closed   bool
}

// NewBroadcast creates a broadcast whose subscribers buffer capacity messages.
func NewBroadcast[S any](capacity int) *Broadcast[S] {
	if capacity <= 0 {
		capacity = ChannelCapacity
	}
	return &Broadcast[S]{subs: make(map[uint64]chan S), capacity: capacity}
}

// Send delivers v to every current subscriber and returns how many received
// it. With no subscribers it does nothing. A subscriber whose buffer is full
// misses the message instead of stalling the controller.
func (b *Broadcast[S]) Send(v S) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return 0
	}
	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- v:
			delivered++
		default:
		}
	}
	return delivered
}

// Subscribe registers a new subscriber. Subscribing after Close yields a
// subscription whose channel is already closed.
func (b *Broadcast[S]) Subscribe() *Subscription[S] {
	ch := make(chan S, b.capacity)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return &Subscription[S]{C: ch, cancel: func() {}}
	}
	key := b.next
	b.next++
	b.subs[key] = ch
	var once sync.Once
	return &Subscription[S]{C: ch, cancel: func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if sub, ok := b.subs[key]; ok {
				delete(b.subs, key)
				close(sub)
			}
		})
	}}
}

// Subscribers reports the current subscriber count.
func (b *Broadcast[S]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Broadcast[S]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for key, ch := range b.subs {
		close(ch)
		delete(b.subs, key)
	}
}

// Subscription is one subscriber's view of a Broadcast.
type Subscription[S any] struct {
	C      <-chan S
	cancel func()
}

// Unsubscribe stops delivery and closes C.
func (s *Subscription[S]) Unsubscribe() {
	s.cancel()
}

// Message carries a broadcast value into the Bubble Tea update loop.
type Message[S any] struct {
	ID    ID
	Value S

	sub *Subscription[S]
}

// From reports whether the message was received through s. Widgets sharing
// a module id use it to pick up only their own deliveries.
func (m Message[S]) From(s *Subscription[S]) bool {
	return m.sub == s
}

// Wait returns a command that blocks until the next value arrives and wraps
// it in a Message tagged with id. A closed subscription yields no message.
func (s *Subscription[S]) Wait(id ID) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-s.C
		if !ok {
			return nil
		}
		return Message[S]{ID: id, Value: v, sub: s}
	}
}
