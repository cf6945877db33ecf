package events

import (
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the per-subscription channel buffer used when the
// bus is created with a non-positive size.
const DefaultBufferSize = 16

// Filter is a predicate over emitted events. A nil filter matches everything.
type Filter func(Event) bool

// subIDGenerator hands out process-unique subscription IDs.
var subIDGenerator atomic.Uint64

func nextSubID() uint64 {
	return subIDGenerator.Add(1)
}

// Bus is a single ordered multiplexed publish point. Every event is offered
// to every attached subscription in one total order; delivery to a
// subscription is a non-blocking send on its buffered channel, so a slow
// subscriber never blocks the publisher.
type Bus struct {
	mu      sync.Mutex
	subs    map[uint64]*Subscription
	bufSize int
	closed  bool
}

// NewBus creates a bus whose subscriptions buffer up to bufferSize events.
// A non-positive bufferSize selects DefaultBufferSize.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Bus{
		subs:    make(map[uint64]*Subscription),
		bufSize: bufferSize,
	}
}

// Subscribe attaches a predicate-filtered subscription. Events published
// before the call are never delivered. On a closed bus the returned
// subscription is already ended.
func (b *Bus) Subscribe(filter Filter) *Subscription {
	sub := &Subscription{
		id:     nextSubID(),
		bus:    b,
		filter: filter,
		ch:     make(chan Event, b.bufSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		close(sub.ch)
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish fans the event out to all attached subscriptions whose predicate
// matches. Publish holds the bus lock across the fan-out so that every
// subscription observes the same total order; sends are non-blocking and
// increment the subscription's drop counter when its buffer is full.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for _, sub := range b.subs {
		if sub.filter != nil && !sub.filter(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			sub.dropped.Add(1)
		}
	}
}

// SubscriberCount returns the number of attached subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close detaches and ends every subscription. Further publishes are
// dropped; further subscribes return ended subscriptions. Idempotent.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

// Subscription is one consumer's attachment to the bus: a predicate plus a
// buffered delivery channel. It never blocks or consumes event production.
type Subscription struct {
	id      uint64
	bus     *Bus
	filter  Filter
	ch      chan Event
	dropped atomic.Uint64
}

// ID returns the bus-unique subscription identifier.
func (s *Subscription) ID() uint64 {
	return s.id
}

// C returns the delivery channel. It is closed when the subscription is
// cancelled or the bus is closed.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Dropped returns how many matching events were discarded because the
// buffer was full.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Cancel detaches the subscription and closes its channel. Events already
// delivered or in flight to other subscribers are unaffected. Idempotent.
func (s *Subscription) Cancel() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if _, ok := s.bus.subs[s.id]; !ok {
		return
	}
	delete(s.bus.subs, s.id)
	close(s.ch)
}
