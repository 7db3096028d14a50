// Package eventbus implements the engine's in-process publish/subscribe
// topics (spec §6, §5). Delivery is per-subscriber serialized: each
// subscriber has its own unbounded FIFO queue drained by a single goroutine,
// so one slow subscriber never blocks the publisher or any other subscriber.
package eventbus

import (
	"sync"

	"github.com/arborist-labs/signalcore/internal/types"
)

// Bus fans out typed events to per-topic subscribers.
type Bus struct {
	mu   sync.Mutex
	subs map[types.Topic][]*subscriber
}

type subscriber struct {
	out chan any

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []any
	closed bool
}

func newSubscriber(bufferHint int) *subscriber {
	s := &subscriber{
		out:   make(chan any, bufferHint),
		queue: make([]any, 0, bufferHint),
	}
	s.cond = sync.NewCond(&s.mu)

	go s.drain()

	return s
}

func (s *subscriber) push(event any) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.cond.Signal()
	s.mu.Unlock()
}

func (s *subscriber) drain() {
	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}

		if len(s.queue) == 0 && s.closed {
			s.mu.Unlock()
			close(s.out)

			return
		}

		event := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		s.out <- event
	}
}

func (s *subscriber) close() {
	s.mu.Lock()
	s.closed = true
	s.cond.Signal()
	s.mu.Unlock()
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{subs: make(map[types.Topic][]*subscriber)}
}

// Subscription is a handle returned by Subscribe; read from C until it
// closes, and call Unsubscribe to stop delivery early.
type Subscription struct {
	C chan any

	bus   *Bus
	topic types.Topic
	sub   *subscriber
}

// Unsubscribe stops delivery to this subscription and closes its channel
// once any already-queued events have drained.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	subs := s.bus.subs[s.topic]
	for i, candidate := range subs {
		if candidate == s.sub {
			s.bus.subs[s.topic] = append(subs[:i], subs[i+1:]...)

			break
		}
	}

	s.sub.close()
}

// Subscribe registers a new subscriber on topic.
func (b *Bus) Subscribe(topic types.Topic) *Subscription {
	sub := newSubscriber(64)

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	return &Subscription{C: sub.out, bus: b, topic: topic, sub: sub}
}

// Publish fans event out to every current subscriber of topic. Publish never
// blocks on a subscriber; each subscriber's FIFO order is preserved.
func (b *Bus) Publish(topic types.Topic, event any) {
	b.mu.Lock()
	subs := append([]*subscriber(nil), b.subs[topic]...)
	b.mu.Unlock()

	for _, sub := range subs {
		sub.push(event)
	}
}

// Close shuts down every subscriber on the bus. Intended for test teardown
// and process shutdown.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subs := range b.subs {
		for _, sub := range subs {
			sub.close()
		}
	}

	b.subs = make(map[types.Topic][]*subscriber)
}
