// Package bus is the in-process change signal shared by every surface of a
// profile. Delivery is synchronous and total: Publish returns only after every
// handler subscribed at call time has returned.
package bus

import (
	"context"
	"sync"
)

// Topic names one store's change signal.
type Topic string

const (
	TopicSession     Topic = "auth_update"
	TopicEntitlement Topic = "huntsmart_update"
)

// Event is a change notification. Origin is the tab that wrote the change;
// it is empty for same-tab writes.
type Event struct {
	Topic  Topic
	Origin string
}

// Handler receives events. It must not synchronously mutate the store that
// published the event.
type Handler func(ctx context.Context, ev Event)

// Bus is a typed publish/subscribe channel.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic]map[uint64]Handler
	order  map[Topic][]uint64
	hook   func(topic Topic, delivered int)
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{
		subs:  make(map[Topic]map[uint64]Handler),
		order: make(map[Topic][]uint64),
	}
}

// OnDeliver installs a callback invoked after each Publish with the number
// of handlers reached. Used for metrics.
func (b *Bus) OnDeliver(fn func(topic Topic, delivered int)) {
	b.mu.Lock()
	b.hook = fn
	b.mu.Unlock()
}

// Subscription ties a handler to a topic until Unsubscribe.
type Subscription struct {
	bus   *Bus
	topic Topic
	id    uint64
	once  sync.Once
}

// Subscribe registers h for topic. Handlers run in subscription order.
func (b *Bus) Subscribe(topic Topic, h Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]Handler)
	}
	b.subs[topic][id] = h
	b.order[topic] = append(b.order[topic], id)
	return &Subscription{bus: b, topic: topic, id: id}
}

// Unsubscribe removes the handler. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.topic, s.id)
	})
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subs[topic], id)
	ids := b.order[topic]
	for i, v := range ids {
		if v == id {
			b.order[topic] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
}

// Publish delivers ev to every current subscriber of ev.Topic before returning.
func (b *Bus) Publish(ctx context.Context, ev Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.order[ev.Topic]))
	for _, id := range b.order[ev.Topic] {
		if h, ok := b.subs[ev.Topic][id]; ok {
			handlers = append(handlers, h)
		}
	}
	hook := b.hook
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, ev)
	}
	if hook != nil {
		hook(ev.Topic, len(handlers))
	}
}

// Subscribers returns the number of live subscriptions on topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
