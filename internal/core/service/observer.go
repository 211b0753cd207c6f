package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
)

// Observer mirrors a store value for one surface. While active it re-reads
// the store on every signal of its topics, so once a mutation returns the
// observer already holds the persisted value.
type Observer[T any] struct {
	bus    *bus.Bus
	kind   string
	topics []bus.Topic
	read   func(ctx context.Context) (T, error)
	log    zerolog.Logger

	mu     sync.RWMutex
	value  T
	active bool
	subs   []*bus.Subscription
	render func(T)
}

// NewObserver builds an inactive observer over topics.
func NewObserver[T any](b *bus.Bus, kind string, read func(context.Context) (T, error), log zerolog.Logger, topics ...bus.Topic) *Observer[T] {
	return &Observer[T]{bus: b, kind: kind, topics: topics, read: read, log: log}
}

// NewSessionObserver observes the session and its entitlement projection.
func NewSessionObserver(b *bus.Bus, sessions *SessionStore, log zerolog.Logger) *Observer[*domain.Session] {
	return NewObserver(b, "session", sessions.Current, log, bus.TopicSession, bus.TopicEntitlement)
}

// NewEntitlementObserver observes the HuntSmart Pass.
func NewEntitlementObserver(b *bus.Bus, pass *EntitlementStore, log zerolog.Logger) *Observer[domain.Entitlement] {
	return NewObserver(b, "entitlement", pass.Current, log, bus.TopicEntitlement)
}

// OnRender installs fn to be called with every new value. fn runs under the
// observer lock and must not block or call back into the observer.
func (o *Observer[T]) OnRender(fn func(T)) {
	o.mu.Lock()
	o.render = fn
	o.mu.Unlock()
}

// Activate reads the current value and subscribes. Activating an active
// observer does nothing.
func (o *Observer[T]) Activate(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.active {
		return nil
	}
	v, err := o.read(ctx)
	if err != nil {
		return err
	}
	o.value = v
	for _, t := range o.topics {
		o.subs = append(o.subs, o.bus.Subscribe(t, o.refresh))
	}
	o.active = true
	metrics.ObserversActive.WithLabelValues(o.kind).Inc()

	if o.render != nil {
		o.render(v)
	}
	return nil
}

// Deactivate unsubscribes. Safe to call more than once.
func (o *Observer[T]) Deactivate() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active {
		return
	}
	for _, s := range o.subs {
		s.Unsubscribe()
	}
	o.subs = nil
	o.active = false
	metrics.ObserversActive.WithLabelValues(o.kind).Dec()
}

// Value returns the last rendered value.
func (o *Observer[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Active reports whether the observer is subscribed.
func (o *Observer[T]) Active() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.active
}

func (o *Observer[T]) refresh(ctx context.Context, ev bus.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.active {
		return
	}
	v, err := o.read(ctx)
	if err != nil {
		o.log.Warn().Err(err).Str("topic", string(ev.Topic)).Str("observer", o.kind).Msg("observer refresh failed, keeping last value")
		return
	}
	o.value = v
	if o.render != nil {
		o.render(v)
	}
}
