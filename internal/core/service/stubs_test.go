package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
	"github.com/huntsmart/client-engine/internal/infrastructure/storage/memory"
)

// ---------------------------------------------------------------------------
// Manual scheduler: tasks run only when the test fires them.
// ---------------------------------------------------------------------------

type fakeTask struct {
	s         *fakeScheduler
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (t *fakeTask) Cancel() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	return true
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) After(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{s: s, delay: d, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Fire runs every task scheduled before the call and returns how many ran.
func (s *fakeScheduler) Fire() int {
	s.mu.Lock()
	due := s.tasks
	s.tasks = nil
	s.mu.Unlock()

	n := 0
	for _, t := range due {
		s.mu.Lock()
		skip := t.cancelled
		t.fired = !skip
		s.mu.Unlock()
		if skip {
			continue
		}
		t.fn()
		n++
	}
	return n
}

// Pending counts scheduled tasks that are neither fired nor cancelled.
func (s *fakeScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled && !t.fired {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Storage stub with injectable failures.
// ---------------------------------------------------------------------------

var errStorageDown = errors.New("storage unavailable")

type failingStorage struct {
	ports.ProfileStorage
	failGet bool
	failSet bool
}

func (f *failingStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failGet {
		return "", false, errStorageDown
	}
	return f.ProfileStorage.Get(ctx, key)
}

func (f *failingStorage) Set(ctx context.Context, pairs map[string]string) error {
	if f.failSet {
		return errStorageDown
	}
	return f.ProfileStorage.Set(ctx, pairs)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

type stores struct {
	storage  ports.ProfileStorage
	bus      *bus.Bus
	pass     *EntitlementStore
	sessions *SessionStore
}

func newStores(storage ports.ProfileStorage) stores {
	b := bus.New()
	pass := NewEntitlementStore(storage, b, zerolog.Nop())
	return stores{
		storage:  storage,
		bus:      b,
		pass:     pass,
		sessions: NewSessionStore(storage, b, pass, zerolog.Nop()),
	}
}

func newMemoryStores() stores {
	return newStores(memory.NewStore().Open("profile-1"))
}

// countTopic counts deliveries on topic.
func countTopic(b *bus.Bus, topic bus.Topic) *int {
	n := new(int)
	b.Subscribe(topic, func(context.Context, bus.Event) { *n++ })
	return n
}

type stubEnqueuer struct {
	mu   sync.Mutex
	recs []domain.ClaimRecord
}

func (e *stubEnqueuer) Enqueue(rec domain.ClaimRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.recs = append(e.recs, rec)
}

func (e *stubEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.recs)
}
