// Package memory holds process-local adapters used in development mode and
// in tests. Every tab opened from the same Store shares the same profile data
// and receives the other tabs' change notifications, the way several browser
// tabs share one storage area.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/huntsmart/client-engine/internal/core/ports"
)

const watchBuffer = 64

// Store is a set of profile key-value areas.
type Store struct {
	mu       sync.Mutex
	profiles map[string]map[string]string
	watchers map[string]map[*watcher]struct{}
}

type watcher struct {
	tab string
	ch  chan ports.StorageChange
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		profiles: make(map[string]map[string]string),
		watchers: make(map[string]map[*watcher]struct{}),
	}
}

// Open returns a new tab handle on profileID.
func (s *Store) Open(profileID string) ports.ProfileStorage {
	return &Tab{store: s, profile: profileID, id: uuid.NewString()}
}

// Tab is one handle on a profile's area.
type Tab struct {
	store   *Store
	profile string
	id      string
}

func (t *Tab) Tab() string { return t.id }

func (t *Tab) Get(_ context.Context, key string) (string, bool, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	v, ok := t.store.profiles[t.profile][key]
	return v, ok, nil
}

func (t *Tab) Set(_ context.Context, pairs map[string]string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	area := t.store.profiles[t.profile]
	if area == nil {
		area = make(map[string]string)
		t.store.profiles[t.profile] = area
	}
	for k, v := range pairs {
		area[k] = v
		t.store.notifyLocked(t, ports.StorageChange{Key: k, Value: v, Origin: t.id})
	}
	return nil
}

func (t *Tab) Delete(_ context.Context, keys ...string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	area := t.store.profiles[t.profile]
	for _, k := range keys {
		if _, ok := area[k]; !ok {
			continue
		}
		delete(area, k)
		t.store.notifyLocked(t, ports.StorageChange{Key: k, Deleted: true, Origin: t.id})
	}
	if area != nil && len(area) == 0 {
		delete(t.store.profiles, t.profile)
	}
	return nil
}

// Watch streams changes written through other tabs of the same profile.
// The channel is closed once ctx is done.
func (t *Tab) Watch(ctx context.Context) (<-chan ports.StorageChange, error) {
	w := &watcher{tab: t.id, ch: make(chan ports.StorageChange, watchBuffer)}

	t.store.mu.Lock()
	if t.store.watchers[t.profile] == nil {
		t.store.watchers[t.profile] = make(map[*watcher]struct{})
	}
	t.store.watchers[t.profile][w] = struct{}{}
	t.store.mu.Unlock()

	go func() {
		<-ctx.Done()
		t.store.mu.Lock()
		delete(t.store.watchers[t.profile], w)
		if len(t.store.watchers[t.profile]) == 0 {
			delete(t.store.watchers, t.profile)
		}
		close(w.ch)
		t.store.mu.Unlock()
	}()
	return w.ch, nil
}

// notifyLocked fans a change out to other tabs. Slow watchers drop changes,
// matching the best-effort nature of browser storage events.
func (s *Store) notifyLocked(from *Tab, change ports.StorageChange) {
	for w := range s.watchers[from.profile] {
		if w.tab == from.id {
			continue
		}
		select {
		case w.ch <- change:
		default:
		}
	}
}
