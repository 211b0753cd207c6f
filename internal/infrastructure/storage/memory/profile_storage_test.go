package memory

import (
	"context"
	"testing"
	"time"
)

func TestStore_TabsShareProfileArea(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	a := s.Open("p1")
	b := s.Open("p1")
	other := s.Open("p2")

	if err := a.Set(ctx, map[string]string{"user": `{"name":"ada"}`}); err != nil {
		t.Fatalf("set: %v", err)
	}

	v, ok, _ := b.Get(ctx, "user")
	if !ok || v != `{"name":"ada"}` {
		t.Fatalf("tab b should see tab a's write, got %q %v", v, ok)
	}
	if _, ok, _ := other.Get(ctx, "user"); ok {
		t.Fatalf("other profile must not see the write")
	}

	if err := b.Delete(ctx, "user"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := a.Get(ctx, "user"); ok {
		t.Fatalf("expected key deleted for every tab")
	}
}

func TestStore_WatchSkipsOwnWrites(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := s.Open("p1")
	b := s.Open("p1")
	changes, err := a.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	_ = a.Set(ctx, map[string]string{"huntsmart_active": "true"})
	_ = b.Set(ctx, map[string]string{"huntsmart_active": "false"})

	select {
	case ch := <-changes:
		if ch.Origin != b.Tab() || ch.Value != "false" {
			t.Fatalf("expected only tab b's change, got %+v", ch)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
	}

	select {
	case ch := <-changes:
		t.Fatalf("unexpected extra change %+v", ch)
	default:
	}
}

func TestStore_WatchClosesOnCancel(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	changes, _ := s.Open("p1").Watch(ctx)
	cancel()

	select {
	case _, ok := <-changes:
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestStore_ForgetsEmptyProfiles(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	tab := s.Open("p1")
	changes, _ := tab.Watch(ctx)

	_ = tab.Set(ctx, map[string]string{"user": "{}", "huntsmart_active": "true"})
	_ = tab.Delete(ctx, "user", "huntsmart_active")
	cancel()
	for range changes {
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.profiles) != 0 || len(s.watchers) != 0 {
		t.Fatalf("expected no retained profile state, got %d areas %d watcher sets", len(s.profiles), len(s.watchers))
	}
}
