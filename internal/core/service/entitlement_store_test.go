package service

import (
	"context"
	"errors"
	"testing"

	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/infrastructure/storage/memory"
)

func TestEntitlementStore_DefaultsToInactive(t *testing.T) {
	s := newMemoryStores()

	e, err := s.pass.Current(context.Background())
	if err != nil {
		t.Fatalf("Current returned error: %v", err)
	}
	if e.Active || e.CreditsRemaining != 0 || e.CreditsTotal != domain.PassCreditsTotal {
		t.Fatalf("unexpected initial entitlement: %+v", e)
	}
}

func TestEntitlementStore_SetActiveSeedsCredits(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()
	signals := countTopic(s.bus, bus.TopicEntitlement)

	e, err := s.pass.SetActive(ctx, true)
	if err != nil {
		t.Fatalf("SetActive returned error: %v", err)
	}
	if !e.Active || e.CreditsRemaining != domain.PassCreditsTotal {
		t.Fatalf("expected seeded pass, got %+v", e)
	}
	if *signals != 1 {
		t.Fatalf("expected 1 broadcast, got %d", *signals)
	}

	flag, _, _ := s.storage.Get(ctx, KeyPassActive)
	credits, _, _ := s.storage.Get(ctx, KeyPassCredits)
	if flag != "true" || credits != "5" {
		t.Fatalf("unexpected persisted values: active=%q credits=%q", flag, credits)
	}
}

func TestEntitlementStore_SetActiveTwiceDoesNotReseed(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()

	if _, err := s.pass.SetActive(ctx, true); err != nil {
		t.Fatalf("first SetActive: %v", err)
	}
	if _, err := s.pass.Consume(ctx); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	e, err := s.pass.SetActive(ctx, true)
	if err != nil {
		t.Fatalf("second SetActive: %v", err)
	}
	if !e.Active || e.CreditsRemaining != domain.PassCreditsTotal-1 {
		t.Fatalf("second activation must not re-seed, got %+v", e)
	}

	active, _ := s.pass.IsActive(ctx)
	if !active {
		t.Fatal("expected pass to stay active")
	}
}

func TestEntitlementStore_Deactivate(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()
	_, _ = s.pass.SetActive(ctx, true)

	e, err := s.pass.SetActive(ctx, false)
	if err != nil {
		t.Fatalf("SetActive(false): %v", err)
	}
	if e.Active || e.CreditsRemaining != 0 {
		t.Fatalf("expected inactive pass without credits, got %+v", e)
	}
}

func TestEntitlementStore_Consume(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()

	if _, err := s.pass.Consume(ctx); !errors.Is(err, domain.ErrPassInactive) {
		t.Fatalf("expected ErrPassInactive, got %v", err)
	}

	_, _ = s.pass.SetActive(ctx, true)
	for i := 0; i < domain.PassCreditsTotal; i++ {
		if _, err := s.pass.Consume(ctx); err != nil {
			t.Fatalf("Consume #%d: %v", i+1, err)
		}
	}
	if _, err := s.pass.Consume(ctx); !errors.Is(err, domain.ErrNoCredits) {
		t.Fatalf("expected ErrNoCredits, got %v", err)
	}

	e, _ := s.pass.Current(ctx)
	if e.CreditsRemaining != 0 || !e.Active {
		t.Fatalf("expected active pass with no credits, got %+v", e)
	}
}

func TestEntitlementStore_ClampsOnRead(t *testing.T) {
	cases := []struct {
		name    string
		stored  map[string]string
		active  bool
		credits int
	}{
		{"above total", map[string]string{KeyPassActive: "true", KeyPassCredits: "99"}, true, domain.PassCreditsTotal},
		{"negative", map[string]string{KeyPassActive: "true", KeyPassCredits: "-3"}, true, 0},
		{"malformed credits", map[string]string{KeyPassActive: "true", KeyPassCredits: "lots"}, true, 0},
		{"credits key missing", map[string]string{KeyPassActive: "true"}, true, domain.PassCreditsTotal},
		{"inactive with credits", map[string]string{KeyPassActive: "false", KeyPassCredits: "4"}, false, 0},
		{"garbage flag", map[string]string{KeyPassActive: "yes"}, false, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := memory.NewStore().Open("p")
			_ = storage.Set(context.Background(), tc.stored)
			s := newStores(storage)

			e, err := s.pass.Current(context.Background())
			if err != nil {
				t.Fatalf("Current returned error: %v", err)
			}
			if e.Active != tc.active || e.CreditsRemaining != tc.credits {
				t.Fatalf("expected active=%v credits=%d, got %+v", tc.active, tc.credits, e)
			}
		})
	}
}

func TestEntitlementStore_WriteFailureDoesNotBroadcast(t *testing.T) {
	storage := &failingStorage{ProfileStorage: memory.NewStore().Open("p"), failSet: true}
	s := newStores(storage)
	signals := countTopic(s.bus, bus.TopicEntitlement)

	if _, err := s.pass.SetActive(context.Background(), true); !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if *signals != 0 {
		t.Fatalf("expected no broadcast after failed write, got %d", *signals)
	}
}

func TestEntitlementStore_SignOut(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()
	_, _ = s.pass.SetActive(ctx, true)
	signals := countTopic(s.bus, bus.TopicEntitlement)

	if err := s.pass.SignOut(ctx); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	if *signals != 1 {
		t.Fatalf("expected 1 broadcast, got %d", *signals)
	}
	if _, ok, _ := s.storage.Get(ctx, KeyPassActive); ok {
		t.Fatal("expected pass key removed")
	}
	if _, ok, _ := s.storage.Get(ctx, KeyPassCredits); ok {
		t.Fatal("expected credits key removed")
	}
}

func TestEntitlementStore_Patch(t *testing.T) {
	s := newMemoryStores()
	ctx := context.Background()
	yes := true
	three := 3
	tooMany := domain.PassCreditsTotal + 1

	if _, err := s.pass.Patch(ctx, nil, &three); !errors.Is(err, domain.ErrPassInactive) {
		t.Fatalf("expected ErrPassInactive for credits on inactive pass, got %v", err)
	}

	e, err := s.pass.Patch(ctx, &yes, &three)
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if !e.Active || e.CreditsRemaining != 3 {
		t.Fatalf("expected active pass with 3 credits, got %+v", e)
	}

	if _, err := s.pass.Patch(ctx, nil, &tooMany); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if e, _ := s.pass.Current(ctx); e.CreditsRemaining != 3 {
		t.Fatalf("rejected patch must not mutate, got %+v", e)
	}
}
