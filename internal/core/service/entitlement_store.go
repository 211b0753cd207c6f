package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

// Persisted keys owned by EntitlementStore.
const (
	KeyPassActive  = "huntsmart_active"
	KeyPassCredits = "huntsmart_credits"
)

// EntitlementStore is the single writer of a profile's HuntSmart Pass.
// Every persisted write is followed by a huntsmart_update broadcast while the
// store lock is still held, so mutations never interleave.
type EntitlementStore struct {
	storage ports.ProfileStorage
	bus     *bus.Bus
	log     zerolog.Logger
	mu      sync.Mutex
}

func NewEntitlementStore(storage ports.ProfileStorage, b *bus.Bus, log zerolog.Logger) *EntitlementStore {
	return &EntitlementStore{storage: storage, bus: b, log: log}
}

// Current reads the persisted pass. An absent or unreadable flag means no pass.
func (s *EntitlementStore) Current(ctx context.Context) (domain.Entitlement, error) {
	return s.read(ctx)
}

// IsActive reports whether the profile holds an active pass.
func (s *EntitlementStore) IsActive(ctx context.Context) (bool, error) {
	e, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	return e.Active, nil
}

// SetActive grants or revokes the pass. Granting seeds the full credit
// balance; granting an already active pass changes nothing.
func (s *EntitlementStore) SetActive(ctx context.Context, active bool) (domain.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return cur, err
	}
	if active && cur.Active {
		return cur, nil
	}
	return s.write(ctx, seeded(active), "set_active")
}

// Consume spends one inspection credit.
func (s *EntitlementStore) Consume(ctx context.Context) (domain.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return cur, err
	}
	if !cur.Active {
		return cur, domain.ErrPassInactive
	}
	if cur.CreditsRemaining == 0 {
		return cur, domain.ErrNoCredits
	}
	cur.CreditsRemaining--
	return s.write(ctx, cur, "consume")
}

// Patch applies the entitlement half of a session update in one write.
// A nil field is left untouched.
func (s *EntitlementStore) Patch(ctx context.Context, active *bool, credits *int) (domain.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return cur, err
	}
	next := cur
	if active != nil && *active != cur.Active {
		next = seeded(*active)
	}
	if credits != nil {
		if *credits < 0 || *credits > domain.PassCreditsTotal {
			return cur, fmt.Errorf("patch entitlement: credits %d: %w", *credits, domain.ErrInvalidInput)
		}
		if !next.Active && *credits > 0 {
			return cur, fmt.Errorf("patch entitlement: %w", domain.ErrPassInactive)
		}
		next.CreditsRemaining = *credits
	}
	if next == cur {
		return cur, nil
	}
	return s.write(ctx, next, "patch")
}

// SignOut removes the pass keys and broadcasts.
func (s *EntitlementStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, KeyPassActive, KeyPassCredits); err != nil {
		return fmt.Errorf("sign out entitlement: %w", err)
	}
	metrics.StoreWritesTotal.WithLabelValues("entitlement", "sign_out").Inc()
	s.bus.Publish(ctx, bus.Event{Topic: bus.TopicEntitlement})
	return nil
}

func seeded(active bool) domain.Entitlement {
	e := domain.InactiveEntitlement()
	e.Active = active
	if active {
		e.CreditsRemaining = e.CreditsTotal
	}
	return e
}

func (s *EntitlementStore) read(ctx context.Context) (domain.Entitlement, error) {
	flag, ok, err := s.storage.Get(ctx, KeyPassActive)
	if err != nil {
		return domain.InactiveEntitlement(), fmt.Errorf("read entitlement: %w", err)
	}
	if !ok || flag != "true" {
		return domain.InactiveEntitlement(), nil
	}

	e := seeded(true)
	raw, ok, err := s.storage.Get(ctx, KeyPassCredits)
	if err != nil {
		return domain.InactiveEntitlement(), fmt.Errorf("read entitlement credits: %w", err)
	}
	// A pass written before credits were tracked keeps its full balance.
	if ok {
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			s.log.Warn().Str("value", raw).Msg("malformed credit balance, treating as spent")
			n = 0
		}
		e.CreditsRemaining = n
	}
	return e.Normalize(), nil
}

// write persists both keys in one storage call, then broadcasts.
func (s *EntitlementStore) write(ctx context.Context, e domain.Entitlement, op string) (domain.Entitlement, error) {
	e = e.Normalize()
	err := s.storage.Set(ctx, map[string]string{
		KeyPassActive:  strconv.FormatBool(e.Active),
		KeyPassCredits: strconv.Itoa(e.CreditsRemaining),
	})
	if err != nil {
		return e, fmt.Errorf("write entitlement: %w", err)
	}
	metrics.StoreWritesTotal.WithLabelValues("entitlement", op).Inc()
	s.log.Debug().Str("op", op).Bool("active", e.Active).Int("credits", e.CreditsRemaining).Msg("entitlement written")

	s.bus.Publish(ctx, bus.Event{Topic: bus.TopicEntitlement})
	return e, nil
}
