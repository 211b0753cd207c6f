package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

// KeyUser holds the persisted session record.
const KeyUser = "user"

// sessionRecord is the persisted shape of a session. Entitlement fields are
// owned by EntitlementStore and never written here.
type sessionRecord struct {
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Avatar string      `json:"avatar"`
}

// SessionStore owns the identity record of a profile.
type SessionStore struct {
	storage ports.ProfileStorage
	bus     *bus.Bus
	pass    *EntitlementStore
	log     zerolog.Logger
	mu      sync.Mutex
}

func NewSessionStore(storage ports.ProfileStorage, b *bus.Bus, pass *EntitlementStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{storage: storage, bus: b, pass: pass, log: log}
}

// Current returns the persisted session with its entitlement projection, or
// nil when signed out.
func (s *SessionStore) Current(ctx context.Context) (*domain.Session, error) {
	rec, ok, err := s.load(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return s.view(ctx, rec)
}

// SignUp creates a fresh session with no role, replacing any existing one.
func (s *SessionStore) SignUp(ctx context.Context, email, name string) (*domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("sign up: email required: %w", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultName(email)
	}
	rec := sessionRecord{
		Name:   name,
		Email:  email,
		Role:   domain.RoleUnset,
		Avatar: domain.AvatarFor(email),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, rec, "sign_up"); err != nil {
		return nil, err
	}
	s.log.Info().Str("email", email).Msg("session created")
	return s.view(ctx, rec)
}

// SetRole records the chosen role on the existing session.
func (s *SessionStore) SetRole(ctx context.Context, role domain.Role) (*domain.Session, error) {
	if !role.IsSelectable() {
		return nil, fmt.Errorf("set role %q: %w", role, domain.ErrInvalidRole)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("set role: %w", domain.ErrNoSession)
	}
	rec.Role = role
	if err := s.persist(ctx, rec, "set_role"); err != nil {
		return nil, err
	}
	return s.view(ctx, rec)
}

// UpdateFields shallow-merges p into the session. Entitlement fields are
// handed to EntitlementStore so that the pass keeps a single writer.
func (s *SessionStore) UpdateFields(ctx context.Context, p domain.SessionPatch) (*domain.Session, error) {
	if p.Role != nil && !p.Role.IsSelectable() {
		return nil, fmt.Errorf("update session: role %q: %w", *p.Role, domain.ErrInvalidRole)
	}
	if p.Email != nil && strings.TrimSpace(*p.Email) == "" {
		return nil, fmt.Errorf("update session: email required: %w", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("update session: %w", domain.ErrNoSession)
	}

	if p.TouchesEntitlement() {
		if _, err := s.pass.Patch(ctx, p.HasHuntSmartPass, p.HuntSmartTokens); err != nil {
			return nil, fmt.Errorf("update session: %w", err)
		}
	}

	next := rec
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Email != nil {
		next.Email = strings.TrimSpace(*p.Email)
		next.Avatar = domain.AvatarFor(next.Email)
	}
	if p.Avatar != nil {
		next.Avatar = *p.Avatar
	}
	if p.Role != nil {
		next.Role = *p.Role
	}
	if next != rec {
		if err := s.persist(ctx, next, "update_fields"); err != nil {
			return nil, err
		}
	}
	return s.view(ctx, next)
}

// SignOut deletes the session record and broadcasts.
func (s *SessionStore) SignOut(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, KeyUser); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	metrics.StoreWritesTotal.WithLabelValues("session", "sign_out").Inc()
	s.log.Info().Msg("session removed")

	s.bus.Publish(ctx, bus.Event{Topic: bus.TopicSession})
	return nil
}

func (s *SessionStore) load(ctx context.Context) (sessionRecord, bool, error) {
	raw, ok, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		return sessionRecord{}, false, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return sessionRecord{}, false, nil
	}
	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.log.Warn().Err(err).Msg("malformed session record, treating as signed out")
		return sessionRecord{}, false, nil
	}
	return rec, true, nil
}

func (s *SessionStore) persist(ctx context.Context, rec sessionRecord, op string) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Set(ctx, map[string]string{KeyUser: string(b)}); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	metrics.StoreWritesTotal.WithLabelValues("session", op).Inc()

	s.bus.Publish(ctx, bus.Event{Topic: bus.TopicSession})
	return nil
}

func (s *SessionStore) view(ctx context.Context, rec sessionRecord) (*domain.Session, error) {
	e, err := s.pass.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		Name:             rec.Name,
		Email:            rec.Email,
		Role:             rec.Role,
		Avatar:           rec.Avatar,
		HasHuntSmartPass: e.Active,
		HuntSmartTokens:  e.CreditsRemaining,
	}, nil
}
