package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

// EngineConfig sets the simulated latencies of every surface.
type EngineConfig struct {
	VerifyDelay time.Duration
	Checkout    CheckoutConfig
}

// Registry holds the live profiles of this process.
type Registry struct {
	opener ports.StorageOpener
	sched  Scheduler
	claims ClaimEnqueuer
	cfg    EngineConfig
	log    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	profiles map[string]*Profile
}

// NewRegistry creates an empty registry. claims may be nil.
func NewRegistry(opener ports.StorageOpener, sched Scheduler, claims ClaimEnqueuer, cfg EngineConfig, log zerolog.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		opener:   opener,
		sched:    sched,
		claims:   claims,
		cfg:      cfg,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
		profiles: make(map[string]*Profile),
	}
}

// Profile returns the profile with id, opening it on first use.
func (r *Registry) Profile(id string) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("open profile: %w", domain.ErrProfileNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		p = r.open(id)
		r.profiles[id] = p
		metrics.ProfilesOpen.Inc()
	}
	p.lastUsed = time.Now()
	return p, nil
}

func (r *Registry) open(id string) *Profile {
	log := r.log.With().Str("profile_id", id).Logger()
	storage := r.opener.Open(id)

	b := bus.New()
	b.OnDeliver(func(topic bus.Topic, delivered int) {
		metrics.BusDeliveriesTotal.WithLabelValues(string(topic)).Add(float64(delivered))
	})

	pass := NewEntitlementStore(storage, b, log)
	sessions := NewSessionStore(storage, b, pass, log)

	ctx, cancel := context.WithCancel(r.ctx)
	p := &Profile{
		ID:            id,
		Bus:           b,
		Sessions:      sessions,
		Passes:        pass,
		Roles:         NewRoleSelection(sessions, log),
		sched:         r.sched,
		claims:        r.claims,
		cfg:           r.cfg,
		log:           log,
		cancel:        cancel,
		verifications: make(map[string]*VerificationSurface),
		checkouts:     make(map[string]*Checkout),
	}
	p.release = func() { r.release(p) }

	if err := NewCrossTabRelay(storage, b, log).Start(ctx); err != nil {
		log.Warn().Err(err).Msg("cross-tab relay unavailable, other tabs' writes will not be observed")
	}
	return p
}

// Sweep closes surfaces idle since before cutoff and returns how many.
// Profiles left with no surfaces and no observers, and not resolved since
// cutoff, are released; their state stays in storage.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	profiles := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	r.mu.Unlock()

	n := 0
	for _, p := range profiles {
		n += p.SweepIdle(cutoff)

		r.mu.Lock()
		stale := p.lastUsed.Before(cutoff)
		r.mu.Unlock()
		if stale {
			p.releaseIfIdle()
		}
	}
	return n
}

// Len returns the number of profiles currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.profiles)
}

func (r *Registry) release(p *Profile) {
	r.mu.Lock()
	cur, ok := r.profiles[p.ID]
	if ok && cur == p {
		delete(r.profiles, p.ID)
	}
	r.mu.Unlock()

	if ok && cur == p {
		metrics.ProfilesOpen.Dec()
		p.log.Debug().Msg("profile released")
		p.Close()
	}
}

// Close tears down every profile.
func (r *Registry) Close() {
	r.mu.Lock()
	profiles := r.profiles
	r.profiles = make(map[string]*Profile)
	r.mu.Unlock()

	for _, p := range profiles {
		p.Close()
	}
	metrics.ProfilesOpen.Sub(float64(len(profiles)))
	r.cancel()
}

// Profile is one browser profile's worth of state: its stores, its bus and
// the surfaces currently attached to it.
type Profile struct {
	ID       string
	Bus      *bus.Bus
	Sessions *SessionStore
	Passes   *EntitlementStore
	Roles    *RoleSelection

	sched  Scheduler
	claims ClaimEnqueuer
	cfg    EngineConfig
	log    zerolog.Logger
	cancel context.CancelFunc

	release  func()
	lastUsed time.Time // guarded by the registry's mutex

	mu            sync.Mutex
	verifications map[string]*VerificationSurface
	checkouts     map[string]*Checkout
}

// SessionObserver returns an inactive observer of this profile's session.
func (p *Profile) SessionObserver() *Observer[*domain.Session] {
	return NewSessionObserver(p.Bus, p.Sessions, p.log)
}

// EntitlementObserver returns an inactive observer of this profile's pass.
func (p *Profile) EntitlementObserver() *Observer[domain.Entitlement] {
	return NewEntitlementObserver(p.Bus, p.Passes, p.log)
}

// OpenVerification attaches a new verification surface.
func (p *Profile) OpenVerification() *VerificationSurface {
	v := NewVerificationSurface(p.ID, p.sched, p.cfg.VerifyDelay, p.claims, p.log)

	p.mu.Lock()
	p.verifications[v.ID()] = v
	p.mu.Unlock()
	return v
}

// Verification looks up an attached verification surface.
func (p *Profile) Verification(id string) (*VerificationSurface, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	v, ok := p.verifications[id]
	if !ok {
		return nil, domain.ErrSurfaceNotFound
	}
	return v, nil
}

// CloseVerification detaches and tears down a verification surface.
func (p *Profile) CloseVerification(id string) error {
	p.mu.Lock()
	v, ok := p.verifications[id]
	delete(p.verifications, id)
	p.mu.Unlock()

	if !ok {
		return domain.ErrSurfaceNotFound
	}
	v.Close()
	return nil
}

// OpenCheckout starts a pass purchase. onDone runs after the grant and may
// be nil. The workflow detaches itself once the pass is granted.
func (p *Profile) OpenCheckout(onDone func(domain.Entitlement)) *Checkout {
	var c *Checkout
	c = NewCheckout(p.Passes, p.sched, p.cfg.Checkout, func(e domain.Entitlement) {
		p.forgetCheckout(c.ID())
		if onDone != nil {
			onDone(e)
		}
	}, p.log)

	p.mu.Lock()
	p.checkouts[c.ID()] = c
	p.mu.Unlock()
	return c
}

// Checkout looks up an attached checkout workflow.
func (p *Profile) Checkout(id string) (*Checkout, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.checkouts[id]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	return c, nil
}

// CloseCheckout dismisses and detaches a checkout workflow.
func (p *Profile) CloseCheckout(ctx context.Context, id string) (CheckoutSnapshot, error) {
	p.mu.Lock()
	c, ok := p.checkouts[id]
	delete(p.checkouts, id)
	p.mu.Unlock()

	if !ok {
		return CheckoutSnapshot{}, domain.ErrCheckoutNotFound
	}
	return c.Close(ctx), nil
}

// SignOut clears both stores and tears down every surface. The profile is
// then released from its registry unless an observer is still attached.
func (p *Profile) SignOut(ctx context.Context) error {
	p.closeSurfaces(ctx)
	if err := p.Passes.SignOut(ctx); err != nil {
		return err
	}
	if err := p.Sessions.SignOut(ctx); err != nil {
		return err
	}
	p.releaseIfIdle()
	return nil
}

// idle reports whether nothing is attached to the profile.
func (p *Profile) idle() bool {
	p.mu.Lock()
	surfaces := len(p.verifications) + len(p.checkouts)
	p.mu.Unlock()

	return surfaces == 0 &&
		p.Bus.Subscribers(bus.TopicSession) == 0 &&
		p.Bus.Subscribers(bus.TopicEntitlement) == 0
}

func (p *Profile) releaseIfIdle() {
	if p.release != nil && p.idle() {
		p.release()
	}
}

// SweepIdle closes surfaces idle since before cutoff.
func (p *Profile) SweepIdle(cutoff time.Time) int {
	var (
		staleV []*VerificationSurface
		staleC []*Checkout
	)

	p.mu.Lock()
	for id, v := range p.verifications {
		if since, idle := v.IdleSince(); idle && since.Before(cutoff) {
			staleV = append(staleV, v)
			delete(p.verifications, id)
		}
	}
	for id, c := range p.checkouts {
		if since, idle := c.IdleSince(); idle && since.Before(cutoff) {
			staleC = append(staleC, c)
			delete(p.checkouts, id)
		}
	}
	p.mu.Unlock()

	for _, v := range staleV {
		v.Close()
		metrics.SurfacesSweptTotal.WithLabelValues("verification").Inc()
	}
	for _, c := range staleC {
		c.Close(context.Background())
		metrics.SurfacesSweptTotal.WithLabelValues("checkout").Inc()
	}
	return len(staleV) + len(staleC)
}

// Close tears down every surface and stops the cross-tab relay.
func (p *Profile) Close() {
	p.closeSurfaces(context.Background())
	p.cancel()
}

func (p *Profile) forgetCheckout(id string) {
	p.mu.Lock()
	delete(p.checkouts, id)
	p.mu.Unlock()
}

func (p *Profile) closeSurfaces(ctx context.Context) {
	p.mu.Lock()
	vs, cs := p.verifications, p.checkouts
	p.verifications = make(map[string]*VerificationSurface)
	p.checkouts = make(map[string]*Checkout)
	p.mu.Unlock()

	for _, v := range vs {
		v.Close()
	}
	for _, c := range cs {
		c.Close(ctx)
	}
}
