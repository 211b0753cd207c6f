package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/domain"
)

const (
	DefaultProcessingDelay = 2 * time.Second
	DefaultSuccessDelay    = 1500 * time.Millisecond

	grantTimeout = 5 * time.Second
)

// PassGranter activates a HuntSmart Pass.
type PassGranter interface {
	SetActive(ctx context.Context, active bool) (domain.Entitlement, error)
}

// CheckoutConfig sets the simulated payment latencies.
type CheckoutConfig struct {
	ProcessingDelay time.Duration
	SuccessDelay    time.Duration
}

// PaymentDetails is collected for display only and never stored.
type PaymentDetails struct {
	CardholderName string
	CardNumber     string
	Expiry         string
	CVC            string
}

// CheckoutSnapshot is the rendered state of a checkout modal.
type CheckoutSnapshot struct {
	ID       string              `json:"id"`
	Stage    domain.PaymentStage `json:"stage"`
	Price    int64               `json:"price"`
	Currency string              `json:"currency"`
	Granted  bool                `json:"granted"`
}

// Checkout is one pass purchase workflow: details, processing, success and
// then the grant. The grant runs at most once, and never when the workflow is
// closed before success.
type Checkout struct {
	id     string
	pass   PassGranter
	sched  Scheduler
	cfg    CheckoutConfig
	onDone func(domain.Entitlement)
	now    func() time.Time
	log    zerolog.Logger

	mu         sync.Mutex
	stage      domain.PaymentStage
	pending    Task
	granted    bool
	lastActive time.Time
}

// NewCheckout opens a workflow in the details stage. onDone runs after the
// grant and may be nil.
func NewCheckout(pass PassGranter, sched Scheduler, cfg CheckoutConfig, onDone func(domain.Entitlement), log zerolog.Logger) *Checkout {
	if cfg.ProcessingDelay <= 0 {
		cfg.ProcessingDelay = DefaultProcessingDelay
	}
	if cfg.SuccessDelay <= 0 {
		cfg.SuccessDelay = DefaultSuccessDelay
	}
	c := &Checkout{
		id:     uuid.NewString(),
		pass:   pass,
		sched:  sched,
		cfg:    cfg,
		onDone: onDone,
		now:    time.Now,
		stage:  domain.PaymentDetails,
	}
	c.log = log.With().Str("checkout_id", c.id).Logger()
	c.lastActive = c.now()
	return c
}

func (c *Checkout) ID() string { return c.id }

// Submit moves details to processing. The payment fields are cosmetic.
func (c *Checkout) Submit(_ PaymentDetails) (CheckoutSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.stage.CanTransitionTo(domain.PaymentProcessing) {
		return c.snapshotLocked(), domain.ErrInvalidStage
	}
	c.stage = domain.PaymentProcessing
	c.lastActive = c.now()
	c.pending = c.sched.After(c.cfg.ProcessingDelay, c.succeed)

	c.log.Debug().Msg("payment processing")
	return c.snapshotLocked(), nil
}

// Close dismisses the workflow. Before success nothing is granted; once the
// payment succeeded the grant is flushed immediately.
func (c *Checkout) Close(ctx context.Context) CheckoutSnapshot {
	c.mu.Lock()
	switch c.stage {
	case domain.PaymentDetails, domain.PaymentProcessing:
		c.cancelLocked()
		c.stage = domain.PaymentClosed
		metrics.CheckoutsTotal.WithLabelValues("abandoned").Inc()
		c.log.Info().Msg("checkout closed before payment")
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	case domain.PaymentSuccess:
		c.cancelLocked()
		c.mu.Unlock()
		c.finish(ctx)
		return c.Snapshot()
	default:
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap
	}
}

// Snapshot returns the current state.
func (c *Checkout) Snapshot() CheckoutSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// IdleSince reports when the workflow last changed; workflows with pending
// payment stages are never idle.
func (c *Checkout) IdleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage == domain.PaymentProcessing || c.stage == domain.PaymentSuccess {
		return time.Time{}, false
	}
	return c.lastActive, true
}

func (c *Checkout) succeed() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stage != domain.PaymentProcessing {
		return
	}
	c.stage = domain.PaymentSuccess
	c.lastActive = c.now()
	c.pending = c.sched.After(c.cfg.SuccessDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), grantTimeout)
		defer cancel()
		c.finish(ctx)
	})
	c.log.Debug().Msg("payment succeeded")
}

// finish grants the pass exactly once and tears the workflow down.
func (c *Checkout) finish(ctx context.Context) {
	c.mu.Lock()
	if c.stage != domain.PaymentSuccess || c.granted {
		c.mu.Unlock()
		return
	}
	c.granted = true
	c.stage = domain.PaymentDone
	c.pending = nil
	c.lastActive = c.now()
	c.mu.Unlock()

	e, err := c.pass.SetActive(ctx, true)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("grant_failed").Inc()
		c.log.Error().Err(err).Msg("pass grant failed after successful payment")
		return
	}
	metrics.CheckoutsTotal.WithLabelValues("granted").Inc()
	metrics.PassesGrantedTotal.Inc()
	c.log.Info().Int("credits", e.CreditsRemaining).Msg("pass granted")

	if c.onDone != nil {
		c.onDone(e)
	}
}

func (c *Checkout) cancelLocked() {
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

func (c *Checkout) snapshotLocked() CheckoutSnapshot {
	return CheckoutSnapshot{
		ID:       c.id,
		Stage:    c.stage,
		Price:    domain.PassPrice,
		Currency: domain.PayoutCurrency,
		Granted:  c.granted,
	}
}
