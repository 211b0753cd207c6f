package service

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/domain"
)

// DefaultVerifyDelay simulates the round trip to a verification authority.
const DefaultVerifyDelay = 1200 * time.Millisecond

const suspiciousRetryWarning = "Code not recognised. Repeated failed attempts are flagged as suspicious."

// ClaimEnqueuer accepts verified claims for recording.
type ClaimEnqueuer interface {
	Enqueue(rec domain.ClaimRecord)
}

// VerificationSnapshot is the rendered state of a verification surface.
type VerificationSnapshot struct {
	ID       string                    `json:"id"`
	Code     string                    `json:"code"`
	Status   domain.VerificationStatus `json:"status"`
	Earnings int64                     `json:"earnings"`
	Currency string                    `json:"currency"`
	Claims   int                       `json:"claims"`
	Booking  *domain.Booking           `json:"booking,omitempty"`
	Warning  string                    `json:"warning,omitempty"`
}

// VerificationSurface runs booking-code attempts for one agent panel. At most
// one attempt is in flight; its completion is cancelled when the surface
// closes. Earnings are local to the surface.
type VerificationSurface struct {
	id        string
	profileID string
	sched     Scheduler
	delay     time.Duration
	claims    ClaimEnqueuer
	now       func() time.Time
	log       zerolog.Logger

	mu         sync.Mutex
	code       string
	status     domain.VerificationStatus
	earnings   int64
	claimCount int
	booking    *domain.Booking
	pending    Task
	attempt    uint64
	closed     bool
	lastActive time.Time
}

// NewVerificationSurface opens an idle surface. claims may be nil.
func NewVerificationSurface(profileID string, sched Scheduler, delay time.Duration, claims ClaimEnqueuer, log zerolog.Logger) *VerificationSurface {
	if delay <= 0 {
		delay = DefaultVerifyDelay
	}
	v := &VerificationSurface{
		id:        uuid.NewString(),
		profileID: profileID,
		sched:     sched,
		delay:     delay,
		claims:    claims,
		now:       time.Now,
		status:    domain.VerificationIdle,
	}
	v.log = log.With().Str("surface_id", v.id).Logger()
	v.lastActive = v.now()
	return v
}

func (v *VerificationSurface) ID() string { return v.id }

// SetCode edits the presented code. Editing after a settled attempt returns
// the surface to idle.
func (v *VerificationSurface) SetCode(code string) (VerificationSnapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return v.snapshotLocked(), domain.ErrSurfaceClosed
	}
	if v.status == domain.VerificationVerifying {
		return v.snapshotLocked(), domain.ErrAttemptInFlight
	}
	v.code = code
	if v.status.Settled() {
		v.toIdleLocked()
	}
	v.lastActive = v.now()
	return v.snapshotLocked(), nil
}

// Submit starts an attempt with the current code. The outcome lands after
// the configured delay.
func (v *VerificationSurface) Submit() (VerificationSnapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.closed:
		return v.snapshotLocked(), domain.ErrSurfaceClosed
	case v.status == domain.VerificationVerifying:
		return v.snapshotLocked(), domain.ErrAttemptInFlight
	case v.status.Settled():
		return v.snapshotLocked(), domain.ErrAttemptSettled
	case utf8.RuneCountInString(strings.TrimSpace(v.code)) < domain.MinBookingCodeLength:
		return v.snapshotLocked(), domain.ErrCodeTooShort
	}

	v.status = domain.VerificationVerifying
	v.attempt++
	attempt, code := v.attempt, v.code
	v.pending = v.sched.After(v.delay, func() { v.complete(attempt, code) })
	v.lastActive = v.now()

	v.log.Debug().Uint64("attempt", attempt).Msg("verification started")
	return v.snapshotLocked(), nil
}

// Reset clears a settled attempt and its code.
func (v *VerificationSurface) Reset() (VerificationSnapshot, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return v.snapshotLocked(), domain.ErrSurfaceClosed
	}
	if v.status == domain.VerificationVerifying {
		return v.snapshotLocked(), domain.ErrAttemptInFlight
	}
	v.code = ""
	v.toIdleLocked()
	v.lastActive = v.now()
	return v.snapshotLocked(), nil
}

// Close tears the surface down and cancels a pending completion.
func (v *VerificationSurface) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	v.closed = true
	if v.pending != nil {
		v.pending.Cancel()
		v.pending = nil
	}
	v.log.Debug().Msg("verification surface closed")
}

// Snapshot returns the current state.
func (v *VerificationSurface) Snapshot() VerificationSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// IdleSince reports when the surface last changed; in-flight surfaces are
// never idle.
func (v *VerificationSurface) IdleSince() (time.Time, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.status == domain.VerificationVerifying {
		return time.Time{}, false
	}
	return v.lastActive, true
}

func (v *VerificationSurface) complete(attempt uint64, code string) {
	booking, ok := domain.LookupBooking(code)

	v.mu.Lock()
	if v.closed || attempt != v.attempt || v.status != domain.VerificationVerifying {
		v.mu.Unlock()
		return
	}
	v.pending = nil
	v.lastActive = v.now()

	var rec *domain.ClaimRecord
	if ok {
		v.status = domain.VerificationValid
		v.earnings += domain.ClaimPayout
		v.claimCount++
		v.booking = &booking
		rec = &domain.ClaimRecord{
			ProfileID: v.profileID,
			Code:      booking.Code,
			ClaimedAt: v.lastActive.UTC(),
			Claimant:  booking.Claimant,
			Location:  booking.Location,
			Amount:    domain.ClaimPayout,
			Currency:  domain.PayoutCurrency,
		}
	} else {
		v.status = domain.VerificationInvalid
	}
	status := v.status
	v.mu.Unlock()

	metrics.VerificationsTotal.WithLabelValues(string(status)).Inc()
	v.log.Info().Str("status", string(status)).Msg("verification settled")

	if rec != nil && v.claims != nil {
		v.claims.Enqueue(*rec)
	}
}

func (v *VerificationSurface) toIdleLocked() {
	v.status = domain.VerificationIdle
	v.booking = nil
}

func (v *VerificationSurface) snapshotLocked() VerificationSnapshot {
	snap := VerificationSnapshot{
		ID:       v.id,
		Code:     v.code,
		Status:   v.status,
		Earnings: v.earnings,
		Currency: domain.PayoutCurrency,
		Claims:   v.claimCount,
	}
	if v.booking != nil {
		b := *v.booking
		snap.Booking = &b
	}
	if v.status == domain.VerificationInvalid {
		snap.Warning = suspiciousRetryWarning
	}
	return snap
}
