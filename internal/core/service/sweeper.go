package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const (
	DefaultSweepSchedule  = "@every 1m"
	DefaultSurfaceIdleTTL = 15 * time.Minute
)

// Sweeper periodically tears down surfaces nobody has touched for a while,
// cancelling their pending completions.
type Sweeper struct {
	cron     *cron.Cron
	registry *Registry
	ttl      time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

// NewSweeper schedules sweeps on a standard cron spec or descriptor such as
// "@every 1m".
func NewSweeper(registry *Registry, schedule string, ttl time.Duration, log zerolog.Logger) (*Sweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if ttl <= 0 {
		ttl = DefaultSurfaceIdleTTL
	}
	s := &Sweeper{
		cron:     cron.New(),
		registry: registry,
		ttl:      ttl,
		now:      time.Now,
		log:      log,
	}
	if _, err := s.cron.AddFunc(schedule, s.Run); err != nil {
		return nil, fmt.Errorf("sweeper schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *Sweeper) Start() { s.cron.Start() }

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Sweeper) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Run performs one sweep.
func (s *Sweeper) Run() {
	n := s.registry.Sweep(s.now().Add(-s.ttl))
	if n > 0 {
		s.log.Info().Int("surfaces", n).Dur("idle_ttl", s.ttl).Msg("idle surfaces swept")
	}
}
