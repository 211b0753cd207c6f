package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/api/metrics"
	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

const claimHistoryLimit = 50

// ClaimDedup abstracts the per-profile claim idempotency store (Redis).
type ClaimDedup interface {
	MarkIfNew(ctx context.Context, profileID, code string) (bool, error)
}

type claimService struct {
	repo  ports.ClaimRepository
	dedup ClaimDedup
	pub   ports.ClaimPublisher
	log   zerolog.Logger
}

// NewClaimService returns a ClaimService implementation.
func NewClaimService(repo ports.ClaimRepository, dedup ClaimDedup, pub ports.ClaimPublisher, log zerolog.Logger) ports.ClaimService {
	return &claimService{repo: repo, dedup: dedup, pub: pub, log: log}
}

// Record deduplicates, persists and announces a verified claim.
func (s *claimService) Record(ctx context.Context, rec domain.ClaimRecord) error {
	// 1. Idempotency check: a code is credited once per profile.
	isNew, err := s.dedup.MarkIfNew(ctx, rec.ProfileID, rec.Code)
	switch {
	case err != nil:
		s.log.Warn().Err(err).Str("profile_id", rec.ProfileID).Msg("dedup check failed, recording anyway")
	case !isNew:
		metrics.ClaimsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("profile_id", rec.ProfileID).Str("code", rec.Code).Msg("duplicate claim skipped")
		return nil
	default:
		metrics.ClaimsDedupTotal.WithLabelValues("miss").Inc()
	}

	// 2. Persist. The unique index catches replays the dedup store missed.
	if err := s.repo.Insert(ctx, &rec); err != nil {
		if errors.Is(err, domain.ErrDuplicateClaim) {
			s.log.Debug().Str("profile_id", rec.ProfileID).Str("code", rec.Code).Msg("claim already recorded")
			return nil
		}
		return fmt.Errorf("record claim: %w", err)
	}
	metrics.ClaimsRecordedTotal.Inc()

	// 3. Announce. Consumers can rebuild from the ledger, so this is best effort.
	if err := s.pub.PublishClaimRecorded(ctx, rec); err != nil {
		s.log.Warn().Err(err).Str("profile_id", rec.ProfileID).Msg("claim event not published")
	}

	s.log.Info().Str("profile_id", rec.ProfileID).Str("code", rec.Code).Int64("amount", rec.Amount).Msg("claim recorded")
	return nil
}

// History returns recorded claims and the seed history, newest first.
func (s *claimService) History(ctx context.Context, profileID string) ([]domain.ClaimRecord, error) {
	recorded, err := s.repo.ListByProfile(ctx, profileID, claimHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("claim history: %w", err)
	}

	out := make([]domain.ClaimRecord, 0, len(recorded)+len(seedClaims))
	for _, r := range recorded {
		out = append(out, *r)
	}
	out = append(out, seedClaims...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClaimedAt.After(out[j].ClaimedAt) })
	return out, nil
}

// seedClaims is the sample history every agent dashboard starts with.
var seedClaims = []domain.ClaimRecord{
	{
		Code:      "MEA-QX41",
		ClaimedAt: time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC),
		Claimant:  "Adaeze Okafor",
		Location:  "Ikeja GRA, Lagos",
		Amount:    domain.ClaimPayout,
		Currency:  domain.PayoutCurrency,
		Seed:      true,
	},
	{
		Code:      "MEA-LM27",
		ClaimedAt: time.Date(2024, time.March, 9, 15, 0, 0, 0, time.UTC),
		Claimant:  "Emeka Obi",
		Location:  "Surulere, Lagos",
		Amount:    domain.ClaimPayout,
		Currency:  domain.PayoutCurrency,
		Seed:      true,
	},
	{
		Code:      "MEA-TP93",
		ClaimedAt: time.Date(2024, time.February, 28, 11, 45, 0, 0, time.UTC),
		Claimant:  "Halima Yusuf",
		Location:  "Maitama, Abuja",
		Amount:    domain.ClaimPayout,
		Currency:  domain.PayoutCurrency,
		Seed:      true,
	},
}
