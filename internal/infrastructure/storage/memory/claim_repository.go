package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// ClaimRepository keeps claim records in process memory.
type ClaimRepository struct {
	mu      sync.Mutex
	records map[string][]*domain.ClaimRecord
}

func NewClaimRepository() *ClaimRepository {
	return &ClaimRepository{records: make(map[string][]*domain.ClaimRecord)}
}

func (r *ClaimRepository) Insert(_ context.Context, rec *domain.ClaimRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *rec
	r.records[rec.ProfileID] = append(r.records[rec.ProfileID], &clone)
	return nil
}

func (r *ClaimRepository) ListByProfile(_ context.Context, profileID string, limit int) ([]*domain.ClaimRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.ClaimRecord, 0, len(r.records[profileID]))
	for _, rec := range r.records[profileID] {
		clone := *rec
		out = append(out, &clone)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ClaimedAt.After(out[j].ClaimedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ClaimDedup remembers claimed (profile, code) pairs for the process lifetime.
type ClaimDedup struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewClaimDedup() *ClaimDedup {
	return &ClaimDedup{seen: make(map[string]struct{})}
}

// MarkIfNew reports true the first time a pair is seen.
func (d *ClaimDedup) MarkIfNew(_ context.Context, profileID, code string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := profileID + ":" + domain.NormalizeBookingCode(code)
	if _, ok := d.seen[k]; ok {
		return false, nil
	}
	d.seen[k] = struct{}{}
	return true, nil
}
