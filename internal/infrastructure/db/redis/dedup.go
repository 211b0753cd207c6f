package redis

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

const claimDedupTTL = 30 * 24 * time.Hour

// ClaimDedup guarantees a booking code is credited once per profile.
// Key format: claim:<profile_id>:<blake2b(code)>
// Only a digest of the code appears in the key.
type ClaimDedup struct {
	client *redis.Client
}

// NewClaimDedup creates a ClaimDedup wrapping the given Redis client.
func NewClaimDedup(client *redis.Client) *ClaimDedup {
	return &ClaimDedup{client: client}
}

// MarkIfNew atomically records the pair and reports whether it was unseen.
func (d *ClaimDedup) MarkIfNew(ctx context.Context, profileID, code string) (bool, error) {
	ok, err := d.client.SetNX(ctx, d.key(profileID, code), "1", claimDedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("claim dedup: %w", err)
	}
	return ok, nil
}

func (d *ClaimDedup) key(profileID, code string) string {
	sum := blake2b.Sum256([]byte(domain.NormalizeBookingCode(code)))
	return fmt.Sprintf("claim:%s:%s", profileID, hex.EncodeToString(sum[:16]))
}
