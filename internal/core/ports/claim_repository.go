package ports

import (
	"context"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// ClaimRepository persists verified claim records.
type ClaimRepository interface {
	Insert(ctx context.Context, rec *domain.ClaimRecord) error
	// ListByProfile returns a profile's claims, newest first.
	ListByProfile(ctx context.Context, profileID string, limit int) ([]*domain.ClaimRecord, error)
}
