package ports

import (
	"context"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// ClaimService records verified booking codes and serves claim history.
type ClaimService interface {
	Record(ctx context.Context, rec domain.ClaimRecord) error
	History(ctx context.Context, profileID string) ([]domain.ClaimRecord, error)
}

// ClaimPublisher announces recorded claims to downstream consumers.
type ClaimPublisher interface {
	PublishClaimRecorded(ctx context.Context, rec domain.ClaimRecord) error
}
