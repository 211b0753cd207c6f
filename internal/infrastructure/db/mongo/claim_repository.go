package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

const collectionClaims = "claims"

// ClaimRepository implements ports.ClaimRepository using MongoDB.
type ClaimRepository struct {
	col *mongo.Collection
}

func NewClaimRepository(db *mongo.Database) *ClaimRepository {
	return &ClaimRepository{col: db.Collection(collectionClaims)}
}

// Insert appends a claim record. A unique index on (profile_id, code) turns a
// replayed claim into domain.ErrDuplicateClaim.
func (r *ClaimRepository) Insert(ctx context.Context, rec *domain.ClaimRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateClaim
		}
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// ListByProfile returns a profile's claims, newest first.
func (r *ClaimRepository) ListByProfile(ctx context.Context, profileID string, limit int) ([]*domain.ClaimRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "claimed_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cur, err := r.col.Find(ctx, bson.M{"profile_id": profileID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.ClaimRecord
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	return out, nil
}

// EnsureIndexes creates the indexes the claim queries rely on.
func (r *ClaimRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "profile_id", Value: 1}, {Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "profile_id", Value: 1}, {Key: "claimed_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
