package domain

import "time"

// ClaimRecord is one verified booking code credited to an agent.
type ClaimRecord struct {
	ProfileID string    `json:"-" bson:"profile_id"`
	Code      string    `json:"code" bson:"code"`
	ClaimedAt time.Time `json:"claimedAt" bson:"claimed_at"`
	Claimant  string    `json:"claimant" bson:"claimant"`
	Location  string    `json:"location" bson:"location"`
	Amount    int64     `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Seed      bool      `json:"seed,omitempty" bson:"-"`
}
