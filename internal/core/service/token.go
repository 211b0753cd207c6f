package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenIssuer mints the bearer tokens that bind a client to its profile.
type TokenIssuer struct {
	secret string
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// NewProfileID returns a fresh profile identifier.
func NewProfileID() string { return uuid.NewString() }

// Issue signs a token for profileID.
func (t *TokenIssuer) Issue(profileID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"profile_id": profileID,
		"iat":        now.Unix(),
		"exp":        exp.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(t.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}
