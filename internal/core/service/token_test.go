package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	id := NewProfileID()

	signed, exp, err := issuer.Issue(id)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", exp)
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !tkn.Valid {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims["profile_id"] != id {
		t.Fatalf("expected profile_id %q, got %v", id, claims["profile_id"])
	}
}

func TestTokenIssuer_DefaultTTL(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	if issuer.ttl != 24*time.Hour {
		t.Fatalf("expected 24h default, got %v", issuer.ttl)
	}
	if NewProfileID() == NewProfileID() {
		t.Fatal("profile ids must be unique")
	}
}
