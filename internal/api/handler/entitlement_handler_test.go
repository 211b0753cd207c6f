package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

func TestEntitlementHandler_Get(t *testing.T) {
	env := newTestEnv(t)
	h := NewEntitlementHandler(env.registry)

	c, rec := env.request(http.MethodGet, "/v1/entitlement", "", "fresh")
	if err := h.Get(c); err != nil {
		t.Fatalf("Get: %v", err)
	}
	var e domain.Entitlement
	decode(t, rec, &e)
	if e.Active || e.CreditsRemaining != 0 || e.CreditsTotal != domain.PassCreditsTotal {
		t.Fatalf("unexpected default entitlement: %+v", e)
	}
}

func TestEntitlementHandler_ConsumeInspection(t *testing.T) {
	env := newTestEnv(t)
	h := NewEntitlementHandler(env.registry)
	p := env.profile(t, "inspector", domain.RoleClient)

	c, _ := env.request(http.MethodPost, "/v1/entitlement/inspections", "", p.ID)
	if err := h.ConsumeInspection(c); !errors.Is(err, domain.ErrPassInactive) {
		t.Fatalf("expected ErrPassInactive, got %v", err)
	}

	if _, err := p.Passes.SetActive(context.Background(), true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	for i := domain.PassCreditsTotal - 1; i >= 0; i-- {
		c, rec := env.request(http.MethodPost, "/v1/entitlement/inspections", "", p.ID)
		if err := h.ConsumeInspection(c); err != nil {
			t.Fatalf("ConsumeInspection: %v", err)
		}
		var e domain.Entitlement
		decode(t, rec, &e)
		if e.CreditsRemaining != i {
			t.Fatalf("credits = %d, want %d", e.CreditsRemaining, i)
		}
	}

	c, _ = env.request(http.MethodPost, "/v1/entitlement/inspections", "", p.ID)
	if err := h.ConsumeInspection(c); !errors.Is(err, domain.ErrNoCredits) {
		t.Fatalf("expected ErrNoCredits, got %v", err)
	}
}
