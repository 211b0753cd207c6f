package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	env := newTestEnv(t)
	c, rec := env.request(http.MethodGet, "/health", "", "")

	if err := NewHealthHandler(nil).Liveness(c); err != nil {
		t.Fatalf("Liveness: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	cases := []struct {
		name       string
		deps       map[string]Pinger
		wantCode   int
		wantStatus string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{"all healthy", map[string]Pinger{"redis": ok, "mongo": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Pinger{"redis": ok, "mongo": down}, http.StatusServiceUnavailable, "degraded"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			c, rec := env.request(http.MethodGet, "/health/ready", "", "")

			if err := NewHealthHandler(tc.deps).Readiness(c); err != nil {
				t.Fatalf("Readiness: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			decode(t, rec, &resp)
			if resp.Status != tc.wantStatus {
				t.Fatalf("status = %q, want %q", resp.Status, tc.wantStatus)
			}
			if len(resp.Dependencies) != len(tc.deps) {
				t.Fatalf("expected %d dependency reports, got %d", len(tc.deps), len(resp.Dependencies))
			}
			if d, ok := resp.Dependencies["mongo"]; ok && tc.wantCode != http.StatusOK && d.Error == "" {
				t.Fatalf("failing dependency must carry its error")
			}
		})
	}
}
