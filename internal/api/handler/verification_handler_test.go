package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/service"
)

type verificationClient struct {
	t   *testing.T
	env *testEnv
	h   *VerificationHandler
	pid string
	id  string
}

func (vc *verificationClient) call(method, path, body string, fn func(*VerificationHandler) func(echo.Context) error) (service.VerificationSnapshot, int, error) {
	vc.t.Helper()
	c, rec := vc.env.request(method, path, body, vc.pid)
	c.SetParamNames("id")
	c.SetParamValues(vc.id)
	err := fn(vc.h)(c)
	var snap service.VerificationSnapshot
	if err == nil && rec.Body.Len() > 0 {
		decode(vc.t, rec, &snap)
	}
	return snap, rec.Code, err
}

func newVerificationClient(t *testing.T, env *testEnv, profileID string) *verificationClient {
	t.Helper()
	h := NewVerificationHandler(env.registry)
	c, rec := env.request(http.MethodPost, "/v1/verification", "", profileID)
	if err := h.Open(c); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var snap service.VerificationSnapshot
	decode(t, rec, &snap)
	if snap.Status != domain.VerificationIdle {
		t.Fatalf("new surface must be idle, got %s", snap.Status)
	}
	return &verificationClient{t: t, env: env, h: h, pid: profileID, id: snap.ID}
}

func setCode(h *VerificationHandler) func(echo.Context) error { return h.SetCode }
func submit(h *VerificationHandler) func(echo.Context) error { return h.Submit }
func get(h *VerificationHandler) func(echo.Context) error { return h.Get }
func reset(h *VerificationHandler) func(echo.Context) error { return h.Reset }
func closeV(h *VerificationHandler) func(echo.Context) error { return h.Close }

func TestVerificationHandler_ValidCode(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "agent-1", domain.RoleAgent)
	vc := newVerificationClient(t, env, p.ID)

	if _, _, err := vc.call(http.MethodPut, "/code", `{"code":"mea-ab12"}`, setCode); err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	snap, code, err := vc.call(http.MethodPost, "/submit", "", submit)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if code != http.StatusAccepted || snap.Status != domain.VerificationVerifying {
		t.Fatalf("expected 202 verifying, got %d %s", code, snap.Status)
	}

	if _, _, err := vc.call(http.MethodPost, "/submit", "", submit); !errors.Is(err, domain.ErrAttemptInFlight) {
		t.Fatalf("expected ErrAttemptInFlight, got %v", err)
	}

	env.sched.fire()
	snap, _, err = vc.call(http.MethodGet, "/", "", get)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if snap.Status != domain.VerificationValid || snap.Earnings != domain.ClaimPayout || snap.Claims != 1 {
		t.Fatalf("unexpected outcome: %+v", snap)
	}
	if snap.Booking == nil || snap.Booking.Code != "MEA-AB12" {
		t.Fatalf("booking details missing: %+v", snap.Booking)
	}
	if env.claims.count() != 1 {
		t.Fatalf("valid claim not enqueued")
	}
}

func TestVerificationHandler_InvalidCodeNeedsReset(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "agent-2", domain.RoleAgent)
	vc := newVerificationClient(t, env, p.ID)

	if _, _, err := vc.call(http.MethodPut, "/code", `{"code":"MEA-ZZ99"}`, setCode); err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	if _, _, err := vc.call(http.MethodPost, "/submit", "", submit); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	env.sched.fire()

	snap, _, _ := vc.call(http.MethodGet, "/", "", get)
	if snap.Status != domain.VerificationInvalid || snap.Earnings != 0 || snap.Warning == "" {
		t.Fatalf("unexpected outcome: %+v", snap)
	}

	if _, _, err := vc.call(http.MethodPost, "/submit", "", submit); !errors.Is(err, domain.ErrAttemptSettled) {
		t.Fatalf("expected ErrAttemptSettled, got %v", err)
	}

	snap, _, err := vc.call(http.MethodPost, "/reset", "", reset)
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if snap.Status != domain.VerificationIdle || snap.Code != "" {
		t.Fatalf("reset must return to an empty idle surface: %+v", snap)
	}
	if env.claims.count() != 0 {
		t.Fatalf("invalid code must not be claimed")
	}
}

func TestVerificationHandler_ShortCode(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "agent-3", domain.RoleAgent)
	vc := newVerificationClient(t, env, p.ID)

	if _, _, err := vc.call(http.MethodPut, "/code", `{"code":"MEA"}`, setCode); err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	if _, _, err := vc.call(http.MethodPost, "/submit", "", submit); !errors.Is(err, domain.ErrCodeTooShort) {
		t.Fatalf("expected ErrCodeTooShort, got %v", err)
	}
	snap, _, _ := vc.call(http.MethodGet, "/", "", get)
	if snap.Status != domain.VerificationIdle {
		t.Fatalf("short code must leave the surface idle, got %s", snap.Status)
	}
}

func TestVerificationHandler_CloseCancelsPending(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "agent-4", domain.RoleAgent)
	vc := newVerificationClient(t, env, p.ID)

	if _, _, err := vc.call(http.MethodPut, "/code", `{"code":"MEA-CD34"}`, setCode); err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	if _, _, err := vc.call(http.MethodPost, "/submit", "", submit); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if _, code, err := vc.call(http.MethodDelete, "/", "", closeV); err != nil || code != http.StatusNoContent {
		t.Fatalf("Close: %d %v", code, err)
	}

	env.sched.fire()
	if env.claims.count() != 0 {
		t.Fatalf("closed surface must not complete")
	}
	if _, _, err := vc.call(http.MethodGet, "/", "", get); !errors.Is(err, domain.ErrSurfaceNotFound) {
		t.Fatalf("expected ErrSurfaceNotFound, got %v", err)
	}
}

func TestVerificationHandler_CodeTooLong(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "agent-5", domain.RoleAgent)
	vc := newVerificationClient(t, env, p.ID)

	_, code, err := vc.call(http.MethodPut, "/code", `{"code":"MEA-0123456789012345678901234567890"}`, setCode)
	if err != nil {
		t.Fatalf("SetCode: %v", err)
	}
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", code)
	}
}
