package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/service"
	"github.com/huntsmart/client-engine/internal/infrastructure/storage/memory"
)

// ---------------------------------------------------------------------------
// Manual scheduler
// ---------------------------------------------------------------------------

type manualTask struct {
	mu   *sync.Mutex
	done bool
}

func (t *manualTask) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	return true
}

type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
	fns   []func()
}

func (s *manualScheduler) After(_ time.Duration, fn func()) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{mu: &s.mu}
	s.tasks = append(s.tasks, t)
	s.fns = append(s.fns, fn)
	return t
}

// fire runs every live task scheduled so far.
func (s *manualScheduler) fire() {
	s.mu.Lock()
	tasks, fns := s.tasks, s.fns
	s.tasks, s.fns = nil, nil
	s.mu.Unlock()

	for i, t := range tasks {
		s.mu.Lock()
		skip := t.done
		t.done = true
		s.mu.Unlock()
		if !skip {
			fns[i]()
		}
	}
}

// ---------------------------------------------------------------------------
// Claim enqueuer stub
// ---------------------------------------------------------------------------

type stubEnqueuer struct {
	mu      sync.Mutex
	records []domain.ClaimRecord
}

func (s *stubEnqueuer) Enqueue(rec domain.ClaimRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *stubEnqueuer) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// ---------------------------------------------------------------------------
// Test environment
// ---------------------------------------------------------------------------

type testEnv struct {
	e        *echo.Echo
	registry *service.Registry
	sched    *manualScheduler
	claims   *stubEnqueuer
	tokens   *service.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sched := &manualScheduler{}
	claims := &stubEnqueuer{}
	registry := service.NewRegistry(memory.NewStore(), sched, claims, service.EngineConfig{
		VerifyDelay: time.Second,
		Checkout: service.CheckoutConfig{
			ProcessingDelay: time.Second,
			SuccessDelay:    time.Second,
		},
	}, zerolog.Nop())
	t.Cleanup(registry.Close)

	e := echo.New()
	e.Validator = NewValidator()
	return &testEnv{
		e:        e,
		registry: registry,
		sched:    sched,
		claims:   claims,
		tokens:   service.NewTokenIssuer("secret", time.Hour),
	}
}

// request builds a context for profileID; an empty profileID leaves the
// request anonymous.
func (env *testEnv) request(method, path, body, profileID string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if profileID != "" {
		c.Set("profile_id", profileID)
	}
	return c, rec
}

// profile opens profileID and signs it up with the given role.
func (env *testEnv) profile(t *testing.T, profileID string, role domain.Role) *service.Profile {
	t.Helper()
	p, err := env.registry.Profile(profileID)
	if err != nil {
		t.Fatalf("open profile: %v", err)
	}
	ctx := context.Background()
	if _, err := p.Sessions.SignUp(ctx, profileID+"@example.com", ""); err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if role != domain.RoleUnset {
		if _, err := p.Sessions.SetRole(ctx, role); err != nil {
			t.Fatalf("set role: %v", err)
		}
	}
	return p
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}
