package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/bus"
	"github.com/huntsmart/client-engine/internal/core/domain"
)

// readFrame returns the next "state" frame from an SSE stream.
func readFrame(t *testing.T, r *bufio.Reader) streamFrame {
	t.Helper()
	var event string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: ") && event == "state":
			var f streamFrame
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f); err != nil {
				t.Fatalf("decode frame: %v", err)
			}
			return f
		}
	}
}

// readUntil reads frames until match accepts one. Renders are coalesced, so
// intermediate frames may show a partially refreshed pair of observers.
func readUntil(t *testing.T, r *bufio.Reader, match func(streamFrame) bool) streamFrame {
	t.Helper()
	for i := 0; i < 10; i++ {
		if f := readFrame(t, r); match(f) {
			return f
		}
	}
	t.Fatalf("no matching frame")
	return streamFrame{}
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestStreamHandler_RendersStoreChanges(t *testing.T) {
	env := newTestEnv(t)
	p := env.profile(t, "watcher", domain.RoleClient)
	h := NewStreamHandler(env.registry, time.Hour, zerolog.Nop())

	env.e.GET("/v1/stream", h.Stream, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("profile_id", p.ID)
			return next(c)
		}
	})
	srv := httptest.NewServer(env.e)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	res, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer res.Body.Close()

	if ct := res.Header.Get(echo.HeaderContentType); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	r := bufio.NewReader(res.Body)

	first := readFrame(t, r)
	if first.Session == nil || first.Session.Email != "watcher@example.com" || first.Entitlement.Active {
		t.Fatalf("unexpected initial frame: %+v", first)
	}
	waitUntil(t, func() bool { return p.Bus.Subscribers(bus.TopicEntitlement) == 2 })

	if _, err := p.Passes.SetActive(context.Background(), true); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	frame := readUntil(t, r, func(f streamFrame) bool { return f.Entitlement.Active })
	if frame.Session == nil || !frame.Session.HasHuntSmartPass || frame.Entitlement.CreditsRemaining != domain.PassCreditsTotal {
		t.Fatalf("frame after grant is stale: %+v", frame)
	}

	if err := p.Sessions.SignOut(context.Background()); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	frame = readUntil(t, r, func(f streamFrame) bool { return f.Session == nil })
	if !frame.Entitlement.Active {
		t.Fatalf("session sign-out must not touch the pass")
	}

	cancel()
	waitUntil(t, func() bool {
		return p.Bus.Subscribers(bus.TopicEntitlement) == 0 && p.Bus.Subscribers(bus.TopicSession) == 0
	})
}
