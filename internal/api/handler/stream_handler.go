package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

const defaultKeepAlive = 15 * time.Second

// StreamHandler renders a session observer and an entitlement observer as a
// Server-Sent Events stream. The observers live exactly as long as the
// connection.
type StreamHandler struct {
	profiles  ProfileSource
	keepAlive time.Duration
	log       zerolog.Logger
}

func NewStreamHandler(profiles ProfileSource, keepAlive time.Duration, log zerolog.Logger) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &StreamHandler{profiles: profiles, keepAlive: keepAlive, log: log}
}

// Stream handles GET /v1/stream.
//
// @Summary      Observe session and pass
// @Tags         session
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {object}  streamFrame
// @Router       /v1/stream [get]
func (h *StreamHandler) Stream(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	// Renders only mark the stream dirty; frames are written from this
	// goroutine so a slow client never blocks a store mutation.
	dirty := make(chan struct{}, 1)
	mark := func() {
		select {
		case dirty <- struct{}{}:
		default:
		}
	}

	sessions := p.SessionObserver()
	passes := p.EntitlementObserver()
	sessions.OnRender(func(*domain.Session) { mark() })
	passes.OnRender(func(domain.Entitlement) { mark() })

	if err := sessions.Activate(ctx); err != nil {
		return err
	}
	defer sessions.Deactivate()
	if err := passes.Activate(ctx); err != nil {
		return err
	}
	defer passes.Deactivate()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keep-alive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case <-dirty:
			frame, err := json.Marshal(streamFrame{Session: sessions.Value(), Entitlement: passes.Value()})
			if err != nil {
				h.log.Error().Err(err).Str("profile_id", p.ID).Msg("encode stream frame")
				continue
			}
			if _, err := fmt.Fprintf(res, "event: state\ndata: %s\n\n", frame); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
