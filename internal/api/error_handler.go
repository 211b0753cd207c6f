package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinel errors to HTTP status codes. The sentinel's own
// text is the client-facing message.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrInvalidRole, http.StatusBadRequest},
	{domain.ErrCodeTooShort, http.StatusUnprocessableEntity},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrPassInactive, http.StatusPaymentRequired},
	{domain.ErrNoCredits, http.StatusPaymentRequired},
	{domain.ErrProfileNotFound, http.StatusNotFound},
	{domain.ErrSurfaceNotFound, http.StatusNotFound},
	{domain.ErrCheckoutNotFound, http.StatusNotFound},
	{domain.ErrNoSession, http.StatusConflict},
	{domain.ErrAttemptInFlight, http.StatusConflict},
	{domain.ErrAttemptSettled, http.StatusConflict},
	{domain.ErrDuplicateClaim, http.StatusConflict},
	{domain.ErrInvalidStage, http.StatusConflict},
	{domain.ErrSurfaceClosed, http.StatusGone},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
