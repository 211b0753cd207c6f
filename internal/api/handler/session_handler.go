package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/huntsmart/client-engine/internal/core/service"
)

// SessionHandler exposes the session store.
type SessionHandler struct {
	profiles ProfileSource
	tokens   *service.TokenIssuer
	log      zerolog.Logger
}

func NewSessionHandler(profiles ProfileSource, tokens *service.TokenIssuer, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{profiles: profiles, tokens: tokens, log: log}
}

// SignUp creates a session. A caller that already holds a profile token signs
// up within that profile; anyone else gets a new profile and token.
//
// @Summary      Sign up
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Identity"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/session/signup [post]
func (h *SessionHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	profileID, _ := c.Get("profile_id").(string)
	if profileID == "" {
		profileID = service.NewProfileID()
	}
	p, err := h.profiles.Profile(profileID)
	if err != nil {
		return err
	}

	sess, err := p.Sessions.SignUp(c.Request().Context(), req.Email, req.Name)
	if err != nil {
		return err
	}

	token, exp, err := h.tokens.Issue(profileID)
	if err != nil {
		return err
	}

	h.log.Info().Str("profile_id", profileID).Msg("signed up")
	return c.JSON(http.StatusCreated, signUpResponse{
		Token:     token,
		ExpiresAt: exp,
		ProfileID: profileID,
		Session:   sess,
	})
}

// Get returns the current session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	sess, err := p.Sessions.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: sess != nil, Session: sess})
}

// Update shallow-merges fields into the session.
//
// @Summary      Update session fields
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateSessionRequest  true  "Fields to change"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/session [patch]
func (h *SessionHandler) Update(c echo.Context) error {
	var req updateSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	sess, err := p.Sessions.UpdateFields(c.Request().Context(), req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sessionResponse{Authenticated: true, Session: sess})
}

// SignOut clears the session and the pass, and closes every open surface.
//
// @Summary      Sign out
// @Tags         session
// @Security     BearerAuth
// @Success      204
// @Router       /v1/session [delete]
func (h *SessionHandler) SignOut(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	if err := p.SignOut(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
