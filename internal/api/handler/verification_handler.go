package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/service"
)

// VerificationHandler drives agent booking-code verification panels.
type VerificationHandler struct {
	profiles ProfileSource
}

func NewVerificationHandler(profiles ProfileSource) *VerificationHandler {
	return &VerificationHandler{profiles: profiles}
}

func (h *VerificationHandler) surface(c echo.Context) (*service.VerificationSurface, error) {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return nil, err
	}
	return p.Verification(c.Param("id"))
}

// Open attaches a new verification panel.
//
// @Summary      Open verification panel
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  service.VerificationSnapshot
// @Failure      403  {object}  errorResponse
// @Router       /v1/verification [post]
func (h *VerificationHandler) Open(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p.OpenVerification().Snapshot())
}

// Get returns the panel state.
//
// @Summary      Verification panel state
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Surface ID"
// @Success      200  {object}  service.VerificationSnapshot
// @Failure      404  {object}  errorResponse
// @Router       /v1/verification/{id} [get]
func (h *VerificationHandler) Get(c echo.Context) error {
	v, err := h.surface(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v.Snapshot())
}

// SetCode edits the booking code.
//
// @Summary      Edit booking code
// @Tags         verification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Surface ID"
// @Param        body  body      setCodeRequest  true  "Code"
// @Success      200   {object}  service.VerificationSnapshot
// @Failure      409   {object}  errorResponse
// @Router       /v1/verification/{id}/code [put]
func (h *VerificationHandler) SetCode(c echo.Context) error {
	var req setCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	v, err := h.surface(c)
	if err != nil {
		return err
	}
	snap, err := v.SetCode(req.Code)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// Submit starts verifying the current code. The outcome is available from
// Get once the verification delay has passed.
//
// @Summary      Verify booking code
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Surface ID"
// @Success      202  {object}  service.VerificationSnapshot
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/verification/{id}/submit [post]
func (h *VerificationHandler) Submit(c echo.Context) error {
	v, err := h.surface(c)
	if err != nil {
		return err
	}
	snap, err := v.Submit()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, snap)
}

// Reset clears a settled attempt.
//
// @Summary      Reset verification panel
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Surface ID"
// @Success      200  {object}  service.VerificationSnapshot
// @Failure      409  {object}  errorResponse
// @Router       /v1/verification/{id}/reset [post]
func (h *VerificationHandler) Reset(c echo.Context) error {
	v, err := h.surface(c)
	if err != nil {
		return err
	}
	snap, err := v.Reset()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// Close tears the panel down, cancelling a pending verification.
//
// @Summary      Close verification panel
// @Tags         verification
// @Security     BearerAuth
// @Param        id   path  string  true  "Surface ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/verification/{id} [delete]
func (h *VerificationHandler) Close(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	if err := p.CloseVerification(c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
