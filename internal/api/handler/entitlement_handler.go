package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/api/metrics"
)

// EntitlementHandler exposes the HuntSmart Pass.
type EntitlementHandler struct {
	profiles ProfileSource
}

func NewEntitlementHandler(profiles ProfileSource) *EntitlementHandler {
	return &EntitlementHandler{profiles: profiles}
}

// Get returns the caller's pass.
//
// @Summary      Current pass
// @Tags         entitlement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Entitlement
// @Router       /v1/entitlement [get]
func (h *EntitlementHandler) Get(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	e, err := p.Passes.Current(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// ConsumeInspection spends one inspection credit.
//
// @Summary      Book a premium inspection
// @Tags         entitlement
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Entitlement
// @Failure      402  {object}  errorResponse
// @Router       /v1/entitlement/inspections [post]
func (h *EntitlementHandler) ConsumeInspection(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	e, err := p.Passes.Consume(c.Request().Context())
	if err != nil {
		return err
	}
	metrics.InspectionsConsumedTotal.Inc()
	return c.JSON(http.StatusOK, e)
}
