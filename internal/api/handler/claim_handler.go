package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/ports"
)

// ClaimHandler serves an agent's claim history.
type ClaimHandler struct {
	claims ports.ClaimService
}

func NewClaimHandler(claims ports.ClaimService) *ClaimHandler {
	return &ClaimHandler{claims: claims}
}

// List returns the caller's claims, newest first.
//
// @Summary      Claim history
// @Tags         verification
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  claimsResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/claims [get]
func (h *ClaimHandler) List(c echo.Context) error {
	profileID, err := ctxProfileID(c)
	if err != nil {
		return err
	}
	claims, err := h.claims.History(c.Request().Context(), profileID)
	if err != nil {
		return err
	}

	resp := claimsResponse{Claims: claims, Currency: domain.PayoutCurrency}
	for _, cl := range claims {
		resp.TotalEarned += cl.Amount
	}
	return c.JSON(http.StatusOK, resp)
}
