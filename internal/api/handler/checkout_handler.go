package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// CheckoutHandler drives the pass purchase workflow.
type CheckoutHandler struct {
	profiles ProfileSource
}

func NewCheckoutHandler(profiles ProfileSource) *CheckoutHandler {
	return &CheckoutHandler{profiles: profiles}
}

// Open starts a checkout in the details stage.
//
// @Summary      Open checkout
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  service.CheckoutSnapshot
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) Open(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	co := p.OpenCheckout(nil)
	return c.JSON(http.StatusCreated, co.Snapshot())
}

// Get returns a checkout's stage.
//
// @Summary      Checkout state
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Checkout ID"
// @Success      200  {object}  service.CheckoutSnapshot
// @Failure      404  {object}  errorResponse
// @Router       /v1/checkout/{id} [get]
func (h *CheckoutHandler) Get(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	co, err := p.Checkout(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, co.Snapshot())
}

// Submit sends the payment details and starts processing.
//
// @Summary      Submit payment
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Checkout ID"
// @Param        body  body      submitPaymentRequest  true  "Payment details"
// @Success      202   {object}  service.CheckoutSnapshot
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/checkout/{id}/submit [post]
func (h *CheckoutHandler) Submit(c echo.Context) error {
	var req submitPaymentRequest
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
	co, err := p.Checkout(c.Param("id"))
	if err != nil {
		return err
	}
	snap, err := co.Submit(req.toDetails())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, snap)
}

// Close dismisses the checkout.
//
// @Summary      Close checkout
// @Tags         checkout
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Checkout ID"
// @Success      200  {object}  service.CheckoutSnapshot
// @Failure      404  {object}  errorResponse
// @Router       /v1/checkout/{id} [delete]
func (h *CheckoutHandler) Close(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	snap, err := p.CloseCheckout(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}
