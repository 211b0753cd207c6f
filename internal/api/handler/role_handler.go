package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// RoleHandler exposes the role selection step.
type RoleHandler struct {
	profiles ProfileSource
}

func NewRoleHandler(profiles ProfileSource) *RoleHandler {
	return &RoleHandler{profiles: profiles}
}

// Get reports whether the caller still has to pick a role.
//
// @Summary      Role selection state
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleSelectionResponse
// @Router       /v1/session/role [get]
func (h *RoleHandler) Get(c echo.Context) error {
	p, err := currentProfile(c, h.profiles)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	required, err := p.Roles.Required(ctx)
	if err != nil {
		return err
	}
	resp := roleSelectionResponse{Required: required, Options: domain.SelectableRoles}
	if sess, err := p.Sessions.Current(ctx); err == nil && sess != nil {
		resp.Role = sess.Role
	}
	return c.JSON(http.StatusOK, resp)
}

// Choose records the caller's role.
//
// @Summary      Choose role
// @Tags         session
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      chooseRoleRequest  true  "Role"
// @Success      200   {object}  chooseRoleResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/session/role [put]
func (h *RoleHandler) Choose(c echo.Context) error {
	var req chooseRoleRequest
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
	dest, sess, err := p.Roles.Choose(c.Request().Context(), domain.Role(req.Role))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chooseRoleResponse{Redirect: dest, Session: sess})
}
