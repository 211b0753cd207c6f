package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
	"github.com/huntsmart/client-engine/internal/core/service"
)

// ProfileSource resolves a profile by id. *service.Registry satisfies it.
type ProfileSource interface {
	Profile(id string) (*service.Profile, error)
}

// ctxProfileID extracts the profile id injected by the Auth middleware.
// Its presence proves the middleware ran.
func ctxProfileID(c echo.Context) (string, error) {
	id, _ := c.Get("profile_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing profile identity")
	}
	return id, nil
}

func currentProfile(c echo.Context, src ProfileSource) (*service.Profile, error) {
	id, err := ctxProfileID(c)
	if err != nil {
		return nil, err
	}
	return src.Profile(id)
}

// SessionRole returns a lookup of the caller's session role for the RBAC
// middleware. Callers without a session have no role.
func SessionRole(src ProfileSource) func(c echo.Context) (domain.Role, error) {
	return func(c echo.Context) (domain.Role, error) {
		p, err := currentProfile(c, src)
		if err != nil {
			return domain.RoleUnset, err
		}
		sess, err := p.Sessions.Current(c.Request().Context())
		if err != nil || sess == nil {
			return domain.RoleUnset, err
		}
		return sess.Role, nil
	}
}

// PassActive returns a lookup of the caller's pass for the RequirePass
// middleware.
func PassActive(src ProfileSource) func(c echo.Context) (bool, error) {
	return func(c echo.Context) (bool, error) {
		p, err := currentProfile(c, src)
		if err != nil {
			return false, err
		}
		return p.Passes.IsActive(c.Request().Context())
	}
}
