package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

// RoleLookup resolves the role of the caller's session.
type RoleLookup func(c echo.Context) (domain.Role, error)

// RBAC enforces role-based access control against the session role and
// exposes it to handlers as "role".
func RBAC(lookup RoleLookup, allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := lookup(c)
			if err != nil {
				return err
			}
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			c.Set("role", string(role))
			return next(c)
		}
	}
}
