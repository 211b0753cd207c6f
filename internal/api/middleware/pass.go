package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PassLookup reports whether the caller holds an active HuntSmart Pass.
type PassLookup func(c echo.Context) (bool, error)

// RequirePass gates premium routes behind an active pass.
func RequirePass(lookup PassLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			active, err := lookup(c)
			if err != nil {
				return err
			}
			if !active {
				return c.JSON(http.StatusPaymentRequired, map[string]string{"error": "huntsmart pass required"})
			}
			return next(c)
		}
	}
}
