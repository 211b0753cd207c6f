package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/huntsmart/client-engine/internal/core/domain"
)

var errNoToken = errors.New("missing authorization header")

// Auth validates the profile token and injects profile_id into context.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			profileID, err := profileFromHeader(c.Request().Header.Get("Authorization"), jwtSecret)
			if errors.Is(err, errNoToken) {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set("profile_id", profileID)
			return next(c)
		}
	}
}

// OptionalAuth injects profile_id when a valid profile token is presented and
// lets every other request through anonymously.
func OptionalAuth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if profileID, err := profileFromHeader(c.Request().Header.Get("Authorization"), jwtSecret); err == nil {
				c.Set("profile_id", profileID)
			}
			return next(c)
		}
	}
}

func profileFromHeader(authHeader, jwtSecret string) (string, error) {
	if authHeader == "" {
		return "", errNoToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", domain.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	profileID, _ := claims["profile_id"].(string)
	if profileID == "" {
		return "", domain.ErrInvalidToken
	}
	return profileID, nil
}
