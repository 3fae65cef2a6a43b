// Package middleware provides reusable Echo middleware for the API.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cherio/cherio-api/internal/auth"
)

// SessionAuth validates the Bearer session token on protected routes
// and injects the authenticated subject id into the context under
// "user_id". Expired and invalid tokens both yield 401; the difference
// only shows up in the server log.
func SessionAuth(svc *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			subject, err := svc.Validate(raw)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					c.Logger().Debugf("session: expired token from %s", c.RealIP())
				} else {
					c.Logger().Debugf("session: rejected token from %s: %v", c.RealIP(), err)
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", subject)
			return next(c)
		}
	}
}
