package middleware

// identity.go holds helpers shared across middleware files.

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-hub/internal/identity"
)

// callerKey returns the resolved identity for use in cache and rate-limit
// keys, or "anon" on routes that run before authentication.
func callerKey(c echo.Context) string {
	if id, ok := identity.FromContext(c.Request().Context()); ok {
		return string(id)
	}
	return "anon"
}
