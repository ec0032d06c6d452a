package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-hub/internal/identity"
	"github.com/iliyamo/learning-hub/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer token and
// resolves its subject claim to the caller identity.  The identity is placed
// on the request context (see identity.FromContext) before the handler runs.
// Requests without a valid token never reach the handler.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))

			id, err := utils.ParseIdentity(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			req := c.Request()
			c.SetRequest(req.WithContext(identity.WithIdentity(req.Context(), id)))
			return next(c)
		}
	}
}
