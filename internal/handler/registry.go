// Package handler adapts registry operations to HTTP.  Every mutating
// handler resolves the caller once, calls exactly one registry operation
// and translates the outcome into a status code and JSON body.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-hub/internal/identity"
	"github.com/iliyamo/learning-hub/internal/logger"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/registry"
)

// RegistryHandler serves the /v1 user, course, video and hackathon routes.
type RegistryHandler struct {
	Registry *registry.Service
	Callers  identity.Resolver
}

// NewRegistryHandler panics if reg is nil.  A nil resolver defaults to
// reading the identity placed on the request context by JWTAuth.
func NewRegistryHandler(reg *registry.Service, callers identity.Resolver) *RegistryHandler {
	if reg == nil {
		panic("nil registry passed to NewRegistryHandler")
	}
	if callers == nil {
		callers = identity.ContextResolver{}
	}
	return &RegistryHandler{Registry: reg, Callers: callers}
}

// caller returns the resolved identity, writing a 401 when there is none.
func (h *RegistryHandler) caller(c echo.Context) (model.Identity, bool, error) {
	id, err := h.Callers.CurrentCaller(c.Request().Context())
	if err != nil {
		return "", false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	return id, true, nil
}

// parseID reads the :id path parameter, writing a 400 when it is malformed.
func parseID(c echo.Context) (uint64, bool, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	return id, true, nil
}

// writeError maps registry errors onto HTTP responses.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, registry.ErrNotRegistered):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not registered for this hackathon"})
	case errors.Is(err, registry.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, registry.ErrInvalidReference):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidRole):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	default:
		logger.Error("registry operation failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// trimmed returns p with surrounding space removed, keeping nil as nil.
func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	t := strings.TrimSpace(*p)
	return &t
}

// blank reports whether an explicitly sent field is empty.
func blank(p *string) bool { return p != nil && *p == "" }

// pick returns *p when set, otherwise fallback.
func pick[T any](p *T, fallback T) T {
	if p != nil {
		return *p
	}
	return fallback
}
