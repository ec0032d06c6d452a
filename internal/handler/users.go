package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-hub/internal/middleware"
	"github.com/iliyamo/learning-hub/internal/model"
)

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type roleRequest struct {
	Role string `json:"role"`
}

// RegisterUser handles POST /v1/users/register.  A new user gets 201;
// registering twice returns the existing record with 200 and leaves the
// read cache alone.
func (h *RegistryHandler) RegisterUser(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, created, err := h.Registry.RegisterUser(c.Request().Context(), caller, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	if err != nil {
		return writeError(c, err)
	}
	if !created {
		middleware.MarkUnchanged(c)
		return c.JSON(http.StatusOK, u)
	}
	return c.JSON(http.StatusCreated, u)
}

// UpdateMe handles PUT /v1/users/me.
func (h *RegistryHandler) UpdateMe(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req userRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	u, err := h.Registry.UpdateUser(c.Request().Context(), caller, strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// SetUserRole handles PUT /v1/users/:identity/role (admins only).  The role
// value is validated by the registry after the admin check.
func (h *RegistryHandler) SetUserRole(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req roleRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	role := model.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	u, err := h.Registry.SetUserRole(c.Request().Context(), caller, model.Identity(c.Param("identity")), role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// GetUser handles GET /v1/users/:identity.
func (h *RegistryHandler) GetUser(c echo.Context) error {
	u, ok := h.Registry.GetUser(c.Request().Context(), model.Identity(c.Param("identity")))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}
	return c.JSON(http.StatusOK, u)
}

// ListUsers handles GET /v1/users, ordered by identity.
func (h *RegistryHandler) ListUsers(c echo.Context) error {
	users := h.Registry.ListUsers(c.Request().Context())
	slices.SortFunc(users, func(a, b model.User) int { return strings.Compare(string(a.Identity), string(b.Identity)) })
	return c.JSON(http.StatusOK, users)
}
