package handler

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/registry"
)

type hackathonRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func (r hackathonRequest) input() registry.HackathonInput {
	return registry.HackathonInput{
		Title:       strings.TrimSpace(pick(r.Title, "")),
		Description: pick(r.Description, ""),
		StartDate:   strings.TrimSpace(pick(r.StartDate, "")),
		EndDate:     strings.TrimSpace(pick(r.EndDate, "")),
	}
}

func (r hackathonRequest) patch() registry.HackathonPatch {
	return registry.HackathonPatch{
		Title:       trimmed(r.Title),
		Description: r.Description,
		StartDate:   trimmed(r.StartDate),
		EndDate:     trimmed(r.EndDate),
	}
}

type submissionRequest struct {
	Content string `json:"content"`
}

// CreateHackathon handles POST /v1/hackathons.
func (h *RegistryHandler) CreateHackathon(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req hackathonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	in := req.input()
	if in.Title == "" {
		return badRequest(c, "title is required")
	}
	hk, err := h.Registry.CreateHackathon(c.Request().Context(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, hk)
}

// UpdateHackathon handles PUT and PATCH /v1/hackathons/:id.  Participants
// and submissions are not touched.
func (h *RegistryHandler) UpdateHackathon(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req hackathonRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var hk model.Hackathon
	if c.Request().Method == http.MethodPatch {
		p := req.patch()
		if blank(p.Title) {
			return badRequest(c, "title must not be empty")
		}
		hk, err = h.Registry.PatchHackathon(c.Request().Context(), caller, id, p)
	} else {
		in := req.input()
		if in.Title == "" {
			return badRequest(c, "title is required")
		}
		hk, err = h.Registry.UpdateHackathon(c.Request().Context(), caller, id, in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hk)
}

// DeleteHackathon handles DELETE /v1/hackathons/:id.
func (h *RegistryHandler) DeleteHackathon(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	if err := h.Registry.DeleteHackathon(c.Request().Context(), caller, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterHackathon handles POST /v1/hackathons/:id/register.  Joining
// twice is not an error.
func (h *RegistryHandler) RegisterHackathon(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	hk, err := h.Registry.RegisterHackathon(c.Request().Context(), caller, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, hk)
}

// SubmitHackathon handles POST /v1/hackathons/:id/submissions.
func (h *RegistryHandler) SubmitHackathon(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req submissionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	hk, err := h.Registry.SubmitHackathon(c.Request().Context(), caller, id, req.Content)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, hk)
}

// GetHackathon handles GET /v1/hackathons/:id.
func (h *RegistryHandler) GetHackathon(c echo.Context) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	hk, found := h.Registry.GetHackathon(c.Request().Context(), id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "hackathon not found"})
	}
	return c.JSON(http.StatusOK, hk)
}

// ListHackathons handles GET /v1/hackathons, ordered by id.
func (h *RegistryHandler) ListHackathons(c echo.Context) error {
	hks := h.Registry.ListHackathons(c.Request().Context())
	slices.SortFunc(hks, func(a, b model.Hackathon) int { return cmp.Compare(a.ID, b.ID) })
	return c.JSON(http.StatusOK, hks)
}
