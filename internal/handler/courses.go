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

// courseRequest is shared by create, PUT and PATCH.  On PATCH, absent
// fields keep their stored value; elsewhere they are empty.
type courseRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Lessons     *[]string `json:"lessons"`
}

func (r courseRequest) input() registry.CourseInput {
	return registry.CourseInput{
		Title:       strings.TrimSpace(pick(r.Title, "")),
		Description: pick(r.Description, ""),
		Lessons:     pick(r.Lessons, []string(nil)),
	}
}

func (r courseRequest) patch() registry.CoursePatch {
	return registry.CoursePatch{Title: trimmed(r.Title), Description: r.Description, Lessons: r.Lessons}
}

// CreateCourse handles POST /v1/courses.
func (h *RegistryHandler) CreateCourse(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	in := req.input()
	if in.Title == "" {
		return badRequest(c, "title is required")
	}
	course, err := h.Registry.CreateCourse(c.Request().Context(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

// UpdateCourse handles PUT and PATCH /v1/courses/:id.
func (h *RegistryHandler) UpdateCourse(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var course model.Course
	if c.Request().Method == http.MethodPatch {
		p := req.patch()
		if blank(p.Title) {
			return badRequest(c, "title must not be empty")
		}
		course, err = h.Registry.PatchCourse(c.Request().Context(), caller, id, p)
	} else {
		in := req.input()
		if in.Title == "" {
			return badRequest(c, "title is required")
		}
		course, err = h.Registry.UpdateCourse(c.Request().Context(), caller, id, in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// DeleteCourse handles DELETE /v1/courses/:id.  Videos that point at the
// course are left in place.
func (h *RegistryHandler) DeleteCourse(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	if err := h.Registry.DeleteCourse(c.Request().Context(), caller, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetCourse handles GET /v1/courses/:id.
func (h *RegistryHandler) GetCourse(c echo.Context) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	course, found := h.Registry.GetCourse(c.Request().Context(), id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}
	return c.JSON(http.StatusOK, course)
}

// ListCourses handles GET /v1/courses, ordered by id.
func (h *RegistryHandler) ListCourses(c echo.Context) error {
	courses := h.Registry.ListCourses(c.Request().Context())
	slices.SortFunc(courses, func(a, b model.Course) int { return cmp.Compare(a.ID, b.ID) })
	return c.JSON(http.StatusOK, courses)
}
