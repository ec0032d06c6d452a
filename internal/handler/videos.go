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

type videoRequest struct {
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	CourseID    *uint64 `json:"course_id"`
	Description *string `json:"description"`
}

func (r videoRequest) input() registry.VideoInput {
	return registry.VideoInput{
		Title:       strings.TrimSpace(pick(r.Title, "")),
		URL:         strings.TrimSpace(pick(r.URL, "")),
		CourseID:    r.CourseID,
		Description: pick(r.Description, ""),
	}
}

// patch keeps absent fields.  A course reference cannot be cleared with
// PATCH; use PUT without course_id.
func (r videoRequest) patch() registry.VideoPatch {
	return registry.VideoPatch{
		Title:       trimmed(r.Title),
		URL:         trimmed(r.URL),
		CourseID:    r.CourseID,
		Description: r.Description,
	}
}

// videoResponse adds whether the referenced course still exists.
type videoResponse struct {
	model.Video
	CourseAvailable bool `json:"course_available"`
}

func (h *RegistryHandler) present(c echo.Context, v model.Video) videoResponse {
	_, ok := h.Registry.VideoCourse(c.Request().Context(), v)
	return videoResponse{Video: v, CourseAvailable: ok}
}

// UploadVideo handles POST /v1/videos.
func (h *RegistryHandler) UploadVideo(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	in := req.input()
	if in.Title == "" {
		return badRequest(c, "title is required")
	}
	v, err := h.Registry.UploadVideo(c.Request().Context(), caller, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, h.present(c, v))
}

// UpdateVideo handles PUT and PATCH /v1/videos/:id.
func (h *RegistryHandler) UpdateVideo(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	var v model.Video
	if c.Request().Method == http.MethodPatch {
		p := req.patch()
		if blank(p.Title) {
			return badRequest(c, "title must not be empty")
		}
		v, err = h.Registry.PatchVideo(c.Request().Context(), caller, id, p)
	} else {
		in := req.input()
		if in.Title == "" {
			return badRequest(c, "title is required")
		}
		v, err = h.Registry.UpdateVideo(c.Request().Context(), caller, id, in)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, h.present(c, v))
}

// DeleteVideo handles DELETE /v1/videos/:id.
func (h *RegistryHandler) DeleteVideo(c echo.Context) error {
	caller, ok, err := h.caller(c)
	if !ok {
		return err
	}
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	if err := h.Registry.DeleteVideo(c.Request().Context(), caller, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetVideo handles GET /v1/videos/:id.
func (h *RegistryHandler) GetVideo(c echo.Context) error {
	id, ok, err := parseID(c)
	if !ok {
		return err
	}
	v, found := h.Registry.GetVideo(c.Request().Context(), id)
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
	}
	return c.JSON(http.StatusOK, h.present(c, v))
}

// ListVideos handles GET /v1/videos, ordered by id.
func (h *RegistryHandler) ListVideos(c echo.Context) error {
	videos := h.Registry.ListVideos(c.Request().Context())
	slices.SortFunc(videos, func(a, b model.Video) int { return cmp.Compare(a.ID, b.ID) })
	out := make([]videoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, h.present(c, v))
	}
	return c.JSON(http.StatusOK, out)
}
