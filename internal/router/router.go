// Package router wires handlers and middleware onto an echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/learning-hub/internal/handler"
	"github.com/iliyamo/learning-hub/internal/middleware"
)

// Guards are the middleware placed around registry routes.  Nil entries are
// skipped.
type Guards struct {
	// JWTSecret verifies bearer tokens on mutating routes.
	JWTSecret string
	// Cache wraps public reads.
	Cache echo.MiddlewareFunc
	// Invalidate runs after mutations to retire cached reads.
	Invalidate echo.MiddlewareFunc
	// RateLimit throttles mutations per caller.
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers the operational endpoints that need no
// authentication.
func RegisterRoutes(e *echo.Echo, checks map[string]handler.Check) {
	e.GET("/healthz", handler.Health(checks))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterRegistry registers the /v1 entity routes.  Reads are public and
// cacheable; writes require a valid token.
func RegisterRegistry(e *echo.Echo, h *handler.RegistryHandler, g Guards) {
	read := compact(g.Cache)
	// JWTAuth must run first so the limiter can key on the caller.
	write := compact(middleware.JWTAuth(g.JWTSecret), g.RateLimit, g.Invalidate)

	v1 := e.Group("/v1")

	v1.GET("/users", h.ListUsers, read...)
	v1.GET("/users/:identity", h.GetUser, read...)
	v1.POST("/users/register", h.RegisterUser, write...)
	v1.PUT("/users/me", h.UpdateMe, write...)
	v1.PUT("/users/:identity/role", h.SetUserRole, write...)

	v1.GET("/courses", h.ListCourses, read...)
	v1.GET("/courses/:id", h.GetCourse, read...)
	v1.POST("/courses", h.CreateCourse, write...)
	v1.PUT("/courses/:id", h.UpdateCourse, write...)
	v1.PATCH("/courses/:id", h.UpdateCourse, write...)
	v1.DELETE("/courses/:id", h.DeleteCourse, write...)

	v1.GET("/videos", h.ListVideos, read...)
	v1.GET("/videos/:id", h.GetVideo, read...)
	v1.POST("/videos", h.UploadVideo, write...)
	v1.PUT("/videos/:id", h.UpdateVideo, write...)
	v1.PATCH("/videos/:id", h.UpdateVideo, write...)
	v1.DELETE("/videos/:id", h.DeleteVideo, write...)

	v1.GET("/hackathons", h.ListHackathons, read...)
	v1.GET("/hackathons/:id", h.GetHackathon, read...)
	v1.POST("/hackathons", h.CreateHackathon, write...)
	v1.PUT("/hackathons/:id", h.UpdateHackathon, write...)
	v1.PATCH("/hackathons/:id", h.UpdateHackathon, write...)
	v1.DELETE("/hackathons/:id", h.DeleteHackathon, write...)
	v1.POST("/hackathons/:id/register", h.RegisterHackathon, write...)
	v1.POST("/hackathons/:id/submissions", h.SubmitHackathon, write...)
}

func compact(mws ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mws))
	for _, mw := range mws {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}
