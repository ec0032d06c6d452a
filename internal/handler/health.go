package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check tests one dependency; nil means healthy.
type Check func(ctx context.Context) error

// Health returns a handler for /healthz.  With no checks it always answers
// 200 "ok"; otherwise it runs each check with a short timeout and answers
// 503 when any fails.
func Health(checks map[string]Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		if len(checks) == 0 {
			return c.String(http.StatusOK, "ok")
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		report := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				report[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			report[name] = "ok"
		}
		return c.JSON(status, echo.Map{"status": http.StatusText(status), "checks": report})
	}
}
