// Package registry is the public operation surface over the user, course,
// video and hackathon stores.  Every mutating operation receives the caller's
// resolved identity and enforces ownership before touching a store.
package registry

import (
	"errors"

	"github.com/iliyamo/learning-hub/internal/model"
)

// ErrNotFound is returned when an operation names an entity that does not
// exist.  Handlers translate it into a 404.
var ErrNotFound = errors.New("not found")

// ErrUnauthorized is returned when the caller is neither the owner of the
// entity nor an admin, or lacks the role an operation requires.  Handlers
// translate it into a 403.
var ErrUnauthorized = errors.New("unauthorized")

// ErrNotRegistered is returned when a caller submits to a hackathon they
// have not joined.
var ErrNotRegistered = errors.New("not registered for hackathon")

// ErrInvalidReference is returned when a write names another entity that
// does not exist, e.g. a video pointing at an unknown course.
var ErrInvalidReference = errors.New("invalid reference")

// outcome maps an operation result onto the metrics label.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, model.ErrInvalidRole):
		return "invalid_role"
	default:
		return "error"
	}
}
