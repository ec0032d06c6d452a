// Package identity carries the resolved caller identity on a request
// context.  The JWT middleware stores it; handlers read it once per
// operation.
package identity

import (
	"context"
	"errors"

	"github.com/iliyamo/learning-hub/internal/model"
)

// ErrNoIdentity is returned when a context carries no resolved caller.
var ErrNoIdentity = errors.New("no caller identity in context")

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the caller stored by WithIdentity.
func FromContext(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(model.Identity)
	return id, ok && id != ""
}

// Resolver supplies the calling identity for an operation.
type Resolver interface {
	CurrentCaller(ctx context.Context) (model.Identity, error)
}

// ContextResolver resolves callers from the request context.
type ContextResolver struct{}

// CurrentCaller implements Resolver.
func (ContextResolver) CurrentCaller(ctx context.Context) (model.Identity, error) {
	id, ok := FromContext(ctx)
	if !ok {
		return "", ErrNoIdentity
	}
	return id, nil
}
