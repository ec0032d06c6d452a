package registry

import (
	"context"
	"fmt"

	"github.com/iliyamo/learning-hub/internal/metrics"
	"github.com/iliyamo/learning-hub/internal/model"
	"github.com/iliyamo/learning-hub/internal/queue"
)

// RegisterUser creates a student record for caller and reports true.  If
// caller is already registered the existing record is returned untouched,
// with false, and no event is published.
func (s *Service) RegisterUser(ctx context.Context, caller model.Identity, name, email string) (model.User, bool, error) {
	s.mu.Lock()
	u, ok := s.users.Get(caller)
	if !ok {
		u = model.User{Identity: caller, Name: name, Email: email, Role: model.RoleStudent}
		s.users.Insert(caller, u)
	}
	s.mu.Unlock()
	if ok {
		metrics.Observe("register_user", "unchanged")
		return u, false, nil
	}
	s.finish(ctx, "register_user", nil, queue.NewEvent("user", queue.ActionCreated, string(caller), caller))
	return u, true, nil
}

// GetUser looks up a user by identity.
func (s *Service) GetUser(_ context.Context, id model.Identity) (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.Get(id)
}

// UpdateUser changes the caller's own name and email.  A caller without a
// record is registered as a student on the way.
func (s *Service) UpdateUser(ctx context.Context, caller model.Identity, name, email string) (model.User, error) {
	s.mu.Lock()
	u, ok := s.users.Get(caller)
	if !ok {
		u = model.User{Identity: caller, Role: model.RoleStudent}
	}
	u.Name = name
	u.Email = email
	s.users.Insert(caller, u)
	s.mu.Unlock()
	s.finish(ctx, "update_user", nil, queue.NewEvent("user", queue.ActionUpdated, string(caller), caller))
	return u, nil
}

// ListUsers returns every registered user.
func (s *Service) ListUsers(_ context.Context) []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.List()
}

// SetUserRole changes target's role.  Only admins may do this; the caller
// is checked before the role value, so non-admins always get ErrUnauthorized.
func (s *Service) SetUserRole(ctx context.Context, caller, target model.Identity, role model.Role) (model.User, error) {
	s.mu.Lock()
	u, err := s.setUserRole(caller, target, role)
	s.mu.Unlock()
	s.finish(ctx, "set_user_role", err, queue.NewEvent("user", queue.ActionRoleSet, string(target), caller))
	return u, err
}

func (s *Service) setUserRole(caller, target model.Identity, role model.Role) (model.User, error) {
	if !s.isAdmin(caller) {
		return model.User{}, fmt.Errorf("set role of %q: %w", target, ErrUnauthorized)
	}
	if !role.Valid() {
		return model.User{}, model.ErrInvalidRole
	}
	u, ok := s.users.Get(target)
	if !ok {
		return model.User{}, fmt.Errorf("user %q: %w", target, ErrNotFound)
	}
	u.Role = role
	s.users.Insert(target, u)
	return u, nil
}

// BootstrapAdmins makes sure every identity in ids exists with the admin
// role.  It runs once at start-up, before the service takes traffic, and
// publishes no events.
func (s *Service) BootstrapAdmins(_ context.Context, ids []model.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if id == "" {
			continue
		}
		u, ok := s.users.Get(id)
		if !ok {
			u = model.User{Identity: id}
		}
		u.Role = model.RoleAdmin
		s.users.Insert(id, u)
		s.log.Info("admin identity ensured", "identity", id)
	}
}
