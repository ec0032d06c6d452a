package model

import (
	"errors"
	"strings"
)

// Identity is the opaque value that names a caller.  It is supplied by the
// identity resolver (the `sub` claim of a verified token) and is only ever
// compared for equality.
type Identity string

// Role is the access level of a registered user.  Only the three constants
// below are valid; use ParseRole to convert untrusted input.
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
)

// ErrInvalidRole is returned by ParseRole for anything outside the enum.
var ErrInvalidRole = errors.New("invalid role")

// ParseRole normalizes s and maps it onto one of the known roles.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	default:
		return false
	}
}

// User represents a registered caller.  Users are keyed by Identity, so a
// caller can own at most one record.
//
// Fields:
//  Identity – the caller this record belongs to.
//  Name     – display name.
//  Email    – contact address, stored as given.
//  Role     – access level; new users start as students.
type User struct {
	Identity Identity `json:"identity"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Role     Role     `json:"role"`
}

// Clone returns a copy of u.  User has no reference fields, so this is a
// plain value copy; it exists so users fit the generic store.
func (u User) Clone() User { return u }
