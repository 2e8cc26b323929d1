// Package identity defines who is signed in. The core reads the active
// user and its role; registration and credential checks live behind
// Service so the local store and the hosted backend are interchangeable.
package identity

import (
	"context"
	"time"
)

// Role decides which features a user sees. It is fixed at registration.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
)

// User is a signed-in account with its profile.
type User struct {
	ID        string
	FullName  string
	Email     string
	Role      Role
	School    string
	Course    string
	CreatedAt time.Time
}

// IsLecturer reports whether u has the lecturer role.
func (u *User) IsLecturer() bool {
	return u != nil && u.Role == RoleLecturer
}

// Service is the identity and profile layer.
type Service interface {
	// Login checks credentials, remembers the sign-in and returns the
	// user's profile.
	Login(ctx context.Context, email, password string) (*User, error)

	// Register creates an account. It does not sign the user in.
	Register(ctx context.Context, in RegisterInput) error

	// ActiveUser restores the remembered sign-in. It returns nil and no
	// error when nobody is signed in or the profile is gone.
	ActiveUser(ctx context.Context) (*User, error)

	Logout(ctx context.Context) error
}

// RequireLecturer returns an AuthError unless u is a lecturer.
func RequireLecturer(u *User) error {
	if u == nil {
		return &AuthError{Kind: KindNotSignedIn}
	}
	if !u.IsLecturer() {
		return &AuthError{Kind: KindForbidden}
	}
	return nil
}

// RequireUser returns an AuthError when u is nil.
func RequireUser(u *User) error {
	if u == nil {
		return &AuthError{Kind: KindNotSignedIn}
	}
	return nil
}
