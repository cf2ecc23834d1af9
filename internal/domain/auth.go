// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateUser indicates that a user with the same username or email
// already exists. Repositories return it when a unique constraint fires on
// insert, which is the backstop for two registrations racing on the same
// username or email.
var ErrDuplicateUser = errors.New("duplicate username or email")

// Plan is a subscription tier. It drives which permissions an account holds.
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// Valid reports whether p is one of the known tiers.
func (p Plan) Valid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

// User represents an account in the system. PasswordHash is a bcrypt hash;
// the plaintext password is never stored. LastLogin is nil until the first
// successful login.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Plan         Plan
	IsActive     bool
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Session represents an active login. The token is the opaque identifier
// carried in the client cookie; everything else is server-side state.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	LoginTime time.Time
	ExpiresAt time.Time
}

// NewUser carries the fields needed to create an account. Plan and IsActive
// are not part of it: new accounts always start on the free plan, active.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	FullName     string
}

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	FullName string
	Email    string
}

// UserRepository defines the port for user persistence operations.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	// UsernameOrEmailTaken reports whether any row already holds the given
	// username or email.
	UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error)
	// EmailTakenByOther reports whether a row other than excludeID holds the
	// given email.
	EmailTakenByOther(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, nu NewUser) (*User, error)
	UpdateProfile(ctx context.Context, id int64, up ProfileUpdate) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// SessionRepository defines the port for session persistence operations.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
