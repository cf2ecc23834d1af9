// Package app holds the application services and business logic.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"phishguard/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided username or password
	// was incorrect, the user does not exist, or the account is deactivated.
	// Callers must not distinguish between those cases.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// DefaultSessionTTL is how long a session stays valid after login.
const DefaultSessionTTL = 24 * time.Hour

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	ttl      time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
	}
}

// WithSessionTTL overrides the session lifetime.
func (s *AuthService) WithSessionTTL(ttl time.Duration) *AuthService {
	if ttl > 0 {
		s.ttl = ttl
	}
	return s
}

// SessionTTL returns the configured session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.ttl
}

// Login authenticates a user and creates a session. Every failure mode
// (unknown username, deactivated account, wrong password) returns
// ErrInvalidCredentials so that the response cannot be used to enumerate
// accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil || !user.IsActive {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.StartSession(ctx, user)
}

// StartSession mints a fresh session for an already-authenticated user and
// records the login time on the account. The last_login write is best-effort:
// the session must not depend on it, so a failure is logged and swallowed.
func (s *AuthService) StartSession(ctx context.Context, user *domain.User) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}

	now := time.Now()
	sess := &domain.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		LoginTime: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("auth: update last_login for user %d: %v", user.ID, err)
	}

	return token, nil
}

// Logout invalidates a session. Deleting an unknown token is harmless.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// CurrentUser resolves a session token to the full user row. A missing or
// expired session, or a user row deleted out-of-band, all read as "not
// logged in"; the stale session is removed so the caller ends up logged out.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The account vanished underneath an open session. Force logout.
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrUserNotFound
	}

	return user, nil
}

// AuthorizeExternal looks up the active account for an identity asserted by
// an external authenticator (OIDC, forward auth). Unknown or deactivated
// accounts are rejected; external login never provisions accounts.
func (s *AuthService) AuthorizeExternal(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	if usernameOrEmail == "" {
		return nil, ErrUserNotFound
	}

	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByEmail(ctx, usernameOrEmail)
		if err != nil {
			return nil, err
		}
	}
	if user == nil || !user.IsActive {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
