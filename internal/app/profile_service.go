package app

import (
	"context"
	"errors"
	"strings"

	"phishguard/internal/domain"
)

var (
	// ErrEmailRequired indicates the profile update left the email empty.
	ErrEmailRequired = errors.New("email is required")
	// ErrEmailTaken indicates another account already holds the email.
	ErrEmailTaken = errors.New("email is already taken")
)

// ProfileService reads and updates the current user's profile.
type ProfileService struct {
	users domain.UserRepository
}

// NewProfileService creates a ProfileService backed by the given repository.
func NewProfileService(users domain.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Update applies a profile edit for userID and returns the reloaded user.
// The uniqueness check excludes the user's own row, so resubmitting an
// unchanged email succeeds.
func (s *ProfileService) Update(ctx context.Context, userID int64, up domain.ProfileUpdate) (*domain.User, error) {
	up.FullName = strings.TrimSpace(up.FullName)
	up.Email = strings.TrimSpace(up.Email)

	if up.Email == "" {
		return nil, ErrEmailRequired
	}

	taken, err := s.users.EmailTakenByOther(ctx, up.Email, userID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if err := s.users.UpdateProfile(ctx, userID, up); err != nil {
		return nil, err
	}

	return s.users.GetByID(ctx, userID)
}
