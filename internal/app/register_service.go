package app

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"

	"phishguard/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

var (
	// ErrMissingFields indicates a required registration field was empty.
	ErrMissingFields = errors.New("missing required fields")
	// ErrPasswordMismatch indicates password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort indicates the password is below MinPasswordLength.
	ErrPasswordTooShort = errors.New("password too short")
	// ErrInvalidEmail indicates the email failed the format check.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrAccountExists indicates the username or email is already in use.
	ErrAccountExists = errors.New("username or email already exists")
	// ErrRegistrationFailed indicates the insert failed for a reason the
	// client cannot act on.
	ErrRegistrationFailed = errors.New("registration failed")
)

// RegisterInput is one registration form submission. FullName is optional,
// everything else is required.
type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

// RegisterService creates new accounts.
type RegisterService struct {
	users domain.UserRepository
}

// NewRegisterService creates a RegisterService backed by the given repository.
func NewRegisterService(users domain.UserRepository) *RegisterService {
	return &RegisterService{users: users}
}

// Register validates the input and creates the account. Checks run in a fixed
// order and the first failure wins; nothing is written unless every check
// passes. New accounts are active and on the free plan.
func (s *RegisterService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	fullName := strings.TrimSpace(in.FullName)

	if username == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ErrMissingFields
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if len(in.Password) < MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}

	taken, err := s.users.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, domain.NewUser{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	})
	if errors.Is(err, domain.ErrDuplicateUser) {
		// Lost a race with a concurrent registration; the unique constraint
		// is the final arbiter.
		return nil, ErrAccountExists
	}
	if err != nil {
		log.Printf("register: create user %q: %v", username, err)
		return nil, ErrRegistrationFailed
	}

	return user, nil
}
