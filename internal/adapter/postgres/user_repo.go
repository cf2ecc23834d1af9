// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"phishguard/internal/domain"

	"github.com/lib/pq"
)

const userColumns = "id, username, email, password_hash, full_name, plan, is_active, created_at, last_login"

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Plan, &u.IsActive, &u.CreatedAt, &lastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !u.Plan.Valid() {
		return nil, fmt.Errorf("user %d: unknown plan %q", u.ID, u.Plan)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// GetByUsername retrieves a user by exact username.
func (d *DB) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username))
}

// GetByEmail retrieves a user by email, matching case-insensitively.
func (d *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE LOWER(email) = LOWER($1)", email))
}

// GetByID retrieves a user by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(d.sql.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id))
}

// UsernameOrEmailTaken reports whether any row holds the username or email.
func (d *DB) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR LOWER(email) = LOWER($2))",
		username, email,
	).Scan(&exists)
	return exists, err
}

// EmailTakenByOther reports whether a different user holds the email.
func (d *DB) EmailTakenByOther(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := d.sql.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND id <> $2)",
		email, excludeID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new user. A unique-constraint violation on username or
// email maps to domain.ErrDuplicateUser so the caller can treat a losing
// concurrent insert as an ordinary duplicate.
func (d *DB) Create(ctx context.Context, nu domain.NewUser) (*domain.User, error) {
	var u domain.User
	var lastLogin sql.NullTime
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, full_name, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		nu.Username, nu.Email, nu.PasswordHash, nu.FullName, time.Now(),
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName,
		&u.Plan, &u.IsActive, &u.CreatedAt, &lastLogin)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, domain.ErrDuplicateUser
		}
		return nil, err
	}
	if !u.Plan.Valid() {
		return nil, fmt.Errorf("user %d: unknown plan %q", u.ID, u.Plan)
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}

// UpdateProfile sets the mutable profile fields on a user row.
func (d *DB) UpdateProfile(ctx context.Context, id int64, up domain.ProfileUpdate) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET full_name = $1, email = $2 WHERE id = $3",
		up.FullName, up.Email, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return domain.ErrDuplicateUser
		}
	}
	return err
}

// UpdateLastLogin records the time of a successful login.
func (d *DB) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := d.sql.ExecContext(ctx,
		"UPDATE users SET last_login = $1 WHERE id = $2", at, id)
	return err
}
