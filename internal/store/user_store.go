// Package store implements the credential store: persistence of user
// accounts keyed by unique username and unique email.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/armaan/kanban-be/internal/apperr"
	"github.com/armaan/kanban-be/internal/models"
)

// UserStore defines the persistence operations the authentication layers
// depend on.
type UserStore interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, user models.User) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// SQLiteUserStore is the SQLite-backed UserStore.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewSQLiteUserStore creates a new SQLiteUserStore.
func NewSQLiteUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, avatar_url,
	is_active, email_verified, created_at, updated_at, last_login_at`

func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var lastLogin sql.NullTime
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.AvatarURL,
		&user.IsActive, &user.EmailVerified,
		&user.CreatedAt, &user.UpdatedAt, &lastLogin)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, apperr.ErrUserNotFound
		}
		return models.User{}, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return user, nil
}

// ExistsByUsername reports whether a user with the given username exists.
func (s *SQLiteUserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE username = ?", username)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("checking username existence: %w", err)
	}
	return n > 0, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (s *SQLiteUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users WHERE email = ?", email)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("checking email existence: %w", err)
	}
	return n > 0, nil
}

// GetByUsername retrieves a user by username, including the password hash.
func (s *SQLiteUserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE username = ?", username)
	return scanUser(row)
}

// GetByEmail retrieves a user by email, including the password hash.
func (s *SQLiteUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email)
	return scanUser(row)
}

// Create inserts a new user record. Unique-constraint violations on username
// or email are mapped to the matching duplicate error, so a race between two
// registrations resolves to exactly one winner.
func (s *SQLiteUserStore) Create(ctx context.Context, user models.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users
		(id, username, email, password_hash, first_name, last_name, avatar_url,
		 is_active, email_verified, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.AvatarURL,
		user.IsActive, user.EmailVerified, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if dupErr := duplicateError(err); dupErr != nil {
			return dupErr
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// UpdateLastLogin sets the last-login timestamp for a user.
func (s *SQLiteUserStore) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET last_login_at = ? WHERE id = ?", at, id)
	if err != nil {
		return fmt.Errorf("updating last login time: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrUserNotFound
	}
	return nil
}

// duplicateError translates a SQLite UNIQUE violation into the domain error
// for the column that collided, or nil if err is not a UNIQUE violation.
func duplicateError(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return apperr.ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return apperr.ErrDuplicateEmail
	}
	return nil
}
