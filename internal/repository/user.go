package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/bookhaven/bookhaven-go/internal/model"
)

// Compile-time check that the MySQL implementation satisfies the interface.
var _ UserRepository = (*MySQLUserRepository)(nil)

// MySQLUserRepository handles user persistence operations.
type MySQLUserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new MySQLUserRepository.
func NewUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

// Create inserts a new user and sets the generated ID on the user struct.
func (r *MySQLUserRepository) Create(ctx context.Context, user *model.User) error {
	user.ID = xid.New().String()
	now := time.Now().UTC()

	query := `INSERT INTO users (id, username, email, name, password_hash) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.Name, user.PasswordHash)
	if err != nil {
		if dup, key := duplicateEntryKey(err); dup {
			if key == "users_username" {
				return ErrDuplicateUsername
			}
			return ErrDuplicateEmail
		}
		return err
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

// GetByEmail retrieves a user by their email address.
func (r *MySQLUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getWhere(ctx, "email = ?", email)
}

// GetByUsername retrieves a user by their username.
func (r *MySQLUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getWhere(ctx, "username = ?", username)
}

// GetByID retrieves a user by their ID.
func (r *MySQLUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.getWhere(ctx, "id = ?", id)
}

func (r *MySQLUserRepository) getWhere(ctx context.Context, where string, arg any) (*model.User, error) {
	query := `SELECT id, username, email, name, password_hash, created_at, updated_at FROM users WHERE ` + where

	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.Name, &user.PasswordHash,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

// Update persists profile fields of an existing user. The password hash is
// written too, so callers must carry the stored hash through unchanged unless
// the password itself was rehashed.
func (r *MySQLUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET username = ?, email = ?, name = ?, password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.Name, user.PasswordHash, user.ID)
	if err != nil {
		if dup, key := duplicateEntryKey(err); dup {
			if key == "users_username" {
				return ErrDuplicateUsername
			}
			return ErrDuplicateEmail
		}
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		// Either the user is gone or nothing changed; distinguish by lookup.
		if _, err := r.GetByID(ctx, user.ID); err != nil {
			return err
		}
	}
	return nil
}

// duplicateEntryKey reports whether a MySQL error is a duplicate entry error
// (code 1062) and which unique key it names.
func duplicateEntryKey(err error) (bool, string) {
	if err == nil || !strings.Contains(err.Error(), "Duplicate entry") {
		return false, ""
	}
	switch {
	case strings.Contains(err.Error(), "users_username"):
		return true, "users_username"
	case strings.Contains(err.Error(), "users_email"):
		return true, "users_email"
	}
	return true, ""
}
