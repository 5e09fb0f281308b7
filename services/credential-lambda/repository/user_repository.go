package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hms-services/common/db"
	"github.com/hms-services/services/credential-lambda/models"
)

// UserRepository handles staff account data access
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a repository on the shared pool
func NewUserRepository() *UserRepository {
	return &UserRepository{
		db: db.GetDB(),
	}
}

// NewUserRepositoryWithDB creates a repository on an explicit pool
func NewUserRepositoryWithDB(conn *sql.DB) *UserRepository {
	return &UserRepository{db: conn}
}

// FindByUsername finds a user by username; nil, nil when absent
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT user_id, username, full_name, email, password_hash, role, status
		FROM Users
		WHERE username = ?
	`

	var user models.User
	var email sql.NullString
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.FullName,
		&email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user.Email = email.String

	return &user, nil
}

// UpdatePasswordHash stores a new password hash and flags the account for a
// password change at next login
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, userID int, passwordHash string) error {
	query := `
		UPDATE Users
		SET password_hash = ?, must_change_password = 1, password_updated_at = UTC_TIMESTAMP()
		WHERE user_id = ?
	`

	result, err := r.db.ExecContext(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}
