package userservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

func newUserModel(db *sql.DB) *DBModel {
	return &DBModel{db: db}
}

func (m *DBModel) insertUser(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, email, password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at, version`

	args := []any{
		u.Username,
		u.Email,
		u.Password.hash,
		u.IsAdmin,
	}

	err := m.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case common.IsUniqueViolation(err, "users_username_key"):
			return ErrDuplicateUsername
		case common.IsUniqueViolation(err, "users_email_key"):
			return ErrDuplicateEmail
		default:
			return err
		}
	}

	return nil
}

func (m *DBModel) getUserByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, email, password, is_admin, created_at, updated_at, version
		FROM users
		WHERE username = $1`

	var u User

	err := m.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.Email, &u.Password.hash, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, err
		}
	}

	return &u, nil
}

// promoteUser grants admin rights and replaces the password hash. The version check keeps a concurrent
// bootstrap from overwriting a newer row.
func (m *DBModel) promoteUser(ctx context.Context, u *User) error {
	query := `
		UPDATE users
		SET is_admin = TRUE, password = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING updated_at, version`

	err := m.db.QueryRowContext(ctx, query, u.Password.hash, u.ID, u.Version).Scan(&u.UpdatedAt, &u.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return common.ErrRecordNotFound
		default:
			return err
		}
	}

	u.IsAdmin = true

	return nil
}
