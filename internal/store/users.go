package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazmer/lekarna/internal/model"
)

// CreateUser creates a new staff account.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, firstName, lastName, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, first_name, last_name, role) VALUES (?, ?, ?, ?, ?)`,
		email, passwordHash, firstName, lastName, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var firstName, lastName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	return u, nil
}

// GetUserByEmail returns a user by email, including soft-deleted accounts so
// login can distinguish "gone" from "never existed".
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	var firstName, lastName sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, created_at, deleted_at
		 FROM users WHERE email = ? ORDER BY deleted_at IS NOT NULL LIMIT 1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	return u, nil
}

// ListUsers returns all non-deleted accounts.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, created_at, deleted_at
		 FROM users WHERE deleted_at IS NULL ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var firstName, lastName sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &firstName, &lastName, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.FirstName = firstName.String
		u.LastName = lastName.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUser updates an account's name and role.
func UpdateUser(ctx context.Context, db *sql.DB, id int64, firstName, lastName, role string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, role = ? WHERE id = ? AND deleted_at IS NULL`,
		firstName, lastName, role, id,
	)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// UpdateUserPassword updates an account's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// DeleteUser soft-deletes an account so its email can be reused later while
// its audit history stays attributable.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", id, model.ErrNotFound)
	}
	return nil
}
