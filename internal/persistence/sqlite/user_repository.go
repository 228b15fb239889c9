package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/studio-scheduler/internal/persistence"
)

// CreateUser inserts a new directory entry.
func (s *Store) CreateUser(ctx context.Context, user persistence.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.Email,
		user.DisplayName,
		user.Role,
		user.CreatedAt.UTC().Format(time.RFC3339),
		user.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if isUniqueViolation(err) {
		return persistence.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("sqlite: create user: %w", err)
	}
	return nil
}

// GetUser retrieves a directory entry by id.
func (s *Store) GetUser(ctx context.Context, id string) (persistence.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, role, created_at, updated_at
		FROM users WHERE id = ?`, id)

	user, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.User{}, persistence.ErrNotFound
	}
	if err != nil {
		return persistence.User{}, fmt.Errorf("sqlite: get user: %w", err)
	}
	return user, nil
}

// ListUsers returns all directory entries ordered by display name.
func (s *Store) ListUsers(ctx context.Context) ([]persistence.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, display_name, role, created_at, updated_at
		FROM users ORDER BY display_name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list users: %w", err)
	}
	defer rows.Close()

	users := make([]persistence.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list users: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes a directory entry.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: delete user: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (persistence.User, error) {
	var user persistence.User
	var createdAt, updatedAt string

	err := row.Scan(&user.ID, &user.Email, &user.DisplayName, &user.Role, &createdAt, &updatedAt)
	if err != nil {
		return persistence.User{}, err
	}
	if user.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return persistence.User{}, err
	}
	if user.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return persistence.User{}, err
	}
	return user, nil
}
