package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, q DBTX, user *domain.User) error {
	query := `
		INSERT INTO users (dni, password, role)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, user.DNI, user.Password, user.Role).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.User, error) {
	query := `SELECT id, dni, password, role FROM users WHERE id = $1`

	var user domain.User
	err := q.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.DNI, &user.Password, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, q DBTX, user *domain.User) error {
	query := `UPDATE users SET dni = $1, password = $2, role = $3 WHERE id = $4`

	result, err := q.ExecContext(ctx, query, user.DNI, user.Password, user.Role, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRowsAffected(result, user.ID)
}

func (r *UserRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRowsAffected(result, id)
}

func (r *UserRepository) List(ctx context.Context, q DBTX) ([]*domain.User, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, dni, password, role FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.DNI, &user.Password, &user.Role); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return users, nil
}
