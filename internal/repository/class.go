package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
)

type ClassRepository struct{}

func NewClassRepository() *ClassRepository {
	return &ClassRepository{}
}

func (r *ClassRepository) Create(ctx context.Context, q DBTX, class *domain.Class) error {
	query := `
		INSERT INTO classes (name, teacher_id)
		VALUES ($1, $2)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, class.Name, class.TeacherID).Scan(&class.ID)
	if err != nil {
		return fmt.Errorf("failed to create class: %w", err)
	}
	return nil
}

func (r *ClassRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.Class, error) {
	query := `SELECT id, name, teacher_id FROM classes WHERE id = $1`

	var class domain.Class
	err := q.QueryRowContext(ctx, query, id).Scan(&class.ID, &class.Name, &class.TeacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("class %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get class: %w", err)
	}
	return &class, nil
}

func (r *ClassRepository) Update(ctx context.Context, q DBTX, class *domain.Class) error {
	query := `UPDATE classes SET name = $1, teacher_id = $2 WHERE id = $3`

	result, err := q.ExecContext(ctx, query, class.Name, class.TeacherID, class.ID)
	if err != nil {
		return fmt.Errorf("failed to update class: %w", err)
	}
	return requireRowsAffected(result, class.ID)
}

func (r *ClassRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	return requireRowsAffected(result, id)
}

func (r *ClassRepository) List(ctx context.Context, q DBTX) ([]*domain.Class, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, teacher_id FROM classes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var classes []*domain.Class
	for rows.Next() {
		var class domain.Class
		if err := rows.Scan(&class.ID, &class.Name, &class.TeacherID); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, &class)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return classes, nil
}
