package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
)

type TeacherRepository struct{}

func NewTeacherRepository() *TeacherRepository {
	return &TeacherRepository{}
}

func (r *TeacherRepository) Create(ctx context.Context, q DBTX, teacher *domain.Teacher) error {
	query := `
		INSERT INTO teachers (name, dni, email, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, teacher.Name, teacher.DNI, teacher.Email, teacher.UserID).Scan(&teacher.ID)
	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	return nil
}

func (r *TeacherRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.Teacher, error) {
	query := `SELECT id, name, dni, email, user_id FROM teachers WHERE id = $1`

	var teacher domain.Teacher
	err := q.QueryRowContext(ctx, query, id).Scan(&teacher.ID, &teacher.Name, &teacher.DNI, &teacher.Email, &teacher.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("teacher %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get teacher: %w", err)
	}
	return &teacher, nil
}

func (r *TeacherRepository) Update(ctx context.Context, q DBTX, teacher *domain.Teacher) error {
	query := `UPDATE teachers SET name = $1, dni = $2, email = $3, user_id = $4 WHERE id = $5`

	result, err := q.ExecContext(ctx, query, teacher.Name, teacher.DNI, teacher.Email, teacher.UserID, teacher.ID)
	if err != nil {
		return fmt.Errorf("failed to update teacher: %w", err)
	}
	return requireRowsAffected(result, teacher.ID)
}

func (r *TeacherRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete teacher: %w", err)
	}
	return requireRowsAffected(result, id)
}

func (r *TeacherRepository) List(ctx context.Context, q DBTX) ([]*domain.Teacher, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, dni, email, user_id FROM teachers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teachers []*domain.Teacher
	for rows.Next() {
		var teacher domain.Teacher
		if err := rows.Scan(&teacher.ID, &teacher.Name, &teacher.DNI, &teacher.Email, &teacher.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan teacher: %w", err)
		}
		teachers = append(teachers, &teacher)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return teachers, nil
}
