package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
)

type StudentRepository struct{}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

func (r *StudentRepository) Create(ctx context.Context, q DBTX, student *domain.Student) error {
	query := `
		INSERT INTO students (name, dni, class_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, student.Name, student.DNI, student.ClassID, student.UserID).Scan(&student.ID)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *StudentRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.Student, error) {
	query := `SELECT id, name, dni, class_id, user_id FROM students WHERE id = $1`

	var student domain.Student
	err := q.QueryRowContext(ctx, query, id).Scan(&student.ID, &student.Name, &student.DNI, &student.ClassID, &student.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (r *StudentRepository) Update(ctx context.Context, q DBTX, student *domain.Student) error {
	query := `UPDATE students SET name = $1, dni = $2, class_id = $3, user_id = $4 WHERE id = $5`

	result, err := q.ExecContext(ctx, query, student.Name, student.DNI, student.ClassID, student.UserID, student.ID)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return requireRowsAffected(result, student.ID)
}

func (r *StudentRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return requireRowsAffected(result, id)
}

func (r *StudentRepository) List(ctx context.Context, q DBTX) ([]*domain.Student, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, dni, class_id, user_id FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var students []*domain.Student
	for rows.Next() {
		var student domain.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.DNI, &student.ClassID, &student.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, &student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return students, nil
}
