package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
)

type SubmissionRepository struct{}

func NewSubmissionRepository() *SubmissionRepository {
	return &SubmissionRepository{}
}

func (r *SubmissionRepository) Create(ctx context.Context, q DBTX, submission *domain.Submission) error {
	query := `
		INSERT INTO submissions (submitted_at, file_name, content_type, task_id, student_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		submission.SubmittedAt,
		submission.FileName,
		submission.ContentType,
		submission.TaskID,
		submission.StudentID,
	).Scan(&submission.ID)

	if err != nil {
		return fmt.Errorf("failed to create submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.Submission, error) {
	query := `
		SELECT id, submitted_at, file_name, content_type, task_id, student_id
		FROM submissions
		WHERE id = $1
	`

	var submission domain.Submission
	err := q.QueryRowContext(ctx, query, id).Scan(
		&submission.ID,
		&submission.SubmittedAt,
		&submission.FileName,
		&submission.ContentType,
		&submission.TaskID,
		&submission.StudentID,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("submission %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	return &submission, nil
}

// UpdateFile replaces the stored file reference of an existing submission on
// resubmission.
func (r *SubmissionRepository) UpdateFile(ctx context.Context, q DBTX, id int64, fileName, contentType string, submittedAt time.Time) error {
	query := `
		UPDATE submissions
		SET submitted_at = $1, file_name = $2, content_type = $3
		WHERE id = $4
	`

	result, err := q.ExecContext(ctx, query, submittedAt, fileName, contentType, id)
	if err != nil {
		return fmt.Errorf("failed to update submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("submission %d: %w", id, errdefs.ErrNotFound)
	}

	return nil
}

func (r *SubmissionRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("submission %d: %w", id, errdefs.ErrNotFound)
	}

	return nil
}

func (r *SubmissionRepository) List(ctx context.Context, q DBTX) ([]*domain.Submission, error) {
	query := `
		SELECT id, submitted_at, file_name, content_type, task_id, student_id
		FROM submissions
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return scanSubmissions(rows)
}

func (r *SubmissionRepository) ListByTask(ctx context.Context, q DBTX, taskID int64) ([]*domain.Submission, error) {
	query := `
		SELECT id, submitted_at, file_name, content_type, task_id, student_id
		FROM submissions
		WHERE task_id = $1
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return scanSubmissions(rows)
}

func scanSubmissions(rows *sql.Rows) ([]*domain.Submission, error) {
	defer func() { _ = rows.Close() }()

	var submissions []*domain.Submission
	for rows.Next() {
		var submission domain.Submission
		err := rows.Scan(
			&submission.ID,
			&submission.SubmittedAt,
			&submission.FileName,
			&submission.ContentType,
			&submission.TaskID,
			&submission.StudentID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, &submission)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return submissions, nil
}
