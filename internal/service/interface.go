package service

import (
	"context"
	"time"

	"submission_service/internal/domain"
	"submission_service/internal/repository"
)

// SubmissionStore persists submission records. Every method runs on the
// handle passed by the workflow, never on a connection of its own.
type SubmissionStore interface {
	Create(ctx context.Context, q repository.DBTX, submission *domain.Submission) error
	GetByID(ctx context.Context, q repository.DBTX, id int64) (*domain.Submission, error)
	UpdateFile(ctx context.Context, q repository.DBTX, id int64, fileName, contentType string, submittedAt time.Time) error
	Delete(ctx context.Context, q repository.DBTX, id int64) error
	List(ctx context.Context, q repository.DBTX) ([]*domain.Submission, error)
	ListByTask(ctx context.Context, q repository.DBTX, taskID int64) ([]*domain.Submission, error)
}

// StatusLog is the append-only audit trail of task status transitions.
type StatusLog interface {
	Append(ctx context.Context, q repository.DBTX, taskID int64, status string, changedAt time.Time) error
	List(ctx context.Context, q repository.DBTX) ([]*domain.StatusChange, error)
	ListByTask(ctx context.Context, q repository.DBTX, taskID int64) ([]*domain.StatusChange, error)
}
