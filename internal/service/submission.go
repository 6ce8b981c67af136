package service

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
	"submission_service/internal/pool"
	"submission_service/internal/storage"
	"submission_service/pkg/logger"
)

// FetchResult is a downloaded submission artifact together with the metadata
// the boundary needs to serve it.
type FetchResult struct {
	Content     []byte
	ContentType string
	FileName    string
}

type SubmissionServiceInterface interface {
	Submit(ctx context.Context, taskID, studentID int64, fileName, contentType string, content io.Reader) (*domain.Submission, error)
	Resubmit(ctx context.Context, id int64, fileName, contentType string, content io.Reader) (*domain.Submission, error)
	Withdraw(ctx context.Context, id int64) error
	Fetch(ctx context.Context, id int64) (*FetchResult, error)
	List(ctx context.Context) ([]*domain.Submission, error)
	ListByTask(ctx context.Context, taskID int64) ([]*domain.Submission, error)
}

// submissionService couples the submission record, the stored artifact and the
// status log. Within one call the artifact write happens before the record
// write, which happens before the status append, which happens before commit:
// a crash mid-way can orphan a file but never commits a record pointing at a
// file that was not written.
type submissionService struct {
	pool        *pool.Pool
	submissions SubmissionStore
	statusLog   StatusLog
	files       storage.Store
	logger      *logger.Logger
}

func NewSubmissionService(
	db *pool.Pool,
	submissions SubmissionStore,
	statusLog StatusLog,
	files storage.Store,
	log *logger.Logger,
) SubmissionServiceInterface {
	return &submissionService{
		pool:        db,
		submissions: submissions,
		statusLog:   statusLog,
		files:       files,
		logger:      log,
	}
}

func (s *submissionService) Submit(ctx context.Context, taskID, studentID int64, fileName, contentType string, content io.Reader) (*domain.Submission, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", errdefs.ErrValidation)
	}

	var submission *domain.Submission
	var storedName string

	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		storedName, err = s.files.Put(ctx, fileName, contentType, content)
		if err != nil {
			return fmt.Errorf("store artifact: %w", err)
		}

		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %v", errdefs.ErrStoreUnavailable, err)
		}
		defer func() { _ = tx.Rollback() }()

		now := time.Now()
		sub := &domain.Submission{
			TaskID:      taskID,
			StudentID:   studentID,
			FileName:    storedName,
			ContentType: contentType,
			SubmittedAt: now,
		}
		if err := s.submissions.Create(ctx, tx, sub); err != nil {
			return fmt.Errorf("create record: %w", err)
		}
		if err := s.statusLog.Append(ctx, tx, taskID, string(domain.SubmissionStatusSubmitted), now); err != nil {
			return fmt.Errorf("append status: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: commit: %v", errdefs.ErrStoreUnavailable, err)
		}

		submission = sub
		return nil
	})

	if err != nil {
		if storedName != "" {
			// Written before the failing step; not rolled back, only reported.
			s.logger.Warnf("submit failed after artifact %s was stored: %v", storedName, err)
		}
		return nil, fmt.Errorf("submit task %d student %d: %w", taskID, studentID, err)
	}

	return submission, nil
}

func (s *submissionService) Resubmit(ctx context.Context, id int64, fileName, contentType string, content io.Reader) (*domain.Submission, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", errdefs.ErrValidation)
	}

	var submission *domain.Submission
	var storedName string

	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %v", errdefs.ErrStoreUnavailable, err)
		}
		defer func() { _ = tx.Rollback() }()

		existing, err := s.submissions.GetByID(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}

		// The previous artifact is kept until the new one is confirmed
		// written; it stays on disk afterwards as well, reconciliation of
		// orphans is not this service's job.
		storedName, err = s.files.Put(ctx, fileName, contentType, content)
		if err != nil {
			return fmt.Errorf("store artifact: %w", err)
		}

		now := time.Now()
		if err := s.submissions.UpdateFile(ctx, tx, id, storedName, contentType, now); err != nil {
			return fmt.Errorf("update record: %w", err)
		}
		if err := s.statusLog.Append(ctx, tx, existing.TaskID, string(domain.SubmissionStatusUpdated), now); err != nil {
			return fmt.Errorf("append status: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: commit: %v", errdefs.ErrStoreUnavailable, err)
		}

		submission = &domain.Submission{
			ID:          id,
			TaskID:      existing.TaskID,
			StudentID:   existing.StudentID,
			FileName:    storedName,
			ContentType: contentType,
			SubmittedAt: now,
		}
		return nil
	})

	if err != nil {
		if storedName != "" {
			s.logger.Warnf("resubmit failed after artifact %s was stored: %v", storedName, err)
		}
		return nil, fmt.Errorf("resubmit submission %d: %w", id, err)
	}

	return submission, nil
}

func (s *submissionService) Withdraw(ctx context.Context, id int64) error {
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %v", errdefs.ErrStoreUnavailable, err)
		}
		defer func() { _ = tx.Rollback() }()

		existing, err := s.submissions.GetByID(ctx, tx, id)
		if err != nil {
			// Unknown id: no artifact deleted, no status appended.
			return fmt.Errorf("read record: %w", err)
		}

		if err := s.files.Delete(ctx, existing.FileName); err != nil {
			return fmt.Errorf("delete artifact: %w", err)
		}
		if err := s.submissions.Delete(ctx, tx, id); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
		if err := s.statusLog.Append(ctx, tx, existing.TaskID, string(domain.SubmissionStatusRemoved), time.Now()); err != nil {
			return fmt.Errorf("append status: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%w: commit: %v", errdefs.ErrStoreUnavailable, err)
		}
		return nil
	})

	if err != nil {
		return fmt.Errorf("withdraw submission %d: %w", id, err)
	}
	return nil
}

func (s *submissionService) Fetch(ctx context.Context, id int64) (*FetchResult, error) {
	var result *FetchResult

	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		submission, err := s.submissions.GetByID(ctx, conn, id)
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}

		content, err := s.files.Get(ctx, submission.FileName)
		if err != nil {
			return fmt.Errorf("read artifact: %w", err)
		}

		result = &FetchResult{
			Content:     content,
			ContentType: submission.ContentType,
			FileName:    submission.FileName,
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("fetch submission %d: %w", id, err)
	}
	return result, nil
}

func (s *submissionService) List(ctx context.Context) ([]*domain.Submission, error) {
	var submissions []*domain.Submission
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		submissions, err = s.submissions.List(ctx, conn)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

func (s *submissionService) ListByTask(ctx context.Context, taskID int64) ([]*domain.Submission, error) {
	var submissions []*domain.Submission
	err := s.pool.WithConn(ctx, func(conn *sql.Conn) error {
		var err error
		submissions, err = s.submissions.ListByTask(ctx, conn, taskID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions for task %d: %w", taskID, err)
	}
	return submissions, nil
}
