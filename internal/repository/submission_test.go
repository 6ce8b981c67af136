package repository_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submission_service/internal/domain"
	"submission_service/internal/errdefs"
	"submission_service/internal/repository"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

var submissionColumns = []string{"id", "submitted_at", "file_name", "content_type", "task_id", "student_id"}

func TestSubmissionRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	submittedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	submission := &domain.Submission{
		TaskID:      7,
		StudentID:   3,
		FileName:    "essay.pdf",
		ContentType: "application/pdf",
		SubmittedAt: submittedAt,
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO submissions")).
		WithArgs(submittedAt, "essay.pdf", "application/pdf", int64(7), int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	err := repo.Create(context.Background(), db, submission)
	require.NoError(t, err)
	assert.Equal(t, int64(42), submission.ID)
}

func TestSubmissionRepositoryGetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	submittedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, submitted_at, file_name, content_type, task_id, student_id")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow(int64(42), submittedAt, "essay.pdf", "application/pdf", int64(7), int64(3)))

	got, err := repo.GetByID(context.Background(), db, 42)
	require.NoError(t, err)
	assert.Equal(t, &domain.Submission{
		ID:          42,
		TaskID:      7,
		StudentID:   3,
		FileName:    "essay.pdf",
		ContentType: "application/pdf",
		SubmittedAt: submittedAt,
	}, got)
}

func TestSubmissionRepositoryGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, submitted_at, file_name, content_type, task_id, student_id")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), db, 99)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestSubmissionRepositoryUpdateFile(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	submittedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions")).
		WithArgs(submittedAt, "essay_v2.pdf", "application/pdf", int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateFile(context.Background(), db, 42, "essay_v2.pdf", "application/pdf", submittedAt)
	require.NoError(t, err)
}

func TestSubmissionRepositoryUpdateFileNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	submittedAt := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE submissions")).
		WithArgs(submittedAt, "essay_v2.pdf", "application/pdf", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateFile(context.Background(), db, 99, "essay_v2.pdf", "application/pdf", submittedAt)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestSubmissionRepositoryDeleteNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM submissions WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), db, 99)
	require.ErrorIs(t, err, errdefs.ErrNotFound)
}

func TestSubmissionRepositoryListByTask(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	submittedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE task_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(submissionColumns).
			AddRow(int64(1), submittedAt, "a.pdf", "application/pdf", int64(7), int64(3)).
			AddRow(int64(2), submittedAt, "b.pdf", "application/pdf", int64(7), int64(4)))

	got, err := repo.ListByTask(context.Background(), db, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].FileName)
	assert.Equal(t, int64(4), got[1].StudentID)
}

func TestSubmissionRepositoryListEmpty(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewSubmissionRepository()

	mock.ExpectQuery(regexp.QuoteMeta("FROM submissions")).
		WillReturnRows(sqlmock.NewRows(submissionColumns))

	got, err := repo.List(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, got)
}
