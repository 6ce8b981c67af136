package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"submission_service/internal/domain"
	"submission_service/internal/repository"
)

func TestStatusChangeRepositoryAppend(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewStatusChangeRepository()

	changedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_changes (task_id, status, changed_at)")).
		WithArgs(int64(7), string(domain.SubmissionStatusSubmitted), changedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.Append(context.Background(), db, 7, string(domain.SubmissionStatusSubmitted), changedAt)
	require.NoError(t, err)
}

func TestStatusChangeRepositoryListByTask(t *testing.T) {
	db, mock := newMock(t)
	repo := repository.NewStatusChangeRepository()

	changedAt := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE task_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "status", "changed_at"}).
			AddRow(int64(1), int64(7), "submitted", changedAt).
			AddRow(int64(2), int64(7), "updated", changedAt))

	got, err := repo.ListByTask(context.Background(), db, 7)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "submitted", got[0].Status)
	assert.Equal(t, "updated", got[1].Status)
}
