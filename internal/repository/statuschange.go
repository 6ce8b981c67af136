package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"submission_service/internal/domain"
)

// StatusChangeRepository is append-only: the workflow writes one row per
// successful submit/resubmit/withdraw and nothing in the core ever updates or
// deletes a row once written.
type StatusChangeRepository struct{}

func NewStatusChangeRepository() *StatusChangeRepository {
	return &StatusChangeRepository{}
}

func (r *StatusChangeRepository) Append(ctx context.Context, q DBTX, taskID int64, status string, changedAt time.Time) error {
	query := `
		INSERT INTO status_changes (task_id, status, changed_at)
		VALUES ($1, $2, $3)
	`

	_, err := q.ExecContext(ctx, query, taskID, status, changedAt)
	if err != nil {
		return fmt.Errorf("failed to append status change: %w", err)
	}
	return nil
}

func (r *StatusChangeRepository) List(ctx context.Context, q DBTX) ([]*domain.StatusChange, error) {
	query := `
		SELECT id, task_id, status, changed_at
		FROM status_changes
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}
	return scanStatusChanges(rows)
}

func (r *StatusChangeRepository) ListByTask(ctx context.Context, q DBTX, taskID int64) ([]*domain.StatusChange, error) {
	query := `
		SELECT id, task_id, status, changed_at
		FROM status_changes
		WHERE task_id = $1
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list status changes: %w", err)
	}
	return scanStatusChanges(rows)
}

func scanStatusChanges(rows *sql.Rows) ([]*domain.StatusChange, error) {
	defer func() { _ = rows.Close() }()

	var changes []*domain.StatusChange
	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(&change.ID, &change.TaskID, &change.Status, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		changes = append(changes, &change)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return changes, nil
}
