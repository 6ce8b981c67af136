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

type TaskRepository struct{}

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

func (r *TaskRepository) Create(ctx context.Context, q DBTX, task *domain.Task) error {
	query := `
		INSERT INTO tasks (name, instructions, due_date, class_id, student_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		task.Name,
		task.Instructions,
		task.DueDate,
		task.ClassID,
		task.StudentID,
		task.Status,
	).Scan(&task.ID)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// CreateForClass inserts one copy of the task for every student of the class,
// mirroring the bulk "common task" operation of the toolchain this service
// fronts. Returns the number of created tasks.
func (r *TaskRepository) CreateForClass(ctx context.Context, q DBTX, task *domain.Task) (int, error) {
	rows, err := q.QueryContext(ctx, `SELECT id FROM students WHERE class_id = $1`, task.ClassID)
	if err != nil {
		return 0, fmt.Errorf("failed to list class students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var studentIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan student id: %w", err)
		}
		studentIDs = append(studentIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("rows error: %w", err)
	}

	query := `
		INSERT INTO tasks (name, instructions, due_date, class_id, student_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, studentID := range studentIDs {
		_, err := q.ExecContext(ctx, query,
			task.Name,
			task.Instructions,
			task.DueDate,
			task.ClassID,
			studentID,
			task.Status,
		)
		if err != nil {
			return 0, fmt.Errorf("failed to create task for student %d: %w", studentID, err)
		}
	}

	return len(studentIDs), nil
}

func (r *TaskRepository) GetByID(ctx context.Context, q DBTX, id int64) (*domain.Task, error) {
	query := `
		SELECT id, name, instructions, due_date, class_id, student_id, status
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := q.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Name,
		&task.Instructions,
		&task.DueDate,
		&task.ClassID,
		&task.StudentID,
		&task.Status,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %d: %w", id, errdefs.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

func (r *TaskRepository) Update(ctx context.Context, q DBTX, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET name = $1, instructions = $2, due_date = $3, class_id = $4, student_id = $5, status = $6
		WHERE id = $7
	`

	result, err := q.ExecContext(ctx, query,
		task.Name,
		task.Instructions,
		task.DueDate,
		task.ClassID,
		task.StudentID,
		task.Status,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return requireRowsAffected(result, task.ID)
}

func (r *TaskRepository) Delete(ctx context.Context, q DBTX, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRowsAffected(result, id)
}

// ListByFilter narrows tasks by student, class and owning teacher. Zero filter
// values are skipped, so the empty filter lists everything.
func (r *TaskRepository) ListByFilter(ctx context.Context, q DBTX, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `
		SELECT id, name, instructions, due_date, class_id, student_id, status
		FROM tasks
		WHERE 1=1
	`
	var args []any
	argsCount := 1

	if filter.StudentID != 0 {
		query += fmt.Sprintf(" AND student_id = $%d", argsCount)
		args = append(args, filter.StudentID)
		argsCount++
	}

	if filter.ClassID != 0 {
		query += fmt.Sprintf(" AND class_id = $%d", argsCount)
		args = append(args, filter.ClassID)
		argsCount++
	}

	if filter.TeacherID != 0 {
		query += fmt.Sprintf(" AND class_id IN (SELECT id FROM classes WHERE teacher_id = $%d)", argsCount)
		args = append(args, filter.TeacherID)
		argsCount++
	}

	query += " ORDER BY id"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return scanTasks(rows)
}

// FindDueSoon returns tasks whose due date falls within the given window and
// that have no submission yet. Used by the reminder worker.
func (r *TaskRepository) FindDueSoon(ctx context.Context, q DBTX, window time.Duration) ([]*domain.Task, error) {
	query := `
		SELECT t.id, t.name, t.instructions, t.due_date, t.class_id, t.student_id, t.status
		FROM tasks t
		LEFT JOIN submissions s ON s.task_id = t.id
		WHERE s.id IS NULL AND t.due_date BETWEEN NOW() AND $1
	`

	deadline := time.Now().Add(window)
	rows, err := q.QueryContext(ctx, query, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	return scanTasks(rows)
}

func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		err := rows.Scan(
			&task.ID,
			&task.Name,
			&task.Instructions,
			&task.DueDate,
			&task.ClassID,
			&task.StudentID,
			&task.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tasks, nil
}

func requireRowsAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("record %d: %w", id, errdefs.ErrNotFound)
	}
	return nil
}
