package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a task ID does not exist.
var ErrNotFound = errors.New("task not found")

// Priority levels a task can carry.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ValidPriority reports whether p is one of the recognized priority levels.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Task is a persisted task record. OwnerID is set at creation and never
// changes afterwards.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Completed   bool
	DueDate     sql.NullTime
	Reminder    bool
	Priority    string
	RemindedAt  sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const taskColumns = `id, owner_id, title, description, completed, due_date,
	       reminder, priority, reminded_at, created_at, updated_at`

// CreateTask inserts a new task. A missing ID is generated and a missing
// priority defaults to medium.
func (s *Store) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if !ValidPriority(task.Priority) {
		return fmt.Errorf("invalid priority %q", task.Priority)
	}
	if task.OwnerID == "" {
		return fmt.Errorf("owner_id must not be empty")
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.OwnerID, task.Title, task.Description, task.Completed,
		task.DueDate, task.Reminder, task.Priority, task.RemindedAt,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*Task, error) {
	task := &Task{}
	err := s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE id = ?
	`, id).Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description,
		&task.Completed, &task.DueDate, &task.Reminder, &task.Priority,
		&task.RemindedAt, &task.CreatedAt, &task.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks belonging to ownerID, newest first.
func (s *Store) ListTasks(ctx context.Context, ownerID string) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE owner_id = ?
		ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Title, &task.Description,
			&task.Completed, &task.DueDate, &task.Reminder, &task.Priority,
			&task.RemindedAt, &task.CreatedAt, &task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask saves the mutable fields of task. OwnerID is deliberately
// excluded from the UPDATE: ownership is immutable after creation.
func (s *Store) UpdateTask(ctx context.Context, task *Task) error {
	if !ValidPriority(task.Priority) {
		return fmt.Errorf("invalid priority %q", task.Priority)
	}
	task.UpdatedAt = time.Now()

	result, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET title = ?, description = ?, completed = ?, due_date = ?,
		    reminder = ?, priority = ?, reminded_at = ?, updated_at = ?
		WHERE id = ?
	`, task.Title, task.Description, task.Completed, task.DueDate,
		task.Reminder, task.Priority, task.RemindedAt, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, task.ID)
	}
	return nil
}

// DeleteTask removes a task by ID.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// TaskCount returns the total number of tasks across all owners.
func (s *Store) TaskCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return n, nil
}

// DueSoon returns incomplete reminder-enabled tasks whose due date falls
// within the window ending now+lookahead and that have not been announced yet.
func (s *Store) DueSoon(ctx context.Context, lookahead time.Duration) ([]*Task, error) {
	now := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE reminder = 1
		  AND completed = 0
		  AND reminded_at IS NULL
		  AND due_date IS NOT NULL
		  AND due_date <= ?
		ORDER BY due_date
	`, now.Add(lookahead))
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task := &Task{}
		err := rows.Scan(
			&task.ID, &task.OwnerID, &task.Title, &task.Description,
			&task.Completed, &task.DueDate, &task.Reminder, &task.Priority,
			&task.RemindedAt, &task.CreatedAt, &task.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due tasks: %w", err)
	}
	return tasks, nil
}

// MarkReminded records that a due-soon announcement has been made for the
// task so it is not announced again.
func (s *Store) MarkReminded(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET reminded_at = ?, updated_at = ? WHERE id = ?
	`, time.Now(), time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark task reminded: %w", err)
	}
	return nil
}
