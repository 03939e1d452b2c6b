package store

import (
	"context"

	"github.com/phrazzld/taskflow-api/internal/domain"
)

// TaskStore defines the interface for task persistence.
// Updates are single-record, last write wins.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id domain.ID) (*domain.Task, error)

	// Update overwrites the mutable fields of an existing task
	// (title, description, due date, status, priority, assignee, updated_at).
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id domain.ID) error

	// Find returns the page of tasks described by q, newest first.
	Find(ctx context.Context, q TaskQuery) ([]*domain.Task, error)

	// Count returns the number of tasks matching q, ignoring its paging window.
	Count(ctx context.Context, q TaskQuery) (int64, error)
}
