package repository

import (
	"context"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// TaskRepository defines the interface for task data access.
// Lookup methods return (nil, nil) when no row matches.
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *domain.Task) error
	// GetByID retrieves a task by ID
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	// Update updates a task
	Update(ctx context.Context, task *domain.Task) error
	// Delete deletes a task; reports whether a row was removed
	Delete(ctx context.Context, id string) (bool, error)
	// List retrieves all tasks
	List(ctx context.Context) ([]*domain.Task, error)
}
