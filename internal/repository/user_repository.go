package repository

import (
	"context"

	"github.com/kiarashjv/task-management-system/internal/domain"
)

// UserRepository defines the interface for user data access.
// Lookup methods return (nil, nil) when no row matches.
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *domain.User) error
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// Update updates a user
	Update(ctx context.Context, user *domain.User) error
	// Delete deletes a user
	Delete(ctx context.Context, id string) error
	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)
	// ExistsByUsername checks if a user exists with the given username
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// Count returns the total number of users
	Count(ctx context.Context) (int64, error)
}
