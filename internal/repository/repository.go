package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/task-list-api/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("repository: record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("repository: duplicate record")
	// ErrNotOwner is returned when a task exists but belongs to someone else.
	ErrNotOwner = errors.New("repository: task owned by another user")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by exact email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves an owner's tasks, newest first
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// UpdateOwned applies patch to the task only if it belongs to ownerID,
	// in a single store operation, and returns the updated task.
	UpdateOwned(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error)

	// DeleteOwned permanently removes the task only if it belongs to ownerID.
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	OwnerID   string
	Search    string
	Completed *bool
}

// classifyMiss tells a missing task apart from one owned by somebody else
// after a conditional write matched nothing.
func classifyMiss(ctx context.Context, repo TaskRepository, id string) error {
	if _, err := repo.FindByID(ctx, id); err != nil {
		return err
	}
	return ErrNotOwner
}
