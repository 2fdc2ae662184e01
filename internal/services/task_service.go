package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/task-list-api/internal/models"
	"github.com/yukikurage/task-list-api/internal/repository"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrNotTaskOwner  = errors.New("not authorized")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleEmpty    = errors.New("title cannot be empty")
)

// StatusFilter is the closed set of completion filters accepted by List.
type StatusFilter string

const (
	StatusAll       StatusFilter = ""
	StatusCompleted StatusFilter = "completed"
	StatusPending   StatusFilter = "pending"
)

// ParseStatusFilter maps a raw query value to a StatusFilter. Unknown
// values mean no filter.
func ParseStatusFilter(raw string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case StatusCompleted:
		return StatusCompleted
	case StatusPending:
		return StatusPending
	default:
		return StatusAll
	}
}

// completed returns the completion flag to filter on, or nil for all.
func (f StatusFilter) completed() *bool {
	var v bool
	switch f {
	case StatusCompleted:
		v = true
	case StatusPending:
		v = false
	default:
		return nil
	}
	return &v
}

// TaskService handles task business logic. Every operation is scoped to
// the authenticated owner.
type TaskService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// WithClock replaces the clock used for creation timestamps.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title string
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	Search string
	Status StatusFilter
}

// UpdateTaskInput represents a partial update. Nil fields are unchanged.
type UpdateTaskInput struct {
	Title     *string
	Completed *bool
}

// Create persists a new, pending task owned by owner.
func (s *TaskService) Create(ctx context.Context, owner string, input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	task := &models.Task{
		Title:     title,
		OwnerID:   owner,
		Completed: false,
		CreatedAt: s.now().UTC(),
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// List returns all of owner's tasks matching input, newest first.
func (s *TaskService) List(ctx context.Context, owner string, input ListTasksInput) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		OwnerID:   owner,
		Search:    strings.TrimSpace(input.Search),
		Completed: input.Status.completed(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update to one of owner's tasks.
func (s *TaskService) Update(ctx context.Context, owner, taskID string, input UpdateTaskInput) (*models.Task, error) {
	patch := models.TaskPatch{Completed: input.Completed}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		patch.Title = &title
	}

	task, err := s.taskRepo.UpdateOwned(ctx, taskID, owner, patch)
	if err != nil {
		return nil, translateTaskError(err, "update")
	}
	return task, nil
}

// Delete permanently removes one of owner's tasks.
func (s *TaskService) Delete(ctx context.Context, owner, taskID string) error {
	if err := s.taskRepo.DeleteOwned(ctx, taskID, owner); err != nil {
		return translateTaskError(err, "delete")
	}
	return nil
}

func translateTaskError(err error, op string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repository.ErrNotOwner):
		return ErrNotTaskOwner
	default:
		return fmt.Errorf("failed to %s task: %w", op, err)
	}
}
