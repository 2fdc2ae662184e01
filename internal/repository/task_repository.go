package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/task-list-api/internal/database"
	"github.com/yukikurage/task-list-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// List retrieves an owner's tasks, newest first
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	tasks := []models.Task{}
	err := r.db.WithContext(ctx).
		Scopes(
			database.OwnedBy(filter.OwnerID),
			database.TitleContains(filter.Search),
			database.WithCompleted(filter.Completed),
			database.NewestFirst,
		).
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateOwned updates the task matching both id and owner
func (r *GormTaskRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Completed != nil {
		updates["completed"] = *patch.Completed
	}

	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, classifyMiss(ctx, r, id)
	}

	return r.FindByID(ctx, id)
}

// DeleteOwned permanently deletes the task matching both id and owner
func (r *GormTaskRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return classifyMiss(ctx, r, id)
	}
	return nil
}
