package dto

import (
	"time"

	"github.com/yukikurage/task-list-api/internal/models"
)

// CreateTaskRequest is the body of POST /tasks
type CreateTaskRequest struct {
	Title string `json:"title" binding:"required,max=1000"`
}

// UpdateTaskRequest is the body of PUT /tasks/:id. Absent fields are left
// unchanged.
type UpdateTaskRequest struct {
	Title     *string `json:"title" binding:"omitempty,max=1000"`
	Completed *bool   `json:"completed"`
}

// ListTasksQuery holds the query string of GET /tasks
type ListTasksQuery struct {
	Search string `form:"search"`
	Status string `form:"status"`
}

// SuggestTasksRequest is the body of POST /tasks/suggest
type SuggestTasksRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// SuggestTasksResponse lists suggested task titles
type SuggestTasksResponse struct {
	Suggestions []string `json:"suggestions"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Owner     string    `json:"owner"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		Owner:     task.OwnerID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskDTOs converts tasks, always returning a non-nil slice so the
// response is a JSON array.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
