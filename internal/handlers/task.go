package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-list-api/internal/dto"
	apierrors "github.com/yukikurage/task-list-api/internal/errors"
	"github.com/yukikurage/task-list-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	suggester   services.TaskSuggester
	log         *slog.Logger
}

// NewTaskHandler creates a TaskHandler. suggester may be nil, in which case
// SuggestTasks answers 503.
func NewTaskHandler(taskService *services.TaskService, suggester services.TaskSuggester, log *slog.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		suggester:   suggester,
		log:         log,
	}
}

// ListTasks returns the current user's tasks, newest first.
// Optional filters: search (title substring) and status (completed|pending).
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var query dto.ListTasksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), userID, services.ListTasksInput{
		Search: query.Search,
		Status: services.ParseStatusFilter(query.Status),
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// CreateTask creates a new pending task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), userID, services.CreateTaskInput{Title: req.Title})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), userID, c.Param("id"), services.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task removed"})
}

// SuggestTasks uses AI to propose task titles from free text. Nothing is
// stored; the client creates the ones it keeps.
func (h *TaskHandler) SuggestTasks(c *gin.Context) {
	if _, ok := currentUser(c); !ok {
		return
	}

	if h.suggester == nil {
		respondServiceError(c, h.log, services.ErrAIServiceNotConfigured)
		return
	}

	var req dto.SuggestTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	suggestions, err := h.suggester.SuggestTasks(c.Request.Context(), req.Text)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuggestTasksResponse{Suggestions: suggestions})
}
