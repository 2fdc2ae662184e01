// Package server assembles the HTTP routes of the task list API.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-list-api/internal/handlers"
	"github.com/yukikurage/task-list-api/internal/middleware"
	"github.com/yukikurage/task-list-api/internal/services"
)

// Deps are the collaborators the router is built from.
type Deps struct {
	AuthService *services.AuthService
	TaskService *services.TaskService
	// Suggester is optional; without it /api/tasks/suggest answers 503.
	Suggester    services.TaskSuggester
	Logger       *slog.Logger
	IsProduction bool
}

// NewRouter returns a gin engine with every route mounted.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecureHeaders(deps.IsProduction, deps.Logger))

	authHandler := handlers.NewAuthHandler(deps.AuthService, deps.Logger)
	taskHandler := handlers.NewTaskHandler(deps.TaskService, deps.Suggester, deps.Logger)
	requireAuth := middleware.RequireAuth(deps.AuthService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task List API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		user := api.Group("/user")
		user.Use(requireAuth)
		{
			user.GET("/profile", authHandler.Profile)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	return r
}
