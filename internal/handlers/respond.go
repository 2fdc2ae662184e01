package handlers

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-list-api/internal/errors"
	"github.com/yukikurage/task-list-api/internal/middleware"
	"github.com/yukikurage/task-list-api/internal/services"
)

// respondServiceError maps service sentinel errors onto API errors. Anything
// unrecognized is logged and reported as a bare 500.
func respondServiceError(c *gin.Context, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeAlreadyExists, "User already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.BadRequestWithCode(c, apierrors.ErrCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrPasswordTooLong),
		errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrSuggestionTextRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, "Token is not valid")
	case errors.Is(err, services.ErrNotTaskOwner):
		apierrors.Unauthorized(c, "User not authorized")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, "User not found")
	case errors.Is(err, services.ErrAIServiceNotConfigured):
		apierrors.ServiceUnavailable(c, "Task suggestions are not available")
	default:
		userID, _ := middleware.GetUserID(c)
		log.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
		apierrors.InternalError(c, "Server error")
	}
}

// currentUser returns the authenticated user ID, rejecting the request when
// the route was mounted without RequireAuth.
func currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return userID, ok
}
