package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/task-list-api/internal/errors"
)

// ContextKeyUserID is the gin context key holding the authenticated user ID.
const ContextKeyUserID = "user_id"

// TokenVerifier resolves a bearer token to a user ID.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// RequireAuth checks the Authorization: Bearer header and rejects the
// request before it reaches the handler when the token is absent or invalid.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "No token, authorization denied")
			return
		}

		userID, err := verifier.VerifyToken(token)
		if err != nil {
			apierrors.Unauthorized(c, "Token is not valid")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextKeyUserID)
	return userID, userID != ""
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
