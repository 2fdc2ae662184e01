package dto

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/yukikurage/task-list-api/internal/models"
)

// CredentialsRequest is the body of POST /auth/register and /auth/login
type CredentialsRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,max=72"`
}

// UnmarshalJSON trims the email before binding validates it.
func (r *CredentialsRequest) UnmarshalJSON(data []byte) error {
	type plain CredentialsRequest
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = CredentialsRequest(v)
	r.Email = strings.TrimSpace(r.Email)
	return nil
}

// TokenResponse carries the bearer token issued at login
type TokenResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// UserDTO represents a user in API responses. The password hash is never
// included.
type UserDTO struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
