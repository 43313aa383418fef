package dto

import (
	"time"

	"github.com/spec-kit/vectorvault/internal/domain"
)

// RegisterRequest payload for new users.
type RegisterRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginRequest payload for the token endpoint. Accepts both JSON bodies and
// OAuth2-style form encoding.
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// PasswordChangeRequest payload for authenticated password changes.
type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserResponse is the external representation of a user. The password hash is
// deliberately absent.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

// NewUserResponse maps a domain user to its external representation.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		IsActive: user.IsActive,
	}
}
