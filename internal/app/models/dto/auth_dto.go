package dto

import (
	"time"

	"github.com/yigit/courseapi/internal/app/models"
)

// RegisterRequest represents user registration data
type RegisterRequest struct {
	Username string `json:"username" binding:"required,notblank,max=20" example:"alice"`
	Email    string `json:"email" binding:"required,email,max=120" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"s3cretpass"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank" example:"alice"`
	Password string `json:"password" binding:"required,max=72" example:"s3cretpass"`
}

// RegisterResponse represents a freshly registered user
type RegisterResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

// LoginResponse represents JWT token information
type LoginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType" example:"Bearer"`
	ExpiresAt time.Time `json:"expiresAt" example:"2025-01-02T15:04:05Z"`
}

// NewRegisterResponse converts a user into its public registration view
func NewRegisterResponse(user *models.User) RegisterResponse {
	return RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
