package dto

import (
	"time"

	"github.com/spec-kit/msp-dashboard/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse representation.
type UserResponse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// AuthResponse carries the issued session token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LoginResponse body.
type LoginResponse struct {
	User UserResponse `json:"user"`
	Auth AuthResponse `json:"auth"`
}
