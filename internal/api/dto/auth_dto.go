package dto

import (
	"time"

	"github.com/cfc-helpdesk/helpdesk-service/internal/domain"
)

// RegisterRequest payload.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"max=128"`
	Password string `json:"password" validate:"required,min=8"`
	Company  string `json:"company" validate:"max=128"`
}

// LoginRequest payload. Login accepts username or email.
type LoginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the signed token and user summary.
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public account shape.
type UserResponse struct {
	ID         int64           `json:"id"`
	Username   string          `json:"username"`
	Email      string          `json:"email"`
	FullName   string          `json:"full_name"`
	Role       domain.UserRole `json:"role"`
	Department string          `json:"department,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Active     bool            `json:"active"`
}

// NewUserResponse converts a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Role:       user.Role,
		Department: user.Department,
		Phone:      user.Phone,
		Active:     user.Active,
	}
}
