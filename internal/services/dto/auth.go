package dto

import "artbook_backend/internal/models"

type RegisterRequest struct {
	Email    string          `json:"email" binding:"required" validate:"required,email"`
	Password string          `json:"password" binding:"required" validate:"required,min=8"`
	Name     string          `json:"name" validate:"max=100"`
	Role     models.UserRole `json:"role" binding:"required" validate:"required,oneof=client artist"`

	// Artist-only profile fields
	DisplayName string   `json:"display_name,omitempty" validate:"max=100"`
	City        string   `json:"city,omitempty" validate:"max=100"`
	Categories  []string `json:"categories,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}
