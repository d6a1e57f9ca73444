package dto

import (
	"time"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// RegisterRequest is the teacher self-registration payload.
type RegisterRequest struct {
	Name              string `json:"name" validate:"required,max=120"`
	Email             string `json:"email" validate:"required,email"`
	Password          string `json:"password" validate:"required,min=8"`
	EducationLevel    string `json:"educationLevel" validate:"required,oneof=PRIMARY SECONDARY HIGH_SCHOOL"`
	Subject           string `json:"subject" validate:"required"`
	Phone             string `json:"phone" validate:"required"`
	City              string `json:"city" validate:"required"`
	Institution       string `json:"institution" validate:"required"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,oneof=ar fr en"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the profile fields to change; absent fields are kept.
type UpdateProfileRequest struct {
	Name              *string `json:"name" validate:"omitempty,min=1,max=120"`
	EducationLevel    *string `json:"educationLevel" validate:"omitempty,oneof=PRIMARY SECONDARY HIGH_SCHOOL"`
	Subject           *string `json:"subject"`
	Phone             *string `json:"phone"`
	City              *string `json:"city"`
	Institution       *string `json:"institution"`
	PreferredLanguage *string `json:"preferredLanguage" validate:"omitempty,oneof=ar fr en"`
}

// ChangePasswordRequest payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

// UserResponse is the public view of an account; the password hash never leaves the service.
type UserResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	EducationLevel    string    `json:"educationLevel"`
	Subject           string    `json:"subject"`
	Phone             string    `json:"phone"`
	City              string    `json:"city"`
	Institution       string    `json:"institution"`
	PreferredLanguage string    `json:"preferredLanguage"`
	IsActive          bool      `json:"isActive"`
	CreatedAt         time.Time `json:"createdAt"`
}

// AuthResponse is returned by login.
type AuthResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:                u.ID,
		Name:              u.Name,
		Email:             u.Email,
		Role:              string(u.Role),
		EducationLevel:    string(u.EducationLevel),
		Subject:           u.Subject,
		Phone:             u.Phone,
		City:              u.City,
		Institution:       u.Institution,
		PreferredLanguage: string(u.PreferredLanguage),
		IsActive:          u.IsActive,
		CreatedAt:         u.CreatedAt,
	}
}
