package dto

import (
	"time"

	"github.com/eduplatform/teacher-store/internal/domain"
)

// TeacherStatusRequest toggles a teacher by path id.
type TeacherStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// AdminTeacherStatusRequest toggles a teacher with the id in the body.
type AdminTeacherStatusRequest struct {
	UserID   string `json:"userId" validate:"required"`
	IsActive *bool  `json:"isActive" validate:"required"`
}

// TeacherResponse is a teacher row in the back office.
type TeacherResponse struct {
	UserResponse
	OrderCount int `json:"orderCount"`
}

// TeacherStatusResponse is the slim result of an activation toggle.
type TeacherStatusResponse struct {
	ID       string `json:"id"`
	IsActive bool   `json:"isActive"`
}

// AdminLogResponse is one audit entry.
type AdminLogResponse struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"adminId"`
	Action     string    `json:"action"`
	TargetID   string    `json:"targetId"`
	TargetType string    `json:"targetType"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewTeacherResponses maps teacher summaries.
func NewTeacherResponses(teachers []domain.TeacherSummary) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(teachers))
	for i := range teachers {
		out = append(out, TeacherResponse{
			UserResponse: NewUserResponse(&teachers[i].User),
			OrderCount:   teachers[i].OrderCount,
		})
	}
	return out
}

// NewAdminLogResponses maps audit entries.
func NewAdminLogResponses(logs []domain.AdminLog) []AdminLogResponse {
	out := make([]AdminLogResponse, 0, len(logs))
	for _, entry := range logs {
		out = append(out, AdminLogResponse{
			ID:         entry.ID,
			AdminID:    entry.AdminID,
			Action:     string(entry.Action),
			TargetID:   entry.TargetID,
			TargetType: string(entry.TargetType),
			Details:    entry.Details,
			CreatedAt:  entry.CreatedAt,
		})
	}
	return out
}
