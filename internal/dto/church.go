package dto

import (
	"time"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// CreateChurchRequest defines the data needed to create a church tenant.
type CreateChurchRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// ChurchResponse defines the data returned for a church.
type ChurchResponse struct {
	ChurchID    string    `json:"churchID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToChurchResponse converts a domain.Church.
func ToChurchResponse(c *domain.Church) ChurchResponse {
	return ChurchResponse{
		ChurchID:    c.ChurchID,
		Name:        c.Name,
		Description: c.Description,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
	}
}

// AddChurchMemberRequest adds a user to a church with a role.
type AddChurchMemberRequest struct {
	UserID string            `json:"userID" binding:"required"`
	Role   domain.ChurchRole `json:"role" binding:"required,oneof=ADMIN FINANCE_MANAGER COMMITTEE_CHAIR DEPARTMENT_HEAD DEPARTMENT_ACCOUNTANT MEMBER"`
}
