package domain

import "time"

// User represents a user of the application in the domain.
type User struct {
	UserID   string `json:"userID"` // Primary Key (UUID)
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // bcrypt hash, never serialized
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
