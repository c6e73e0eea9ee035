package models

import "time"

// Church represents a church tenant row.
type Church struct {
	ChurchID    string `db:"church_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	IsActive    bool   `db:"is_active"`
	AuditFields
}

// UserChurch represents a user's membership role within a church.
type UserChurch struct {
	UserID   string    `db:"user_id"`
	ChurchID string    `db:"church_id"`
	Role     string    `db:"role"`
	JoinedAt time.Time `db:"joined_at"`
}

// Department represents a church organizational unit row. Read-only here.
type Department struct {
	DepartmentID string  `db:"department_id"`
	ChurchID     string  `db:"church_id"`
	Name         string  `db:"name"`
	ParentID     *string `db:"parent_id"` // Nullable
	IsActive     bool    `db:"is_active"`
	AuditFields
}
