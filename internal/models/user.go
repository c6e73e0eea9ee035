package models

import "time"

// User represents a user row.
type User struct {
	UserID   string `db:"user_id"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Password string `db:"password_hash"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"` // Nullable, soft delete
}
