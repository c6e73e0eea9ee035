package models

// Notification represents a queued workflow notification row.
type Notification struct {
	NotificationID string `db:"notification_id"`
	RecipientID    string `db:"recipient_id"`
	Type           string `db:"type"`
	Title          string `db:"title"`
	Message        string `db:"message"`
	RelatedID      string `db:"related_id"`
	IsRead         bool   `db:"is_read"`
	AuditFields
}
