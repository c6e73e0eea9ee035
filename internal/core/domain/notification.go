package domain

// NotificationType classifies workflow notifications.
type NotificationType string

const (
	NotifyApprovalRequested NotificationType = "APPROVAL_REQUESTED"
	NotifyExpenseApproved   NotificationType = "EXPENSE_APPROVED"
	NotifyExpenseRejected   NotificationType = "EXPENSE_REJECTED"
	NotifyBudgetProcessed   NotificationType = "BUDGET_PROCESSED"
)

// Notification is a best-effort message enqueued for a user. Delivery is an
// external concern; enqueue failures never roll back the business mutation
// that produced them.
type Notification struct {
	NotificationID string           `json:"notificationID"` // Primary Key (UUID)
	RecipientID    string           `json:"recipientID"`    // FK -> users.user_id
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	RelatedID      string           `json:"relatedID"` // Entity the notification refers to
	IsRead         bool             `json:"isRead"`
	AuditFields
}
