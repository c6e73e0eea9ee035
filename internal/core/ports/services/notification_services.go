package services

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// NotificationEnqueuer is the external notification collaborator. Enqueue is
// best-effort: it is called after the originating business transaction has
// committed, and a failure is logged, never propagated.
type NotificationEnqueuer interface {
	Enqueue(ctx context.Context, recipientID string, notifType domain.NotificationType, title, message, relatedID string)
}
