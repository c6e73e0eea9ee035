package repositories

import (
	"context"

	"github.com/parishware/church_finance_app/internal/core/domain"
)

// NotificationWriter persists queued notifications. Delivery is external.
type NotificationWriter interface {
	SaveNotification(ctx context.Context, notification domain.Notification) error
}
