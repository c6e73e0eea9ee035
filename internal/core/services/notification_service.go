package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	portssvc "github.com/parishware/church_finance_app/internal/core/ports/services"
	"github.com/parishware/church_finance_app/internal/middleware"
)

// notificationService queues workflow notifications. Enqueue is best-effort:
// it runs after the originating business transaction has committed, and a
// failed insert is logged, never propagated.
type notificationService struct {
	notificationRepo portsrepo.NotificationWriter
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo portsrepo.NotificationWriter) portssvc.NotificationEnqueuer {
	return &notificationService{notificationRepo: notificationRepo}
}

var _ portssvc.NotificationEnqueuer = (*notificationService)(nil)

func (s *notificationService) Enqueue(ctx context.Context, recipientID string, notifType domain.NotificationType, title, message, relatedID string) {
	now := time.Now().UTC()
	notification := domain.Notification{
		NotificationID: uuid.NewString(),
		RecipientID:    recipientID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		RelatedID:      relatedID,
		IsRead:         false,
		AuditFields:    domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}

	if err := s.notificationRepo.SaveNotification(ctx, notification); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to enqueue notification",
			slog.String("recipient_id", recipientID),
			slog.String("type", string(notifType)),
			slog.String("error", err.Error()),
		)
	}
}
