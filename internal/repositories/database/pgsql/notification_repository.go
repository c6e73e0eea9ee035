package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parishware/church_finance_app/internal/core/domain"
	portsrepo "github.com/parishware/church_finance_app/internal/core/ports/repositories"
	"github.com/parishware/church_finance_app/internal/utils/mapping"
)

type PgxNotificationRepository struct {
	pool *pgxpool.Pool
}

func newPgxNotificationRepository(pool *pgxpool.Pool) portsrepo.NotificationWriter {
	return &PgxNotificationRepository{pool: pool}
}

var _ portsrepo.NotificationWriter = (*PgxNotificationRepository)(nil)

// SaveNotification inserts a queued notification row.
func (r *PgxNotificationRepository) SaveNotification(ctx context.Context, notification domain.Notification) error {
	m := mapping.ToModelNotification(notification)

	query := `
		INSERT INTO notifications (notification_id, recipient_id, type, title, message, related_id, is_read, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.pool.Exec(ctx, query,
		m.NotificationID, m.RecipientID, m.Type, m.Title, m.Message, m.RelatedID, m.IsRead,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save notification %s: %w", m.NotificationID, err)
	}
	return nil
}
