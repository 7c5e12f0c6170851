package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation of NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil || notification.AccountID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}

	// Buffered notifications arrive with the time they were raised; keep it
	// so a drain does not re-date them.
	const query = `
	INSERT INTO notifications (id, account_id, message, is_read, created_at)
	VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
	RETURNING created_at
	`
	var createdAt any
	if !notification.CreatedAt.IsZero() {
		createdAt = notification.CreatedAt
	}
	if err := r.pool.QueryRow(ctx, query,
		notification.ID,
		notification.AccountID,
		notification.Message,
		notification.IsRead,
		createdAt,
	).Scan(&notification.CreatedAt); err != nil {
		return nil, err
	}
	return notification, nil
}

func (r *notificationRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error) {
	const query = `
	SELECT id, account_id, message, is_read, created_at
	FROM notifications
	WHERE account_id = $1
	ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.AccountID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, accountID string) error {
	const query = `
	UPDATE notifications
	SET is_read = TRUE
	WHERE id = $1 AND account_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, accountID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}
