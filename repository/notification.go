package repository

import (
	"context"

	"github.com/motivatchi/backend/domain"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, accountID string) error
}
