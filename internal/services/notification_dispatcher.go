package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/internal/infrastructure/outbox"
	"github.com/motivatchi/backend/repository"
	"github.com/motivatchi/backend/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// DispatcherConfig controls how frequently the outbox is drained.
type DispatcherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// NotificationDispatcher delivers notifications to Postgres, falling back to
// the durable outbox when the write fails, and drains the outbox on a
// schedule once storage is healthy again.
type NotificationDispatcher struct {
	store         *outbox.Store
	monitor       ConnectionHealth
	notifications repository.NotificationRepository
	logger        *zap.Logger
	cron          *cron.Cron
	cfg           DispatcherConfig
}

func NewNotificationDispatcher(
	store *outbox.Store,
	monitor ConnectionHealth,
	notifications repository.NotificationRepository,
	logger *zap.Logger,
	cfg DispatcherConfig,
) *NotificationDispatcher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	d := &NotificationDispatcher{
		store:         store,
		monitor:       monitor,
		notifications: notifications,
		logger:        logger,
		cfg:           cfg,
		cron:          cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = d.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := d.Drain(ctx); err != nil {
			d.logger.Error("notification outbox drain failed", zap.Error(err))
		}
	})

	return d
}

// Notify writes the notification, buffering it durably when the write fails.
func (d *NotificationDispatcher) Notify(ctx context.Context, accountID, message string) error {
	if accountID == "" || message == "" {
		return domain.ErrInvalidPayload
	}

	_, err := d.notifications.Create(ctx, &domain.Notification{
		AccountID: accountID,
		Message:   message,
	})
	if err == nil {
		return nil
	}
	if d.store == nil {
		return err
	}

	d.logger.Warn("notification buffered after storage failure", zap.Error(err))
	return d.store.Enqueue(outbox.Item{
		AccountID: accountID,
		Message:   message,
	})
}

// Start launches the cron scheduler.
func (d *NotificationDispatcher) Start() {
	if d == nil || d.cron == nil {
		return
	}
	d.cron.Start()
	d.logger.Info("notification dispatcher started")
}

// Stop gracefully stops the scheduler.
func (d *NotificationDispatcher) Stop(ctx context.Context) {
	if d == nil || d.cron == nil {
		return
	}
	stopCtx := d.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	d.logger.Info("notification dispatcher stopped")
}

// Drain flushes buffered notifications to Postgres.
func (d *NotificationDispatcher) Drain(ctx context.Context) error {
	if d == nil || d.store == nil {
		return nil
	}
	if d.monitor != nil && !d.monitor.IsOnline() {
		d.logger.Debug("skipping outbox drain (offline)")
		return nil
	}

	items, err := d.store.GetBatch(d.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		_, err := d.notifications.Create(ctx, &domain.Notification{
			AccountID: item.AccountID,
			Message:   item.Message,
			CreatedAt: item.Timestamp,
		})
		if err == nil {
			if err := d.store.Remove(item); err != nil {
				d.logger.Warn("failed to remove outbox item", zap.Error(err))
			}
			continue
		}

		d.logger.Error("failed to deliver buffered notification",
			zap.String("item_id", item.ID),
			zap.Error(err))

		item.Retries++
		if item.Retries >= d.cfg.MaxRetries {
			d.logger.Warn("dropping outbox item (max retries reached)", zap.String("item_id", item.ID))
			_ = d.store.Remove(item)
			continue
		}
		if err := d.store.Remove(item); err != nil {
			d.logger.Warn("failed to remove outbox item", zap.Error(err))
		}
		if err := d.store.Requeue(item); err != nil {
			d.logger.Warn("failed to requeue outbox item", zap.Error(err))
		}
	}
	return nil
}

var _ usecase.Notifier = (*NotificationDispatcher)(nil)
