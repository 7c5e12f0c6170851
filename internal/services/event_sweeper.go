package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	eventUC "github.com/motivatchi/backend/usecase/event"
)

// EventSweeper periodically closes events whose window has elapsed. The
// leaderboard endpoint performs the same idempotent transition lazily; the
// sweeper only guarantees it also happens without traffic.
type EventSweeper struct {
	events *eventUC.UseCase
	logger *zap.Logger
	cron   *cron.Cron
}

func NewEventSweeper(events *eventUC.UseCase, interval time.Duration, logger *zap.Logger) *EventSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &EventSweeper{
		events: events,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()
		if err := s.events.CloseDue(ctx); err != nil {
			s.logger.Error("event sweep failed", zap.Error(err))
		}
	})

	return s
}

// Start launches the cron scheduler.
func (s *EventSweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("event sweeper started")
}

// Stop gracefully stops the scheduler.
func (s *EventSweeper) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("event sweeper stopped")
}
