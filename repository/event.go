package repository

import (
	"context"
	"time"

	"github.com/motivatchi/backend/domain"
)

// EventResult captures the terminal outcome of an event. Winner fields are
// nil when the window closed without any completed task.
type EventResult struct {
	WinnerID    *string
	WinnerCount int
}

type EventRepository interface {
	// Current returns the latest event that has started by now, active or
	// not, or domain.ErrEventNotFound.
	Current(ctx context.Context, now time.Time) (*domain.Event, error)

	// Due lists active events whose end time has passed.
	Due(ctx context.Context, now time.Time) ([]domain.Event, error)

	// Close deactivates the event and records its result, guarded by
	// is_active so only one caller performs the transition.
	Close(ctx context.Context, id string, result EventResult) (bool, error)

	// Result returns the stored outcome of a closed event.
	Result(ctx context.Context, id string) (*EventResult, error)

	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
}
