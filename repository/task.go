package repository

import (
	"context"
	"time"

	"github.com/motivatchi/backend/domain"
)

// TaskFilter narrows task listings. Zero values mean "no constraint".
type TaskFilter struct {
	AccountID       string
	Status          string
	Statuses        []string
	CompletedAfter  *time.Time
	CompletedBefore *time.Time
	DeadlineAfter   *time.Time
	DeadlineBefore  *time.Time
	Limit           int
	Offset          int
}

// CompletionCount is one account's completed-task tally within a window.
type CompletionCount struct {
	AccountID string
	Username  string
	Count     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error

	// CountCompleted sums completed tasks across the given accounts whose
	// priority matches (case-insensitively) and whose completion timestamp
	// falls within [from, to].
	CountCompleted(ctx context.Context, accountIDs []string, priority string, from, to time.Time) (int, error)

	// CompletionCounts tallies completed tasks per account within [from, to],
	// ordered by count descending then account id ascending.
	CompletionCounts(ctx context.Context, from, to time.Time) ([]CompletionCount, error)
}
