package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository returns a Postgres-backed implementation of EventRepository.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Current(ctx context.Context, now time.Time) (*domain.Event, error) {
	const query = `
	SELECT id, name, starts_at, ends_at, reward_coins, is_active, created_at
	FROM events
	WHERE starts_at <= $1
	ORDER BY ends_at DESC
	LIMIT 1
	`
	return scanEvent(r.pool.QueryRow(ctx, query, now))
}

func (r *eventRepository) Due(ctx context.Context, now time.Time) ([]domain.Event, error) {
	const query = `
	SELECT id, name, starts_at, ends_at, reward_coins, is_active, created_at
	FROM events
	WHERE is_active = TRUE AND ends_at <= $1
	`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}

func (r *eventRepository) Close(ctx context.Context, id string, result repository.EventResult) (bool, error) {
	// The is_active guard is the compare-and-swap: exactly one caller sees
	// RowsAffected() == 1 and goes on to distribute the reward.
	const query = `
	UPDATE events
	SET is_active = FALSE,
		winner_id = $2,
		winner_count = $3
	WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.pool.Exec(ctx, query, id, result.WinnerID, result.WinnerCount)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *eventRepository) Result(ctx context.Context, id string) (*repository.EventResult, error) {
	const query = `
	SELECT winner_id, winner_count
	FROM events
	WHERE id = $1
	`
	var result repository.EventResult
	if err := r.pool.QueryRow(ctx, query, id).Scan(&result.WinnerID, &result.WinnerCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &result, nil
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	if event == nil || event.Name == "" {
		return nil, domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO events (id, name, starts_at, ends_at, reward_coins, is_active)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		event.ID,
		event.Name,
		event.StartsAt,
		event.EndsAt,
		event.RewardCoins,
		event.IsActive,
	).Scan(&event.CreatedAt); err != nil {
		return nil, err
	}
	return event, nil
}

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.Name,
		&event.StartsAt,
		&event.EndsAt,
		&event.RewardCoins,
		&event.IsActive,
		&event.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
