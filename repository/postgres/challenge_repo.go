package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
)

type challengeRepository struct {
	pool *pgxpool.Pool
}

// NewChallengeRepository returns a Postgres-backed implementation of ChallengeRepository.
func NewChallengeRepository(pool *pgxpool.Pool) repository.ChallengeRepository {
	return &challengeRepository{pool: pool}
}

func (r *challengeRepository) GetOrCreate(ctx context.Context, candidate *domain.WeeklyChallenge) (*domain.WeeklyChallenge, error) {
	if candidate == nil {
		return nil, domain.ErrInvalidPayload
	}
	if candidate.ID == "" {
		candidate.ID = uuid.NewString()
	}

	// The unique index on week_start makes concurrent first accesses in the
	// same week converge on a single row: the losing insert matches nothing
	// and the follow-up select returns the winner's row.
	const insert = `
	INSERT INTO weekly_challenges (id, week_start, deadline, task_count, priority)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (week_start) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, insert,
		candidate.ID,
		candidate.WeekStart,
		candidate.Deadline,
		candidate.TaskCount,
		candidate.Priority,
	); err != nil {
		return nil, err
	}

	const query = `
	SELECT id, week_start, deadline, task_count, priority, created_at
	FROM weekly_challenges
	WHERE week_start = $1
	`
	var ch domain.WeeklyChallenge
	if err := r.pool.QueryRow(ctx, query, candidate.WeekStart).Scan(
		&ch.ID,
		&ch.WeekStart,
		&ch.Deadline,
		&ch.TaskCount,
		&ch.Priority,
		&ch.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return &ch, nil
}

func (r *challengeRepository) Join(ctx context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, bool, error) {
	const insert = `
	INSERT INTO challenge_participations (id, challenge_id, account_id)
	VALUES ($1, $2, $3)
	ON CONFLICT (challenge_id, account_id) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, insert, uuid.NewString(), challengeID, accountID)
	if err != nil {
		return nil, false, err
	}

	participation, err := r.GetParticipation(ctx, challengeID, accountID)
	if err != nil {
		return nil, false, err
	}
	return participation, tag.RowsAffected() > 0, nil
}

func (r *challengeRepository) GetParticipation(ctx context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, error) {
	const query = `
	SELECT id, challenge_id, account_id, reward_claimed, joined_at
	FROM challenge_participations
	WHERE challenge_id = $1 AND account_id = $2
	`
	var p domain.ChallengeParticipation
	if err := r.pool.QueryRow(ctx, query, challengeID, accountID).Scan(
		&p.ID,
		&p.ChallengeID,
		&p.AccountID,
		&p.RewardClaimed,
		&p.JoinedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *challengeRepository) Participants(ctx context.Context, challengeID string) ([]repository.Participant, error) {
	const query = `
	SELECT p.account_id, a.username
	FROM challenge_participations p
	JOIN accounts a ON a.id = p.account_id
	WHERE p.challenge_id = $1
	ORDER BY p.joined_at
	`
	rows, err := r.pool.Query(ctx, query, challengeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []repository.Participant
	for rows.Next() {
		var p repository.Participant
		if err := rows.Scan(&p.AccountID, &p.Username); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *challengeRepository) ClaimReward(ctx context.Context, challengeID, accountID string) (bool, error) {
	// Conditional update keeps the grant single-shot even when two progress
	// checks race on the same participation.
	const query = `
	UPDATE challenge_participations
	SET reward_claimed = TRUE
	WHERE challenge_id = $1 AND account_id = $2 AND reward_claimed = FALSE
	`
	tag, err := r.pool.Exec(ctx, query, challengeID, accountID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
