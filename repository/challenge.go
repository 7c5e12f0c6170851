package repository

import (
	"context"

	"github.com/motivatchi/backend/domain"
)

// Participant pairs a joined account's id with its username so team
// computation can intersect participations with the follow graph.
type Participant struct {
	AccountID string
	Username  string
}

type ChallengeRepository interface {
	// GetOrCreate returns the challenge for candidate.WeekStart, inserting
	// candidate if none exists yet. The insert is atomic: two concurrent
	// first accesses in the same week observe the same row.
	GetOrCreate(ctx context.Context, candidate *domain.WeeklyChallenge) (*domain.WeeklyChallenge, error)

	// Join records participation idempotently, reporting whether a new row
	// was created.
	Join(ctx context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, bool, error)

	GetParticipation(ctx context.Context, challengeID, accountID string) (*domain.ChallengeParticipation, error)

	// Participants returns the accounts joined to the challenge.
	Participants(ctx context.Context, challengeID string) ([]Participant, error)

	// ClaimReward flips reward_claimed from false to true, reporting whether
	// this call performed the flip. The conditional update is what keeps the
	// 20-coin grant single-shot per participant.
	ClaimReward(ctx context.Context, challengeID, accountID string) (bool, error)
}
