package challenge

import (
	"context"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
	"github.com/motivatchi/backend/usecase"
	"github.com/motivatchi/backend/usecase/team"
)

// Progress is the team's standing against the current weekly challenge.
// RewardEarned is non-zero only on the call where the requesting user's own
// reward claim flips.
type Progress struct {
	Joined            bool   `json:"joined"`
	CompletedCount    int    `json:"completed_count"`
	TaskCount         int    `json:"task_count"`
	Priority          string `json:"priority"`
	ChallengeComplete bool   `json:"challenge_complete"`
	RewardEarned      int    `json:"reward_earned"`
}

// UseCase runs the weekly challenge: lazy creation, participation, and
// team progress with one-shot reward distribution.
type UseCase struct {
	challenges repository.ChallengeRepository
	tasks      repository.TaskRepository
	accounts   repository.AccountRepository
	teams      *team.Resolver
	notifier   usecase.Notifier
	logger     *zap.Logger
	now        func() time.Time
	randInt    func(n int) int
}

func New(
	challenges repository.ChallengeRepository,
	tasks repository.TaskRepository,
	accounts repository.AccountRepository,
	teams *team.Resolver,
	notifier usecase.Notifier,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		challenges: challenges,
		tasks:      tasks,
		accounts:   accounts,
		teams:      teams,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		randInt:    rand.IntN,
	}
}

// WithClock overrides the time source, for tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// WithRand overrides the randomness source, for tests.
func (uc *UseCase) WithRand(randInt func(n int) int) *UseCase {
	uc.randInt = randInt
	return uc
}

// Current returns this week's challenge, creating it on first access. The
// storage layer guarantees concurrent first accesses converge on one row.
func (uc *UseCase) Current(ctx context.Context) (*domain.WeeklyChallenge, error) {
	start, deadline := domain.WeekWindow(uc.now())

	span := domain.ChallengeTaskCountMax - domain.ChallengeTaskCountMin + 1
	candidate := &domain.WeeklyChallenge{
		WeekStart: start,
		Deadline:  deadline,
		TaskCount: domain.ChallengeTaskCountMin + uc.randInt(span),
		Priority:  domain.ChallengePriorities[uc.randInt(len(domain.ChallengePriorities))],
	}

	ch, err := uc.challenges.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if ch.ID == candidate.ID {
		uc.logger.Info("weekly challenge created",
			zap.Time("week_start", ch.WeekStart),
			zap.Int("task_count", ch.TaskCount),
			zap.String("priority", ch.Priority))
	}
	return ch, nil
}

// Join enrolls the user in this week's challenge. Joining twice is a no-op.
func (uc *UseCase) Join(ctx context.Context, accountID string) (*domain.ChallengeParticipation, bool, error) {
	ch, err := uc.Current(ctx)
	if err != nil {
		return nil, false, err
	}
	return uc.challenges.Join(ctx, ch.ID, accountID)
}

// Joined reports whether the user participates in this week's challenge.
func (uc *UseCase) Joined(ctx context.Context, accountID string) (bool, error) {
	ch, err := uc.Current(ctx)
	if err != nil {
		return false, err
	}
	if _, err := uc.challenges.GetParticipation(ctx, ch.ID, accountID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// TeamMembers returns the user's teammates in the current challenge: the
// mutual-follow closure intersected with participants, self excluded. A user
// who has not joined has no teammates.
func (uc *UseCase) TeamMembers(ctx context.Context, accountID, username string) ([]string, error) {
	ch, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := uc.challenges.GetParticipation(ctx, ch.ID, accountID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return []string{}, nil
		}
		return nil, err
	}

	members, err := uc.teamParticipants(ctx, ch, username)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		if m.Username != username {
			names = append(names, m.Username)
		}
	}
	return names, nil
}

// TeamProgress aggregates the team's matching completed tasks against the
// target and distributes the one-time reward when the target is first met.
func (uc *UseCase) TeamProgress(ctx context.Context, accountID, username string) (*Progress, error) {
	ch, err := uc.Current(ctx)
	if err != nil {
		return nil, err
	}

	progress := &Progress{
		TaskCount: ch.TaskCount,
		Priority:  ch.Priority,
	}

	if _, err := uc.challenges.GetParticipation(ctx, ch.ID, accountID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return progress, nil
		}
		return nil, err
	}
	progress.Joined = true

	members, err := uc.teamParticipants(ctx, ch, username)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.AccountID)
	}

	completed, err := uc.tasks.CountCompleted(ctx, ids, ch.Priority, ch.WeekStart, ch.Deadline)
	if err != nil {
		return nil, err
	}
	progress.CompletedCount = completed
	progress.ChallengeComplete = completed >= ch.TaskCount

	if progress.ChallengeComplete {
		earned, err := uc.distributeRewards(ctx, ch, members, accountID)
		if err != nil {
			return nil, err
		}
		progress.RewardEarned = earned
	}
	return progress, nil
}

// teamParticipants intersects the mutual-follow closure with the challenge's
// participants, keeping the querying user.
func (uc *UseCase) teamParticipants(ctx context.Context, ch *domain.WeeklyChallenge, username string) ([]repository.Participant, error) {
	closure, err := uc.teams.Resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	inTeam := make(map[string]bool, len(closure))
	for _, name := range closure {
		inTeam[name] = true
	}

	participants, err := uc.challenges.Participants(ctx, ch.ID)
	if err != nil {
		return nil, err
	}

	var members []repository.Participant
	for _, p := range participants {
		if inTeam[p.Username] {
			members = append(members, p)
		}
	}
	return members, nil
}

// distributeRewards grants each unrewarded team participant the challenge
// payout exactly once, returning what the requesting user earned on this call.
func (uc *UseCase) distributeRewards(ctx context.Context, ch *domain.WeeklyChallenge, members []repository.Participant, accountID string) (int, error) {
	earned := 0
	for _, m := range members {
		claimed, err := uc.challenges.ClaimReward(ctx, ch.ID, m.AccountID)
		if err != nil {
			return earned, err
		}
		if !claimed {
			continue
		}

		if _, err := uc.accounts.AdjustCoins(ctx, m.AccountID, domain.ChallengeReward); err != nil {
			return earned, err
		}
		if m.AccountID == accountID {
			earned = domain.ChallengeReward
		}

		uc.logger.Info("challenge reward distributed",
			zap.String("challenge_id", ch.ID),
			zap.String("account_id", m.AccountID),
			zap.Int("coins", domain.ChallengeReward))

		if uc.notifier != nil {
			if err := uc.notifier.Notify(ctx, m.AccountID, "Your team completed the weekly challenge! You earned 20 coins."); err != nil {
				uc.logger.Error("failed to deliver challenge notification",
					zap.String("account_id", m.AccountID), zap.Error(err))
			}
		}
	}
	return earned, nil
}
