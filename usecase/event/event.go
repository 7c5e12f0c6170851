package event

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
	"github.com/motivatchi/backend/usecase"
)

const topSize = 3

// Standing is the leaderboard view of the current event. While the event
// runs, Top holds the leading entries and UserRank/UserCount describe the
// requesting user (rank nil without any completed task). Once the event ends,
// Ended flips and Winner carries the stored outcome.
type Standing struct {
	Ended       bool                      `json:"ended"`
	Name        string                    `json:"name"`
	EndsAt      time.Time                 `json:"ends_at"`
	RewardCoins int                       `json:"reward_coins"`
	Top         []domain.LeaderboardEntry `json:"top,omitempty"`
	UserRank    *int                      `json:"user_rank,omitempty"`
	UserCount   int                       `json:"user_count"`
	Winner      *domain.LeaderboardEntry  `json:"winner,omitempty"`
}

// UseCase runs timed competitive events: live ranking, lazy closing and the
// single-shot winner payout.
type UseCase struct {
	events   repository.EventRepository
	tasks    repository.TaskRepository
	accounts repository.AccountRepository
	notifier usecase.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func New(
	events repository.EventRepository,
	tasks repository.TaskRepository,
	accounts repository.AccountRepository,
	notifier usecase.Notifier,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		events:   events,
		tasks:    tasks,
		accounts: accounts,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Leaderboard returns the current event's standing for the given user. The
// first call after the window elapses closes the event and pays the winner.
func (uc *UseCase) Leaderboard(ctx context.Context, accountID string) (*Standing, error) {
	now := uc.now()

	ev, err := uc.events.Current(ctx, now)
	if err != nil {
		return nil, err
	}

	if ev.HasEnded(now) {
		if ev.IsActive {
			if err := uc.close(ctx, ev); err != nil {
				return nil, err
			}
		}
		return uc.endedStanding(ctx, ev)
	}

	if !ev.IsActive || !ev.InWindow(now) {
		return nil, domain.ErrEventNotFound
	}

	counts, err := uc.tasks.CompletionCounts(ctx, ev.StartsAt, ev.EndsAt)
	if err != nil {
		return nil, err
	}

	standing := &Standing{
		Name:        ev.Name,
		EndsAt:      ev.EndsAt,
		RewardCoins: ev.RewardCoins,
		Top:         []domain.LeaderboardEntry{},
	}

	// Counts arrive ordered by count descending, account id ascending, so
	// rank is just the position.
	for i, c := range counts {
		entry := domain.LeaderboardEntry{
			Rank:      i + 1,
			AccountID: c.AccountID,
			Username:  c.Username,
			Completed: c.Count,
		}
		if i < topSize {
			standing.Top = append(standing.Top, entry)
		}
		if c.AccountID == accountID {
			rank := entry.Rank
			standing.UserRank = &rank
			standing.UserCount = c.Count
		}
	}
	return standing, nil
}

// CloseDue ends every active event whose window has elapsed. The request path
// triggers the same transition lazily; this keeps events from lingering open
// when nobody asks for the leaderboard.
func (uc *UseCase) CloseDue(ctx context.Context) error {
	due, err := uc.events.Due(ctx, uc.now())
	if err != nil {
		return err
	}
	for i := range due {
		if err := uc.close(ctx, &due[i]); err != nil {
			uc.logger.Error("failed to close event",
				zap.String("event_id", due[i].ID), zap.Error(err))
		}
	}
	return nil
}

// close tallies the window, deactivates the event behind the is_active swap
// and, when this caller wins the swap, pays the winner. Zero completed tasks
// still deactivate the event, just without a winner.
func (uc *UseCase) close(ctx context.Context, ev *domain.Event) error {
	counts, err := uc.tasks.CompletionCounts(ctx, ev.StartsAt, ev.EndsAt)
	if err != nil {
		return err
	}

	var result repository.EventResult
	if len(counts) > 0 {
		winnerID := counts[0].AccountID
		result.WinnerID = &winnerID
		result.WinnerCount = counts[0].Count
	}

	swapped, err := uc.events.Close(ctx, ev.ID, result)
	if err != nil {
		return err
	}
	if !swapped || result.WinnerID == nil {
		return nil
	}

	if _, err := uc.accounts.AdjustCoins(ctx, *result.WinnerID, ev.RewardCoins); err != nil {
		return err
	}
	uc.logger.Info("event ended",
		zap.String("event_id", ev.ID),
		zap.String("winner_id", *result.WinnerID),
		zap.Int("reward_coins", ev.RewardCoins))

	if uc.notifier != nil {
		message := fmt.Sprintf("You won the %s event and earned %d coins!", ev.Name, ev.RewardCoins)
		if err := uc.notifier.Notify(ctx, *result.WinnerID, message); err != nil {
			uc.logger.Error("failed to deliver winner notification",
				zap.String("account_id", *result.WinnerID), zap.Error(err))
		}
	}
	return nil
}

func (uc *UseCase) endedStanding(ctx context.Context, ev *domain.Event) (*Standing, error) {
	result, err := uc.events.Result(ctx, ev.ID)
	if err != nil {
		return nil, err
	}

	standing := &Standing{
		Ended:       true,
		Name:        ev.Name,
		EndsAt:      ev.EndsAt,
		RewardCoins: ev.RewardCoins,
	}
	if result.WinnerID != nil {
		winner := &domain.LeaderboardEntry{
			Rank:      1,
			AccountID: *result.WinnerID,
			Completed: result.WinnerCount,
		}
		if account, err := uc.accounts.GetByID(ctx, *result.WinnerID); err == nil {
			winner.Username = account.Username
		}
		standing.Winner = winner
	}
	return standing, nil
}
