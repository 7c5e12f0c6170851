package social

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository"
	"github.com/motivatchi/backend/usecase"
)

// UseCase manages the follow graph and the notifications it produces.
type UseCase struct {
	accounts      repository.AccountRepository
	follows       repository.FollowRepository
	notifications repository.NotificationRepository
	notifier      usecase.Notifier
	logger        *zap.Logger
}

func New(
	accounts repository.AccountRepository,
	follows repository.FollowRepository,
	notifications repository.NotificationRepository,
	notifier usecase.Notifier,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		accounts:      accounts,
		follows:       follows,
		notifications: notifications,
		notifier:      notifier,
		logger:        logger,
	}
}

// Follow adds target to the current user's following. Following someone who
// is already followed is a no-op, not an error.
func (uc *UseCase) Follow(ctx context.Context, currentUsername, targetUsername string) (bool, error) {
	if targetUsername == "" {
		return false, domain.NewError(domain.ErrCodeInvalid, "username is required")
	}
	if targetUsername == currentUsername {
		return false, domain.NewError(domain.ErrCodeInvalid, "you cannot follow yourself")
	}

	target, err := uc.accounts.GetByUsername(ctx, targetUsername)
	if err != nil {
		return false, err
	}

	created, err := uc.follows.Follow(ctx, currentUsername, targetUsername)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}

	uc.notify(ctx, target.ID, fmt.Sprintf("%s started following you!", currentUsername))
	return true, nil
}

// Unfollow removes target from the current user's following.
func (uc *UseCase) Unfollow(ctx context.Context, currentUsername, targetUsername string) error {
	if targetUsername == "" {
		return domain.NewError(domain.ErrCodeInvalid, "username is required")
	}
	if _, err := uc.accounts.GetByUsername(ctx, targetUsername); err != nil {
		return err
	}

	removed, err := uc.follows.Unfollow(ctx, currentUsername, targetUsername)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NewError(domain.ErrCodeInvalid, "you are not following this user")
	}
	return nil
}

// RemoveFollower deletes the edge pointing at the current user.
func (uc *UseCase) RemoveFollower(ctx context.Context, currentUsername, followerUsername string) error {
	if followerUsername == "" {
		return domain.NewError(domain.ErrCodeInvalid, "username is required")
	}
	if _, err := uc.accounts.GetByUsername(ctx, followerUsername); err != nil {
		return err
	}

	// Removing someone who was not a follower is a no-op.
	_, err := uc.follows.Unfollow(ctx, followerUsername, currentUsername)
	return err
}

// Connections returns both sides of the follow graph for the user.
func (uc *UseCase) Connections(ctx context.Context, username string) (*domain.Connections, error) {
	following, err := uc.follows.Following(ctx, username)
	if err != nil {
		return nil, err
	}
	followers, err := uc.follows.Followers(ctx, username)
	if err != nil {
		return nil, err
	}
	return &domain.Connections{Following: following, Followers: followers}, nil
}

// FollowedCoins returns a followed user's coin balance. Users who are not
// followed keep their balance private.
func (uc *UseCase) FollowedCoins(ctx context.Context, currentUsername, targetUsername string) (*domain.Account, error) {
	target, err := uc.accounts.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	following, err := uc.follows.IsFollowing(ctx, currentUsername, targetUsername)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, domain.ErrNotFollowing
	}
	return target, nil
}

// Notifications returns the user's notifications, newest first.
func (uc *UseCase) Notifications(ctx context.Context, accountID string) ([]domain.Notification, error) {
	return uc.notifications.ListByAccount(ctx, accountID)
}

// MarkNotificationRead flags one of the user's notifications as read.
func (uc *UseCase) MarkNotificationRead(ctx context.Context, accountID, notificationID string) error {
	return uc.notifications.MarkRead(ctx, notificationID, accountID)
}

func (uc *UseCase) notify(ctx context.Context, accountID, message string) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.Notify(ctx, accountID, message); err != nil {
		uc.logger.Error("failed to deliver notification",
			zap.String("account_id", accountID), zap.Error(err))
	}
}
