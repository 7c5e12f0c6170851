package social

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository/memory"
)

type recordingNotifier struct {
	messages map[string][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{messages: make(map[string][]string)}
}

func (n *recordingNotifier) Notify(_ context.Context, accountID, message string) error {
	n.messages[accountID] = append(n.messages[accountID], message)
	return nil
}

type fixture struct {
	store    *memory.Store
	uc       *UseCase
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := newRecordingNotifier()
	return &fixture{
		store:    store,
		notifier: notifier,
		uc:       New(store.Accounts(), store.Follows(), store.Notifications(), notifier, nil),
	}
}

func (f *fixture) addAccount(t *testing.T, username string) string {
	t.Helper()
	account, err := f.store.Accounts().Create(context.Background(), &domain.Account{Username: username})
	require.NoError(t, err)
	return account.ID
}

func TestFollowNotifiesTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")

	created, err := f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, created)

	require.Len(t, f.notifier.messages[bobID], 1)
	assert.Equal(t, "alice started following you!", f.notifier.messages[bobID][0])
}

func TestFollowAgainIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")

	_, err := f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)

	created, err := f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, f.notifier.messages[bobID], 1, "repeat follow must not re-notify")
}

func TestFollowSelfRejected(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "alice")

	_, err := f.uc.Follow(context.Background(), "alice", "alice")

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestFollowUnknownTarget(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "alice")

	_, err := f.uc.Follow(context.Background(), "alice", "ghost")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestUnfollowWithoutEdgeFails(t *testing.T) {
	f := newFixture(t)
	f.addAccount(t, "alice")
	f.addAccount(t, "bob")

	err := f.uc.Unfollow(context.Background(), "alice", "bob")

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUnfollowRemovesEdge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	f.addAccount(t, "bob")

	_, err := f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	require.NoError(t, f.uc.Unfollow(ctx, "alice", "bob"))

	following, err := f.store.Follows().IsFollowing(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestRemoveFollowerIsNoOpSafe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	f.addAccount(t, "bob")

	// bob does not follow alice; removal succeeds silently.
	require.NoError(t, f.uc.RemoveFollower(ctx, "alice", "bob"))

	_, err := f.uc.Follow(ctx, "bob", "alice")
	require.NoError(t, err)
	require.NoError(t, f.uc.RemoveFollower(ctx, "alice", "bob"))

	following, err := f.store.Follows().IsFollowing(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, following)
}

func TestConnections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	f.addAccount(t, "bob")
	f.addAccount(t, "carol")

	_, err := f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)
	_, err = f.uc.Follow(ctx, "carol", "alice")
	require.NoError(t, err)

	connections, err := f.uc.Connections(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"bob"}, connections.Following)
	assert.Equal(t, []string{"carol"}, connections.Followers)
}

func TestFollowedCoinsRequiresFollow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")
	_, err := f.store.Accounts().AdjustCoins(ctx, bobID, 42)
	require.NoError(t, err)

	_, err = f.uc.FollowedCoins(ctx, "alice", "bob")
	assert.ErrorIs(t, err, domain.ErrNotFollowing)

	_, err = f.uc.Follow(ctx, "alice", "bob")
	require.NoError(t, err)

	account, err := f.uc.FollowedCoins(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, 42, account.Coins)
}

func TestNotificationsNewestFirstAndMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")

	for _, message := range []string{"first", "second"} {
		_, err := f.store.Notifications().Create(ctx, &domain.Notification{
			AccountID: aliceID,
			Message:   message,
		})
		require.NoError(t, err)
	}

	notifications, err := f.uc.Notifications(ctx, aliceID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "second", notifications[0].Message)

	require.NoError(t, f.uc.MarkNotificationRead(ctx, aliceID, notifications[0].ID))

	notifications, err = f.uc.Notifications(ctx, aliceID)
	require.NoError(t, err)
	assert.True(t, notifications[0].IsRead)
	assert.False(t, notifications[1].IsRead)
}

func TestMarkReadScopedToOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")

	created, err := f.store.Notifications().Create(ctx, &domain.Notification{
		AccountID: aliceID,
		Message:   "hi",
	})
	require.NoError(t, err)

	err = f.uc.MarkNotificationRead(ctx, bobID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotificationNotFound)
}
