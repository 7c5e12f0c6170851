package challenge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository/memory"
	"github.com/motivatchi/backend/usecase/team"
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
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	notifier := newRecordingNotifier()
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) // Wednesday

	uc := New(store.Challenges(), store.Tasks(), store.Accounts(), team.NewResolver(store.Follows()), notifier, nil).
		WithClock(func() time.Time { return now }).
		WithRand(func(n int) int { return 0 }) // task_count 15, priority Low

	return &fixture{store: store, uc: uc, notifier: notifier, now: now}
}

func (f *fixture) addAccount(t *testing.T, username string) string {
	t.Helper()
	account, err := f.store.Accounts().Create(context.Background(), &domain.Account{Username: username})
	require.NoError(t, err)
	return account.ID
}

func (f *fixture) mutualFollow(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := f.store.Follows().Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = f.store.Follows().Follow(ctx, b, a)
	require.NoError(t, err)
}

func (f *fixture) completeTasks(t *testing.T, accountID, priority string, count int) {
	t.Helper()
	completedAt := f.now
	for i := 0; i < count; i++ {
		_, err := f.store.Tasks().Create(context.Background(), &domain.Task{
			AccountID:   accountID,
			Name:        "task",
			Priority:    priority,
			Status:      domain.TaskCompleted,
			CompletedAt: &completedAt,
		})
		require.NoError(t, err)
	}
}

func TestCurrentCreatesOncePerWeek(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.Current(ctx)
	require.NoError(t, err)
	second, err := f.uc.Current(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 15, first.TaskCount)
	assert.Equal(t, "Low", first.Priority)
	assert.Equal(t, time.Sunday, first.WeekStart.Weekday())
}

func TestJoinIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice")

	first, created, err := f.uc.Join(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.uc.Join(ctx, accountID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	joined, err := f.uc.Joined(ctx, accountID)
	require.NoError(t, err)
	assert.True(t, joined)
}

func TestJoinedFalseWithoutParticipation(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice")

	joined, err := f.uc.Joined(context.Background(), accountID)

	require.NoError(t, err)
	assert.False(t, joined)
}

func TestTeamMembersEmptyWhenNotJoined(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")
	f.mutualFollow(t, "alice", "bob")

	_, _, err := f.uc.Join(ctx, bobID)
	require.NoError(t, err)

	members, err := f.uc.TeamMembers(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestTeamMembersIntersectsClosureAndParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")
	carolID := f.addAccount(t, "carol")
	f.addAccount(t, "dave")

	// alice-bob-carol form a chain of mutual follows; dave is outside.
	f.mutualFollow(t, "alice", "bob")
	f.mutualFollow(t, "bob", "carol")

	for _, id := range []string{aliceID, bobID, carolID} {
		_, _, err := f.uc.Join(ctx, id)
		require.NoError(t, err)
	}

	members, err := f.uc.TeamMembers(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"bob", "carol"}, members)
}

func TestTeamProgressZeroWhenNotJoined(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice")
	f.completeTasks(t, accountID, "Low", 20)

	progress, err := f.uc.TeamProgress(context.Background(), accountID, "alice")

	require.NoError(t, err)
	assert.False(t, progress.Joined)
	assert.Equal(t, 0, progress.CompletedCount)
	assert.Equal(t, 15, progress.TaskCount)
	assert.False(t, progress.ChallengeComplete)
}

func TestTeamProgressCountsMatchingPriorityOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice")
	_, _, err := f.uc.Join(ctx, accountID)
	require.NoError(t, err)

	f.completeTasks(t, accountID, "low", 5) // counted, case-insensitive
	f.completeTasks(t, accountID, "High", 5)

	progress, err := f.uc.TeamProgress(ctx, accountID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.Joined)
	assert.Equal(t, 5, progress.CompletedCount)
	assert.False(t, progress.ChallengeComplete)
	assert.Zero(t, progress.RewardEarned)
}

func TestTeamProgressExcludesNonTeamCompletions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	strangerID := f.addAccount(t, "stranger")

	_, _, err := f.uc.Join(ctx, aliceID)
	require.NoError(t, err)
	_, _, err = f.uc.Join(ctx, strangerID)
	require.NoError(t, err)

	f.completeTasks(t, strangerID, "Low", 30)

	progress, err := f.uc.TeamProgress(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, progress.CompletedCount, "a joined stranger outside the closure must not count")
}

func TestTeamProgressRewardIsOneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")
	f.mutualFollow(t, "alice", "bob")

	_, _, err := f.uc.Join(ctx, aliceID)
	require.NoError(t, err)
	_, _, err = f.uc.Join(ctx, bobID)
	require.NoError(t, err)

	f.completeTasks(t, aliceID, "Low", 10)
	f.completeTasks(t, bobID, "Low", 5)

	progress, err := f.uc.TeamProgress(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.ChallengeComplete)
	assert.Equal(t, domain.ChallengeReward, progress.RewardEarned)

	// Both participants were paid exactly once.
	alice, err := f.store.Accounts().GetByID(ctx, aliceID)
	require.NoError(t, err)
	bob, err := f.store.Accounts().GetByID(ctx, bobID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeReward, alice.Coins)
	assert.Equal(t, domain.ChallengeReward, bob.Coins)
	assert.Len(t, f.notifier.messages[aliceID], 1)
	assert.Len(t, f.notifier.messages[bobID], 1)

	// A second progress call reports completion but earns nothing more.
	progress, err = f.uc.TeamProgress(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.True(t, progress.ChallengeComplete)
	assert.Zero(t, progress.RewardEarned)

	alice, err = f.store.Accounts().GetByID(ctx, aliceID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeReward, alice.Coins)
}

func TestTeamProgressRewardEarnedOnlyForFlippingCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	aliceID := f.addAccount(t, "alice")
	bobID := f.addAccount(t, "bob")
	f.mutualFollow(t, "alice", "bob")

	_, _, err := f.uc.Join(ctx, aliceID)
	require.NoError(t, err)
	_, _, err = f.uc.Join(ctx, bobID)
	require.NoError(t, err)

	f.completeTasks(t, aliceID, "Low", 15)

	// Alice's call flips both claims.
	progress, err := f.uc.TeamProgress(ctx, aliceID, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.ChallengeReward, progress.RewardEarned)

	// Bob's later call finds his claim already flipped.
	progress, err = f.uc.TeamProgress(ctx, bobID, "bob")
	require.NoError(t, err)
	assert.True(t, progress.ChallengeComplete)
	assert.Zero(t, progress.RewardEarned)
}
