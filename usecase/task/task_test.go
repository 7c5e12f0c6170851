package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository/memory"
)

type fixture struct {
	store *memory.Store
	uc    *UseCase
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store: memory.NewStore(),
		now:   time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
	}
	f.uc = New(f.store.Tasks(), f.store.Accounts(), f.store.Pets(), nil).
		WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) addAccount(t *testing.T, username string, coins int) string {
	t.Helper()
	account, err := f.store.Accounts().Create(context.Background(), &domain.Account{Username: username, Coins: coins})
	require.NoError(t, err)
	_, err = f.store.Pets().Create(context.Background(), domain.NewPet(account.ID))
	require.NoError(t, err)
	return account.ID
}

func (f *fixture) addTask(t *testing.T, accountID, priority string) *domain.Task {
	t.Helper()
	created, err := f.uc.Create(context.Background(), &domain.Task{
		AccountID: accountID,
		Name:      "write report",
		Priority:  priority,
	})
	require.NoError(t, err)
	return created
}

func TestCreateDefaultsToInProgress(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice", 0)

	created := f.addTask(t, accountID, "Low")

	assert.Equal(t, domain.TaskInProgress, created.Status)
	assert.NotEmpty(t, created.ID)
}

func TestCreateRequiresName(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice", 0)

	_, err := f.uc.Create(context.Background(), &domain.Task{AccountID: accountID})

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestGetForeignTaskReadsAsNotFound(t *testing.T) {
	f := newFixture(t)
	aliceID := f.addAccount(t, "alice", 0)
	bobID := f.addAccount(t, "bob", 0)
	created := f.addTask(t, aliceID, "Low")

	_, err := f.uc.Get(context.Background(), bobID, created.ID)

	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestCompletePaysReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 5)
	created := f.addTask(t, accountID, "High")

	result, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskCompleted, result.TaskStatus)
	assert.Equal(t, 10, result.XP)
	assert.Equal(t, 1, result.Level)
	assert.Equal(t, 35, result.Coins)
	assert.Equal(t, domain.MaxHealth, result.Health)
	assert.False(t, result.LeveledUp)

	stored, err := f.uc.Get(ctx, accountID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, f.now, stored.CompletedAt.UTC())
}

func TestCompleteTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)
	created := f.addTask(t, accountID, "Low")

	_, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	_, err = f.uc.Complete(ctx, accountID, created.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestCompleteRollsOverLevel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)

	pet, err := f.store.Pets().GetByAccount(ctx, accountID)
	require.NoError(t, err)
	pet.XP = 95
	require.NoError(t, f.store.Pets().Update(ctx, pet))

	created := f.addTask(t, accountID, "High")
	result, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.Level)
	assert.Equal(t, 5, result.XP)
}

func TestCompleteUnknownPriorityPaysNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 7)
	created := f.addTask(t, accountID, "whenever")

	result, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, 7, result.Coins)
	assert.Equal(t, 0, result.XP)
}

func TestMarkIncompleteRevertsReward(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)
	created := f.addTask(t, accountID, "Medium")

	completed, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, completed.Coins)
	assert.Equal(t, 5, completed.XP)

	reverted, err := f.uc.MarkIncomplete(ctx, accountID, created.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.TaskInProgress, reverted.TaskStatus)
	assert.Equal(t, 0, reverted.Coins)
	assert.Equal(t, 0, reverted.XP)

	stored, err := f.uc.Get(ctx, accountID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompletedAt)
}

func TestMarkIncompleteFloorsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)
	created := f.addTask(t, accountID, "High")

	_, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	// Spend the reward elsewhere before the clawback.
	_, err = f.store.Accounts().SpendCoins(ctx, accountID, 25)
	require.NoError(t, err)

	reverted, err := f.uc.MarkIncomplete(ctx, accountID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reverted.Coins, "clawback floors the balance, never negative")
}

func TestMarkIncompleteRequiresCompletedTask(t *testing.T) {
	f := newFixture(t)
	accountID := f.addAccount(t, "alice", 0)
	created := f.addTask(t, accountID, "Low")

	_, err := f.uc.MarkIncomplete(context.Background(), accountID, created.ID)

	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestUpdatePreservesStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	accountID := f.addAccount(t, "alice", 0)
	created := f.addTask(t, accountID, "Low")

	_, err := f.uc.Complete(ctx, accountID, created.ID)
	require.NoError(t, err)

	updated, err := f.uc.Update(ctx, accountID, &domain.Task{
		ID:       created.ID,
		Name:     "renamed",
		Priority: "High",
	})
	require.NoError(t, err)

	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, domain.TaskCompleted, updated.Status, "plain updates never change completion state")
	assert.NotNil(t, updated.CompletedAt)
}
