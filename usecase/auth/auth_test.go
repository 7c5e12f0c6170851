package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/domain"
	"github.com/motivatchi/backend/repository/memory"
)

func newUseCase(store *memory.Store) *UseCase {
	return New(store.Accounts(), store.Pets(), store.Sessions(), "test-secret", "motivatchi", time.Hour, nil)
}

func TestRegisterCreatesAccountAndPet(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	account, err := uc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.NotEqual(t, "s3cret", account.PasswordHash)

	pet, err := store.Pets().GetByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, pet.Level)
	assert.Equal(t, domain.MaxHealth, pet.Health)
	assert.Equal(t, []int{1}, pet.UnlockedOutfits)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "one")
	require.NoError(t, err)

	_, err = uc.Register(ctx, "alice", "two")
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestRegisterRequiresCredentials(t *testing.T) {
	uc := newUseCase(memory.NewStore())

	_, err := uc.Register(context.Background(), "", "pw")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	_, err = uc.Register(context.Background(), "alice", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestLoginAndResolve(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	account, err := uc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	token, session, err := uc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, account.ID, session.UserID)
	assert.Equal(t, "alice", session.Username)

	resolved, err := uc.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, resolved.ID)
	assert.Equal(t, account.ID, resolved.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, _, err = uc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginUnknownUserLooksLikeBadCredentials(t *testing.T) {
	uc := newUseCase(memory.NewStore())

	_, _, err := uc.Login(context.Background(), "ghost", "pw")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	token, session, err := uc.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, session.ID))

	// The JWT is still signed and unexpired, but the session is gone.
	_, err = uc.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveRejectsGarbage(t *testing.T) {
	uc := newUseCase(memory.NewStore())

	_, err := uc.Resolve(context.Background(), "not-a-jwt")

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolveRejectsForeignSignature(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store)
	other := New(store.Accounts(), store.Pets(), store.Sessions(), "other-secret", "motivatchi", time.Hour, nil)
	ctx := context.Background()

	_, err := uc.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)
	token, _, err := other.Login(ctx, "alice", "s3cret")
	require.NoError(t, err)

	_, err = uc.Resolve(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
