package team

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/repository/memory"
)

func mutualFollow(t *testing.T, store *memory.Store, a, b string) {
	t.Helper()
	ctx := context.Background()
	_, err := store.Follows().Follow(ctx, a, b)
	require.NoError(t, err)
	_, err = store.Follows().Follow(ctx, b, a)
	require.NoError(t, err)
}

func TestResolveIsolatedUser(t *testing.T) {
	store := memory.NewStore()
	resolver := NewResolver(store.Follows())

	members, err := resolver.Resolve(context.Background(), "alone")

	require.NoError(t, err)
	assert.Equal(t, []string{"alone"}, members)
}

func TestResolveTransitiveClosure(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	// A<->B and B<->C: A's team reaches C through B.
	mutualFollow(t, store, "alice", "bob")
	mutualFollow(t, store, "bob", "carol")

	resolver := NewResolver(store.Follows())
	members, err := resolver.Resolve(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, members)
}

func TestResolveIgnoresOneWayFollows(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	mutualFollow(t, store, "alice", "bob")
	// dave follows alice, alice does not follow back.
	_, err := store.Follows().Follow(ctx, "dave", "alice")
	require.NoError(t, err)

	resolver := NewResolver(store.Follows())
	members, err := resolver.Resolve(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, members)
}

func TestResolveSeparateComponents(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	mutualFollow(t, store, "alice", "bob")
	mutualFollow(t, store, "carol", "dave")

	resolver := NewResolver(store.Follows())

	members, err := resolver.Resolve(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, members)

	members, err = resolver.Resolve(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "dave"}, members)
}
