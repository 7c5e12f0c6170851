package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motivatchi/backend/internal/infrastructure/outbox"
	"github.com/motivatchi/backend/repository/memory"
)

type staticHealth bool

func (h staticHealth) IsOnline() bool { return bool(h) }

type dispatcherFixture struct {
	store      *memory.Store
	outbox     *outbox.Store
	dispatcher *NotificationDispatcher
}

func newDispatcherFixture(t *testing.T, online bool) *dispatcherFixture {
	t.Helper()
	box, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { box.Close() })

	store := memory.NewStore()
	return &dispatcherFixture{
		store:  store,
		outbox: box,
		dispatcher: NewNotificationDispatcher(
			box,
			staticHealth(online),
			store.Notifications(),
			nil,
			DispatcherConfig{},
		),
	}
}

func TestDrainPreservesBufferedTimestamps(t *testing.T) {
	f := newDispatcherFixture(t, true)
	ctx := context.Background()

	buffered := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	require.NoError(t, f.outbox.Enqueue(outbox.Item{
		AccountID: "acc-1",
		Message:   "bob started following you!",
		Timestamp: buffered,
	}))

	require.NoError(t, f.dispatcher.Notify(ctx, "acc-1", "carol started following you!"))
	require.NoError(t, f.dispatcher.Drain(ctx))

	size, err := f.outbox.Size()
	require.NoError(t, err)
	assert.Zero(t, size)

	notifications, err := f.store.Notifications().ListByAccount(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, notifications, 2)

	var drained, live bool
	for _, n := range notifications {
		switch n.Message {
		case "bob started following you!":
			drained = true
			assert.True(t, n.CreatedAt.Equal(buffered), "drain must keep the time the notification was raised")
		case "carol started following you!":
			live = true
			assert.True(t, n.CreatedAt.After(buffered))
		}
	}
	assert.True(t, drained)
	assert.True(t, live)
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	f := newDispatcherFixture(t, false)
	ctx := context.Background()

	require.NoError(t, f.outbox.Enqueue(outbox.Item{AccountID: "acc-1", Message: "hello"}))
	require.NoError(t, f.dispatcher.Drain(ctx))

	size, err := f.outbox.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size, "nothing leaves the outbox while storage is down")
}
