package outbox

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "outbox.db"), "test")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatchPreservesOrder(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, store.Enqueue(Item{
			AccountID: "acc-1",
			Message:   msg,
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "first", items[0].Message)
	assert.Equal(t, "third", items[2].Message)
}

func TestGetBatchRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Enqueue(Item{
			AccountID: "acc-1",
			Message:   "msg",
			Timestamp: base.Add(time.Duration(i) * time.Millisecond),
		}))
	}

	items, err := store.GetBatch(2)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 5, size, "GetBatch must not consume items")
}

func TestRemove(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Enqueue(Item{AccountID: "acc-1", Message: "bye"}))

	items, err := store.GetBatch(1)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, store.Remove(items[0]))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestRequeueBumpsRetryOrdering(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	require.NoError(t, store.Enqueue(Item{AccountID: "acc-1", Message: "flaky", Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{AccountID: "acc-2", Message: "steady", Timestamp: base.Add(time.Millisecond)}))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	flaky := items[0]
	require.NoError(t, store.Remove(flaky))
	flaky.Retries++
	require.NoError(t, store.Requeue(flaky))

	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "steady", items[0].Message, "requeued item moves to the back")
	assert.Equal(t, 1, items[1].Retries)
}

func TestRequeueLandsBehindFutureTail(t *testing.T) {
	store := openTestStore(t)
	base := time.Now()

	require.NoError(t, store.Enqueue(Item{AccountID: "acc-1", Message: "flaky", Timestamp: base}))
	require.NoError(t, store.Enqueue(Item{AccountID: "acc-2", Message: "steady", Timestamp: base.Add(time.Hour)}))

	items, err := store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)

	flaky := items[0]
	require.NoError(t, store.Remove(flaky))
	require.NoError(t, store.Requeue(flaky))

	items, err = store.GetBatch(10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "steady", items[0].Message)
	assert.Equal(t, "flaky", items[1].Message, "requeue sorts after the tail even when its key is ahead of the clock")
}
