package bbolt_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/core/session"
	"github.com/sessionkit/sessionkit/store/bbolt"
)

func newTestStore(t *testing.T) *bbolt.Store {
	t.Helper()

	store, err := bbolt.New(filepath.Join(t.TempDir(), "sessions.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newTestStore(t)

	payload := session.Data{"foo": "bar", "count": float64(3)}
	require.NoError(t, store.Set(ctx, "abc", payload, time.Hour))

	data, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload, data)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	_, found, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "sessions.db")

	store, err := bbolt.New(path, nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"foo": "bar"}, time.Hour))
	require.NoError(t, store.Close())

	reopened, err := bbolt.New(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	data, found, err := reopened.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, session.Data{"foo": "bar"}, data)
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "short", session.Data{"x": true}, 20*time.Millisecond))

	time.Sleep(40 * time.Millisecond)

	_, found, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found)

	// The expired entry was reclaimed, not just hidden.
	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStore_Touch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": true}, 40*time.Millisecond))

	for i := 0; i < 3; i++ {
		time.Sleep(25 * time.Millisecond)
		require.NoError(t, store.Touch(ctx, "abc", 40*time.Millisecond))
	}

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found, "touched entry must outlive its original TTL")

	assert.NoError(t, store.Touch(ctx, "ghost", time.Hour))
}

func TestStore_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": true}, time.Hour))

	require.NoError(t, store.Destroy(ctx, "abc"))

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Destroy(ctx, "abc"))
}

func TestStore_IntrospectionAndCleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "a", session.Data{"n": float64(1)}, time.Hour))
	require.NoError(t, store.Set(ctx, "b", session.Data{"n": float64(2)}, time.Hour))
	require.NoError(t, store.Set(ctx, "stale", session.Data{"n": float64(3)}, time.Nanosecond))

	time.Sleep(5 * time.Millisecond)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a")
	assert.Contains(t, all, "b")

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
