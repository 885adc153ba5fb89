package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/core/session"
	"github.com/sessionkit/sessionkit/store/memory"
)

func TestStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "abc", session.Data{"foo": "bar"}, time.Hour))

	data, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, session.Data{"foo": "bar"}, data)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := memory.New()

	_, found, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Isolation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	payload := session.Data{"foo": "bar"}
	require.NoError(t, store.Set(ctx, "abc", payload, time.Hour))

	// Mutating the caller's map after Set must not affect the stored entry.
	payload["foo"] = "mutated"

	data, _, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "bar", data["foo"])

	// Mutating the returned map must not affect later reads.
	data["foo"] = "mutated again"

	again, _, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "bar", again["foo"])
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "short", session.Data{"x": 1}, 20*time.Millisecond))
	require.NoError(t, store.Set(ctx, "long", session.Data{"x": 2}, time.Hour))

	time.Sleep(40 * time.Millisecond)

	_, found, err := store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, found, "expired entry must read as absent")

	_, found, err = store.Get(ctx, "long")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestStore_Touch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": 1}, 30*time.Millisecond))

	// Keep touching past the original deadline; the entry must survive.
	for i := 0; i < 3; i++ {
		time.Sleep(20 * time.Millisecond)
		require.NoError(t, store.Touch(ctx, "abc", 30*time.Millisecond))
	}

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)

	// Touching an absent id is a no-op.
	assert.NoError(t, store.Touch(ctx, "ghost", time.Hour))
}

func TestStore_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": 1}, time.Hour))

	require.NoError(t, store.Destroy(ctx, "abc"))

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	// Idempotent.
	assert.NoError(t, store.Destroy(ctx, "abc"))
}

func TestStore_Introspection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "a", session.Data{"n": 1}, time.Hour))
	require.NoError(t, store.Set(ctx, "b", session.Data{"n": 2}, time.Hour))
	require.NoError(t, store.Set(ctx, "expired", session.Data{"n": 3}, time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "a")
	assert.Contains(t, all, "b")
}

func TestStore_Cleanup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := memory.New()
	require.NoError(t, store.Set(ctx, "a", session.Data{"n": 1}, time.Nanosecond))
	require.NoError(t, store.Set(ctx, "b", session.Data{"n": 2}, time.Hour))
	time.Sleep(5 * time.Millisecond)

	assert.Equal(t, 1, store.Cleanup())

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStore_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- store.Run(ctx, 10*time.Millisecond)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
