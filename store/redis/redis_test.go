package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sessionkit/sessionkit/core/session"
	"github.com/sessionkit/sessionkit/store/redis"
)

func newTestStore(t *testing.T) (*miniredis.Miniredis, *redis.Store) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "miniredis.Run failed")
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, redis.NewStore(client, "session:", 100)
}

func TestStore_SetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, store := newTestStore(t)

	payload := session.Data{"foo": "bar", "count": float64(3)}
	require.NoError(t, store.Set(ctx, "abc", payload, time.Hour))

	data, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	// JSON roundtrip: numbers come back as float64.
	assert.Equal(t, payload, data)
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	_, store := newTestStore(t)

	_, found, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_Expiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr, store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": true}, time.Minute))

	mr.FastForward(2 * time.Minute)

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found, "entry must expire with its TTL")
}

func TestStore_Touch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr, store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": true}, time.Minute))

	mr.FastForward(45 * time.Second)
	require.NoError(t, store.Touch(ctx, "abc", time.Minute))
	mr.FastForward(45 * time.Second)

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found, "touched entry must outlive its original TTL")

	assert.NoError(t, store.Touch(ctx, "ghost", time.Minute))
}

func TestStore_Destroy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "abc", session.Data{"x": true}, time.Hour))

	require.NoError(t, store.Destroy(ctx, "abc"))

	_, found, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, store.Destroy(ctx, "abc"))
}

func TestStore_Introspection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	mr, store := newTestStore(t)
	require.NoError(t, store.Set(ctx, "a", session.Data{"n": float64(1)}, time.Hour))
	require.NoError(t, store.Set(ctx, "b", session.Data{"n": float64(2)}, time.Hour))

	// Unrelated keys must not leak into session introspection.
	require.NoError(t, mr.Set("unrelated", "value"))

	n, err := store.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, session.Data{"n": float64(1)}, all["a"])
	assert.Equal(t, session.Data{"n": float64(2)}, all["b"])
}

func TestConnect_InvalidURL(t *testing.T) {
	t.Parallel()

	cfg := redis.DefaultConfig()
	cfg.ConnectionURL = "http://not-redis"

	_, err := redis.New(context.Background(), cfg)
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

func TestConnect_EmptyURL(t *testing.T) {
	t.Parallel()

	cfg := redis.DefaultConfig()
	cfg.ConnectionURL = ""

	_, err := redis.New(context.Background(), cfg)
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	check := redis.Healthcheck(client)
	assert.NoError(t, check(context.Background()))

	mr.Close()
	assert.Error(t, check(context.Background()))
}
