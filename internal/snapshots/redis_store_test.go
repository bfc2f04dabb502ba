package snapshots

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	clock := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	store := NewRedisStore(client, "snap:")
	store.now = func() time.Time { return clock }
	return store, mr, &clock
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr, _ := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithExpiry(ctx, "nba|schedule|period=", []byte(`[]`), time.Hour))

	got, ok, err := store.GetWithExpiry(ctx, "nba|schedule|period=")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(got))

	assert.True(t, mr.Exists("snap:nba|schedule|period="))
	assert.True(t, mr.Exists("snap:nba|schedule|period=:expires_at"))
	assert.Greater(t, mr.TTL("snap:nba|schedule|period="), time.Hour)
}

func TestRedisStoreExpiredEntryIsDeleted(t *testing.T) {
	store, mr, clock := newTestRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.SetWithExpiry(ctx, "k", []byte("v"), time.Minute))

	*clock = clock.Add(2 * time.Minute)
	_, ok, err := store.GetWithExpiry(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("snap:k"))
	assert.False(t, mr.Exists("snap:k:expires_at"))
}

func TestRedisStoreMissingExpiryReadsAsExpired(t *testing.T) {
	store, mr, _ := newTestRedisStore(t)
	require.NoError(t, mr.Set("snap:orphan", "v"))

	_, ok, err := store.GetWithExpiry(context.Background(), "orphan")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("snap:orphan"))
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _, _ := newTestRedisStore(t)
	_, ok, err := store.GetWithExpiry(context.Background(), "nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, "")

	assert.Error(t, store.SetWithExpiry(context.Background(), "k", []byte("v"), time.Minute))
	_, _, err := store.GetWithExpiry(context.Background(), "k")
	assert.Error(t, err)
}

func TestRedisStoreNilClient(t *testing.T) {
	var store *RedisStore
	assert.Error(t, store.SetWithExpiry(context.Background(), "k", nil, time.Minute))
	_, _, err := store.GetWithExpiry(context.Background(), "k")
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
