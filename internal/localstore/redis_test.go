package localstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a miniredis server and returns a RedisStore instance
func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis, func()) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, "device-42")

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return store, mr, cleanup
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testLines()))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[1].ProductID)
	assert.Equal(t, "cap", got[1].Product.Name)
}

func TestRedisStore_MissingKeyIsEmpty(t *testing.T) {
	store, _, cleanup := setupTestRedis(t)
	defer cleanup()

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_CorruptEnvelopeIsEmpty(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	mr.Set(store.key(), "{not json")

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.False(t, mr.Exists(store.key()))
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, testLines()))
	assert.Equal(t, DefaultExpiry, mr.TTL(store.key()))

	mr.FastForward(DefaultExpiry + time.Minute)

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_EnvelopeShape(t *testing.T) {
	store, mr, cleanup := setupTestRedis(t)
	defer cleanup()

	require.NoError(t, store.Save(context.Background(), testLines()))

	raw, err := mr.Get(store.key())
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(raw), &env))
	assert.Len(t, env.Items, 2)
	assert.Positive(t, env.Timestamp)
}
