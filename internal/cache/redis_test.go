package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vision-Tey/scandi-shop-client/internal/domain"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { client.Close() })

	return NewRedisCache(client), mr
}

func sessionCart(sessionID string) *domain.Cart {
	return &domain.Cart{
		SessionID: sessionID,
		Entries: []domain.CartEntry{
			{ProductID: "shirt", Price: 10, Quantity: 2, Chosen: domain.SelectedAttributes{domain.KindSize: "M"}},
			{ProductID: "phone", Price: 500, Quantity: 1},
		},
	}
}

func TestGet_Success(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	cart := sessionCart("session-1")
	cartJSON, _ := json.Marshal(cart)
	require.NoError(t, mr.Set(cacheKey("session-1"), string(cartJSON)))

	result, err := cache.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", result.SessionID)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "M", result.Entries[0].Chosen[domain.KindSize])
}

func TestGet_CacheMiss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	result, err := cache.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, result)
}

func TestGet_CorruptPayload(t *testing.T) {
	cache, mr := setupTestRedis(t)
	require.NoError(t, mr.Set(cacheKey("session-1"), "not-json"))

	_, err := cache.Get(context.Background(), "session-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestSet_ThenGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	cart := sessionCart("session-1")
	require.NoError(t, cache.Set(ctx, "session-1", cart))

	assert.True(t, mr.Exists(cacheKey("session-1")))

	result, err := cache.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, cart.Total(), result.Total())
}

func TestSet_HasTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "session-1", sessionCart("session-1")))

	ttl := mr.TTL(cacheKey("session-1"))
	assert.GreaterOrEqual(t, ttl, cache.baseTTL)
}

func TestDelete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "session-1", sessionCart("session-1")))
	require.NoError(t, cache.Delete(ctx, "session-1"))

	assert.False(t, mr.Exists(cacheKey("session-1")))

	// Deleting an absent key is not an error.
	assert.NoError(t, cache.Delete(ctx, "session-1"))
}
