package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisCacheWithClient(client, DefaultConfig()), mr
}

func TestNewRedisCacheWithConfig_ConnectionError(t *testing.T) {
	config := RedisConfig{Addr: "localhost:99999", Config: DefaultConfig()}
	_, err := NewRedisCacheWithConfig(config)
	assert.Error(t, err)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()
	ctx := context.Background()

	key, value := "stmt-hash-1", []byte("MERGE (o:MediaOutlet {id: 1});")
	require.NoError(t, cache.Set(ctx, key, value, 1*time.Minute))

	retrieved, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()

	_, err := cache.Get(context.Background(), "nonexistent")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_Delete(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, cache.Delete(ctx, "k"))

	_, err := cache.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_Clear(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k1", []byte("v1"), time.Minute))
	require.NoError(t, cache.Set(ctx, "k2", []byte("v2"), time.Minute))
	require.NoError(t, cache.Clear(ctx))

	_, err1 := cache.Get(ctx, "k1")
	_, err2 := cache.Get(ctx, "k2")
	assert.Error(t, err1)
	assert.Error(t, err2)
}

func TestRedisCache_Exists(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	exists, err = cache.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisCache_TTLExpiration(t *testing.T) {
	cache, mr := setupTestRedis(t)
	defer mr.Close()
	defer cache.Close()
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 50*time.Millisecond))
	mr.FastForward(100 * time.Millisecond)

	_, err := cache.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_Prefix(t *testing.T) {
	config := Config{DefaultTTL: time.Minute, Prefix: "prefix:"}
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache := NewRedisCacheWithClient(client, config)
	defer cache.Close()

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), time.Minute))

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "prefix:k", keys[0])
}

func TestDefaultRedisConfig(t *testing.T) {
	config := DefaultRedisConfig()
	assert.Equal(t, "localhost:6379", config.Addr)
	assert.NotZero(t, config.Config.DefaultTTL)
}
