package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	config := Config{
		Type:            "memory",
		KeyPrefix:       "test",
		DefaultTTL:      time.Second * 2,
		CleanupInterval: time.Second,
	}
	cache, err := NewMemoryCache(config)
	require.NoError(t, err)
	defer cache.Close()

	err = cache.Set(ctx, "key1", "value1", 0) // 使用默认TTL
	assert.NoError(t, err)

	val, found, err := cache.Get(ctx, "key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "value1", val)

	val, found, err = cache.Get(ctx, "non-existent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	err = cache.Set(ctx, "expire-soon", "temp-value", time.Millisecond*200)
	assert.NoError(t, err)

	time.Sleep(time.Millisecond * 400)

	_, found, err = cache.Get(ctx, "expire-soon")
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "to-delete", "delete-me", 0))
	require.NoError(t, cache.Delete(ctx, "to-delete"))
	_, found, _ = cache.Get(ctx, "to-delete")
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "key2", "value2", 0))
	require.NoError(t, cache.Clear(ctx))
	_, found, _ = cache.Get(ctx, "key2")
	assert.False(t, found)
}

func TestMemoryCacheClearKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	raw, err := NewMemoryCache(Config{KeyPrefix: "a"})
	require.NoError(t, err)
	mc := raw.(*MemoryCache)

	mc.cache.Set("b:other", "kept", 0)
	require.NoError(t, mc.Set(ctx, "mine", "gone", 0))

	require.NoError(t, mc.Clear(ctx))

	_, found := mc.cache.Get("b:other")
	assert.True(t, found)
	_, found, _ = mc.Get(ctx, "mine")
	assert.False(t, found)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cache, err := NewRedisCache(Config{
		Type:       "redis",
		RedisAddr:  mr.Addr(),
		KeyPrefix:  "ragqa",
		DefaultTTL: time.Minute,
	})
	require.NoError(t, err)
	defer cache.Close()

	require.NoError(t, cache.Set(ctx, "redis-key1", "redis-value1", 0))
	assert.True(t, mr.Exists("ragqa:redis-key1"))
	assert.Equal(t, time.Minute, mr.TTL("ragqa:redis-key1"))

	val, found, err := cache.Get(ctx, "redis-key1")
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "redis-value1", val)

	val, found, err = cache.Get(ctx, "redis-non-existent")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, val)

	require.NoError(t, cache.Set(ctx, "redis-expire-soon", "v", time.Second))
	mr.FastForward(2 * time.Second)
	_, found, err = cache.Get(ctx, "redis-expire-soon")
	assert.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Delete(ctx, "redis-key1"))
	_, found, _ = cache.Get(ctx, "redis-key1")
	assert.False(t, found)

	// Clear只删除本前缀
	require.NoError(t, mr.Set("foreign", "kept"))
	require.NoError(t, cache.Set(ctx, "x", "1", 0))
	require.NoError(t, cache.Set(ctx, "y", "2", 0))
	require.NoError(t, cache.Clear(ctx))
	assert.False(t, mr.Exists("ragqa:x"))
	assert.False(t, mr.Exists("ragqa:y"))
	assert.True(t, mr.Exists("foreign"))
}

func TestRedisCacheUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisCache(Config{RedisAddr: addr})
	assert.Error(t, err)
}

func TestCacheFactory(t *testing.T) {
	memCache, err := NewCache(DefaultConfig())
	assert.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, memCache)

	mr := miniredis.RunT(t)
	redisCache, err := NewCache(Config{Type: "redis", RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisCache{}, redisCache)
	redisCache.Close()

	_, err = NewCache(Config{Type: "unknown-type"})
	assert.Error(t, err)
}

func TestGenerateCacheKey(t *testing.T) {
	key := GenerateCacheKey("prefix")
	assert.Equal(t, "prefix", key)

	key = GenerateCacheKey("prefix", "part1")
	assert.Equal(t, "prefix:part1", key)

	key = GenerateCacheKey("prefix", "part1", "part2", "part3")
	assert.Equal(t, "prefix:part1:part2:part3", key)
}
