//go:build integration

package store_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/community-web/internal/community"
	"github.com/serroba/community-web/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getRedisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}

	return "localhost:6379"
}

func newRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: getRedisAddr(),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisStoreIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()
	s := store.NewRedisStore(client)

	cleanup := func(names ...string) {
		for _, n := range names {
			client.Del(ctx, "community:"+n)
			client.SRem(ctx, "communities", n)
		}
	}

	t.Run("save and get by name", func(t *testing.T) {
		defer cleanup("it-meta")

		c := newCommunity("it-meta")
		require.NoError(t, s.Save(ctx, c))

		got, err := s.GetByName(ctx, "it-meta")

		require.NoError(t, err)
		assert.Equal(t, c.ID, got.ID)
		assert.True(t, c.CreatedAt.Equal(got.CreatedAt))
	})

	t.Run("duplicate returns ErrAlreadyExists", func(t *testing.T) {
		defer cleanup("it-dup")

		require.NoError(t, s.Save(ctx, newCommunity("it-dup")))

		err := s.Save(ctx, newCommunity("it-dup"))

		assert.ErrorIs(t, err, community.ErrAlreadyExists)
	})

	t.Run("get non-existent returns ErrNotFound", func(t *testing.T) {
		got, err := s.GetByName(ctx, "it-missing")

		assert.Nil(t, got)
		assert.ErrorIs(t, err, community.ErrNotFound)
	})

	t.Run("list includes saved communities", func(t *testing.T) {
		defer cleanup("it-a", "it-b")

		require.NoError(t, s.Save(ctx, newCommunity("it-b")))
		require.NoError(t, s.Save(ctx, newCommunity("it-a")))

		list, err := s.List(ctx)

		require.NoError(t, err)

		var names []community.Name
		for _, c := range list {
			names = append(names, c.Name)
		}

		assert.Contains(t, names, community.Name("it-a"))
		assert.Contains(t, names, community.Name("it-b"))
	})
}

func TestRedisCacheRepositoryIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()

	backing := store.NewMemoryStore()
	cached := store.NewRedisCacheRepository(backing, client, time.Minute)

	defer client.Del(ctx, "community_cache:it-cached")

	require.NoError(t, cached.Save(ctx, newCommunity("it-cached")))

	got, err := cached.GetByName(ctx, "it-cached")

	require.NoError(t, err)
	assert.Equal(t, "id-it-cached", got.ID)

	ttl := client.TTL(ctx, "community_cache:it-cached").Val()
	assert.Positive(t, ttl)

	_, err = cached.GetByName(ctx, "it-uncached-missing")
	assert.ErrorIs(t, err, community.ErrNotFound)
}

func TestRateLimitRedisStoreIntegration(t *testing.T) {
	client := newRedisClient(t)
	ctx := context.Background()

	s, err := store.NewRateLimitRedisStore(client)
	require.NoError(t, err)

	defer client.Del(ctx, "ratelimit:it-client")

	for i := 1; i <= 3; i++ {
		count, err := s.Record(ctx, "it-client", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(i), count)
	}

	t.Run("scores requests in microseconds", func(t *testing.T) {
		entries, err := client.ZRangeWithScores(ctx, "ratelimit:it-client", 0, -1).Result()
		require.NoError(t, err)
		require.Len(t, entries, 3)

		now := time.Now().UnixMicro()
		for _, z := range entries {
			assert.InDelta(t, float64(now), z.Score, float64(time.Minute.Microseconds()))
		}
	})

	t.Run("prunes requests outside the window", func(t *testing.T) {
		defer client.Del(ctx, "ratelimit:it-short")

		_, err := s.Record(ctx, "it-short", 50*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(60 * time.Millisecond)

		count, err := s.Record(ctx, "it-short", 50*time.Millisecond)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})
}
