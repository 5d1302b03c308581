package store

import (
	"context"
	"strconv"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/community-web/internal/ratelimit"
)

// RateLimitRedisStore is a Redis implementation of ratelimit.Store backed by one
// sorted set per key, scored by request time in microseconds.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
	member func() string
}

// NewRateLimitRedisStore creates a new Redis-backed rate limit store.
func NewRateLimitRedisStore(client *redis.Client) (*RateLimitRedisStore, error) {
	gen, err := nanoid.Standard(12)
	if err != nil {
		return nil, err
	}

	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
		member: gen,
	}, nil
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	redisKey := s.prefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)

	pipe := s.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixMicro()), Member: s.member()})
	count := pipe.ZCard(ctx, redisKey)
	pipe.PExpire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
