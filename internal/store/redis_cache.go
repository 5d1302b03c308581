package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/community-web/internal/community"
)

// RedisCacheRepository wraps a Repository with Redis caching for lookups by name.
type RedisCacheRepository struct {
	store  community.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store community.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:  store,
		client: client,
		prefix: "community_cache:",
		ttl:    ttl,
	}
}

// Save stores a community in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, c *community.Community) error {
	if err := r.store.Save(ctx, c); err != nil {
		return err
	}

	r.cache(ctx, c)

	return nil
}

// GetByName retrieves a community, checking the cache first.
func (r *RedisCacheRepository) GetByName(ctx context.Context, name community.Name) (*community.Community, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(name)).Result()
	if err == nil {
		if c, err := communityFromFields(fields); err == nil {
			return c, nil
		}
	}

	c, err := r.store.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	r.cache(ctx, c)

	return c, nil
}

// List always reads through to the underlying store.
func (r *RedisCacheRepository) List(ctx context.Context) ([]*community.Community, error) {
	return r.store.List(ctx)
}

func (r *RedisCacheRepository) cache(ctx context.Context, c *community.Community) {
	key := r.prefix + string(c.Name)

	pipe := r.client.Pipeline()
	pipe.HSet(ctx, key, communityFields(c))

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	// Cache failures fall back to the underlying store on the next read.
	_, _ = pipe.Exec(ctx)
}

// Shutdown is a no-op for RedisCacheRepository (client managed externally).
func (r *RedisCacheRepository) Shutdown() error {
	return nil
}

// Compile-time check.
var _ community.Repository = (*RedisCacheRepository)(nil)
