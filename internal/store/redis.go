package store

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/community-web/internal/community"
)

// RedisStore is a Redis implementation of community.Repository.
type RedisStore struct {
	client   *redis.Client
	prefix   string // "community:" for name -> hash
	indexKey string // "communities" set of all names
}

// NewRedisStore creates a new Redis-backed community store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:   client,
		prefix:   "community:",
		indexKey: "communities",
	}
}

func (r *RedisStore) Save(ctx context.Context, c *community.Community) error {
	// SADD is the uniqueness check: 0 means the name was already indexed.
	added, err := r.client.SAdd(ctx, r.indexKey, string(c.Name)).Result()
	if err != nil {
		return fmt.Errorf("index community: %w", err)
	}

	if added == 0 {
		return community.ErrAlreadyExists
	}

	if err := r.client.HSet(ctx, r.prefix+string(c.Name), communityFields(c)).Err(); err != nil {
		r.client.SRem(ctx, r.indexKey, string(c.Name))

		return fmt.Errorf("save community: %w", err)
	}

	return nil
}

func (r *RedisStore) GetByName(ctx context.Context, name community.Name) (*community.Community, error) {
	fields, err := r.client.HGetAll(ctx, r.prefix+string(name)).Result()
	if err != nil {
		return nil, err
	}

	return communityFromFields(fields)
}

func (r *RedisStore) List(ctx context.Context) ([]*community.Community, error) {
	names, err := r.client.SMembers(ctx, r.indexKey).Result()
	if err != nil {
		return nil, err
	}

	slices.Sort(names)

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, 0, len(names))

	for _, name := range names {
		cmds = append(cmds, pipe.HGetAll(ctx, r.prefix+name))
	}

	if len(cmds) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	out := make([]*community.Community, 0, len(cmds))

	for _, cmd := range cmds {
		c, err := communityFromFields(cmd.Val())
		if err != nil {
			// Index entry without a hash: a Save that failed halfway.
			continue
		}

		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b *community.Community) int {
		return strings.Compare(string(a.Name), string(b.Name))
	})

	return out, nil
}

// Compile-time check.
var _ community.Repository = (*RedisStore)(nil)
