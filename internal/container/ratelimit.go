package container

import (
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/community-web/internal/ratelimit"
	"github.com/serroba/community-web/internal/store"
)

// RateLimitPackage provides the rate limit store and the policy limiter.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (ratelimit.Store, error) {
		opts := do.MustInvoke[*Options](i)

		switch opts.RateLimitStore {
		case "", StorageMemory:
			return store.NewRateLimitMemoryStore(), nil
		case StorageRedis:
			rs, err := store.NewRateLimitRedisStore(do.MustInvoke[*Redis](i).Client)
			if err != nil {
				return nil, fmt.Errorf("rate limit store: %w", err)
			}

			return rs, nil
		default:
			return nil, fmt.Errorf("unknown rate limit store %q", opts.RateLimitStore)
		}
	})

	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		return ratelimit.NewPolicyLimiter(do.MustInvoke[ratelimit.Store](i), ratelimit.DefaultPolicy()), nil
	})
}
