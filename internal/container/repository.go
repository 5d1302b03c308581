package container

import (
	"context"
	"fmt"

	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/community-web/internal/community"
	"github.com/serroba/community-web/internal/store"
	"go.uber.org/zap"
)

const communityIDLength = 12

// RepositoryPackage provides the community.Repository selected by Options.Storage and
// the *community.Registrar writing to it.
func RepositoryPackage(i *do.Injector) {
	do.Provide(i, newRepository)

	do.Provide(i, func(i *do.Injector) (*community.Registrar, error) {
		repo := do.MustInvoke[community.Repository](i)

		generate, err := nanoid.Standard(communityIDLength)
		if err != nil {
			return nil, fmt.Errorf("id generator: %w", err)
		}

		return community.NewRegistrar(repo, generate), nil
	})
}

func newRepository(i *do.Injector) (community.Repository, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)

	switch opts.Storage {
	case StorageMemory:
		logger.Warn("communities are kept in memory and lost on restart")

		return store.NewMemoryStore(), nil
	case StorageRedis:
		return store.NewRedisStore(do.MustInvoke[*Redis](i).Client), nil
	case StoragePostgres:
		pg := store.NewPostgresStore(do.MustInvoke[*Postgres](i).Pool)
		if err := pg.Migrate(context.Background()); err != nil {
			return nil, fmt.Errorf("migrate communities: %w", err)
		}

		ttl, err := opts.CacheDuration()
		if err != nil {
			return nil, err
		}

		if ttl <= 0 {
			return pg, nil
		}

		logger.Info("caching community lookups in redis", zap.Duration("ttl", ttl))

		return store.NewRedisCacheRepository(pg, do.MustInvoke[*Redis](i).Client, ttl), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", opts.Storage)
	}
}
