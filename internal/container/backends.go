package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Redis owns the shared Redis client so the injector closes it on shutdown.
type Redis struct {
	Client *redis.Client
}

// Shutdown closes the client.
func (r *Redis) Shutdown() error {
	return r.Client.Close()
}

// Postgres owns the shared connection pool.
type Postgres struct {
	Pool *pgxpool.Pool
}

// Shutdown closes the pool.
func (p *Postgres) Shutdown() error {
	p.Pool.Close()

	return nil
}

// RedisPackage provides *Redis. The client connects lazily on first use.
func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Redis, error) {
		opts := do.MustInvoke[*Options](i)

		return &Redis{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

// PostgresPackage provides *Postgres.
func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*Postgres, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		pool, err := pgxpool.New(context.Background(), opts.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		logger.Info("postgres pool created")

		return &Postgres{Pool: pool}, nil
	})
}
