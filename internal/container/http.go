package container

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jaevor/go-nanoid"
	"github.com/samber/do"
	"github.com/serroba/community-web/internal/analytics"
	"github.com/serroba/community-web/internal/community"
	"github.com/serroba/community-web/internal/handlers"
	"github.com/serroba/community-web/internal/health"
	"github.com/serroba/community-web/internal/metrics"
	"github.com/serroba/community-web/internal/middleware"
	"github.com/serroba/community-web/internal/ratelimit"
	"github.com/serroba/community-web/internal/urlschema"
	"go.uber.org/zap"
)

const requestIDLength = 16

// HTTPPackage provides the *chi.Mux with the URL schema middleware installed and the
// huma.API with every route registered on it.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, newRouter)
	do.Provide(i, newAPI)
}

func newRouter(i *do.Injector) (*chi.Mux, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)
	resolver := do.MustInvoke[*urlschema.Resolver](i)
	publishers := do.MustInvoke[analytics.Publishers](i)

	schemaOpts, err := opts.URLSchemaOptions()
	if err != nil {
		return nil, err
	}

	requestID, err := nanoid.Standard(requestIDLength)
	if err != nil {
		return nil, fmt.Errorf("request id generator: %w", err)
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID(requestID))
	router.Use(middleware.URLSchema(resolver, schemaOpts, publishers.Resolution, logger))
	router.Use(chimiddleware.StripSlashes)
	router.Handle("/metrics", metrics.Handler())

	return router, nil
}

func newAPI(i *do.Injector) (huma.API, error) {
	opts := do.MustInvoke[*Options](i)
	logger := do.MustInvoke[*zap.Logger](i)
	router := do.MustInvoke[*chi.Mux](i)
	resolver := do.MustInvoke[*urlschema.Resolver](i)

	api := humachi.New(router, huma.DefaultConfig("Community Web", "1.0.0"))
	api.UseMiddleware(middleware.RequestMeta(api, opts.TrustProxy))
	api.UseMiddleware(middleware.PolicyRateLimiter(
		api,
		do.MustInvoke[*ratelimit.PolicyLimiter](i),
		ratelimit.NewOperationScopeResolver(),
		logger,
	))

	communityHandler := handlers.NewCommunityHandler(
		do.MustInvoke[community.Repository](i),
		do.MustInvoke[*community.Registrar](i),
		resolver,
		do.MustInvoke[analytics.Publishers](i).CommunityViewed,
		logger,
	)
	handlers.RegisterRoutes(api, communityHandler, resolver.Config().CommunitySeparator)
	health.RegisterRoutes(api, health.NewHandler(healthChecks(i, opts)))

	return api, nil
}

// healthChecks pings only the backends the options actually use.
func healthChecks(i *do.Injector, opts *Options) map[string]health.Checker {
	checks := map[string]health.Checker{}

	ttl, _ := opts.CacheDuration()
	if opts.Storage == StorageRedis || opts.RateLimitStore == StorageRedis || opts.Events || ttl > 0 {
		checks["redis"] = health.NewRedisChecker(do.MustInvoke[*Redis](i).Client)
	}

	if opts.Storage == StoragePostgres {
		checks["postgres"] = do.MustInvoke[*Postgres](i).Pool
	}

	return checks
}
