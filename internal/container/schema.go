package container

import (
	"github.com/samber/do"
	"github.com/serroba/community-web/internal/urlschema"
	"go.uber.org/zap"
)

// SchemaPackage provides the *urlschema.Resolver. An invalid configuration fails the
// first invocation.
func SchemaPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*urlschema.Resolver, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		resolver, err := urlschema.NewResolver(opts.SchemaConfig())
		if err != nil {
			return nil, err
		}

		cfg := resolver.Config()
		logger.Info("url schema configured",
			zap.String("hostname", cfg.Hostname),
			zap.Bool("subdomain_schema", cfg.UseSubdomainSchema),
			zap.String("separator", cfg.CommunitySeparator),
			zap.Strings("aliases", cfg.SeparatorAliases),
			zap.Strings("reserved", cfg.ReservedSegments),
		)

		return resolver, nil
	})
}
