package container

import (
	"fmt"
	"strings"
	"time"

	"github.com/serroba/community-web/internal/middleware"
	"github.com/serroba/community-web/internal/urlschema"
)

// Storage backends for communities.
const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

// Options configures the server. humacli exposes each field as a flag and as a
// SERVICE_* environment variable.
type Options struct {
	Port               int    `default:"8888"                                  help:"Port to listen on"                                        short:"p"`
	Hostname           string `default:"localhost"                             help:"Platform domain communities live under"`
	UseSubdomainSchema bool   `default:"false"                                 help:"Address communities as subdomains instead of paths"`
	CommunitySeparator string `default:"community"                             help:"Path segment preceding the community name"`
	SeparatorAliases   string `default:""                                      help:"Comma separated separators rewritten to the configured one"`
	ReservedSegments   string `default:"admin,error"                           help:"Comma separated top-level segments that are never communities"`
	CanonicalScheme    string `default:""                                      help:"Force http or https on canonical URLs"`
	RedirectPolicy     string `default:"auto"                                  help:"auto, rewrite or redirect"`
	TrustProxy         bool   `default:"false"                                 help:"Trust X-Forwarded-* headers"`
	Storage            string `default:"memory"                                help:"Community storage: memory, redis or postgres"`
	CacheTTL           string `default:"0s"                                    help:"Cache postgres lookups in Redis for this long, 0 disables"`
	RateLimitStore     string `default:"memory"                                help:"Rate limit counters: memory or redis"`
	Events             bool   `default:"true"                                  help:"Publish analytics events to Redis Streams"`
	RedisAddr          string `default:"localhost:6379"                        help:"Redis server address"                                     short:"r"`
	DatabaseURL        string `default:"postgres://localhost:5432/community"   help:"PostgreSQL connection string"`
	AnalyticsStore     string `default:"noop"                                  help:"Analytics sink for the consumer: noop or postgres"`
	LogFormat          string `default:"console"                               help:"Log format: console or json"`
}

// SchemaConfig builds the URL schema configuration from the options.
func (o *Options) SchemaConfig() urlschema.Config {
	return urlschema.Config{
		Hostname:           o.Hostname,
		UseSubdomainSchema: o.UseSubdomainSchema,
		CommunitySeparator: o.CommunitySeparator,
		SeparatorAliases:   splitList(o.SeparatorAliases),
		ReservedSegments:   splitList(o.ReservedSegments),
		Scheme:             o.CanonicalScheme,
	}
}

// URLSchemaOptions builds the middleware options. Health probes and metric scrapes
// bypass resolution since they usually address the pod directly.
func (o *Options) URLSchemaOptions() (middleware.URLSchemaOptions, error) {
	policy, err := middleware.ParseRedirectPolicy(o.RedirectPolicy)
	if err != nil {
		return middleware.URLSchemaOptions{}, err
	}

	return middleware.URLSchemaOptions{
		Policy:     policy,
		TrustProxy: o.TrustProxy,
		Bypass:     []string{"/health", "/metrics"},
	}, nil
}

// CacheDuration parses CacheTTL.
func (o *Options) CacheDuration() (time.Duration, error) {
	if o.CacheTTL == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(o.CacheTTL)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", o.CacheTTL, err)
	}

	return d, nil
}

// splitList splits a comma separated option. An empty option yields an empty, non-nil
// slice so explicit "no reserved segments" is kept.
func splitList(s string) []string {
	out := []string{}

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}
