package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/serroba/community-web/internal/analytics"
	"github.com/serroba/community-web/internal/messaging"
	"github.com/serroba/community-web/internal/metrics"
	"github.com/serroba/community-web/internal/urlschema"
	"go.uber.org/zap"
)

// RedirectPolicy decides whether a changed URL is served in place or redirected.
type RedirectPolicy string

const (
	// PolicyAuto redirects when the scheme or host changed under the path schema and
	// rewrites internally otherwise.
	PolicyAuto RedirectPolicy = "auto"
	// PolicyRewrite always serves the canonical URL without telling the client.
	PolicyRewrite RedirectPolicy = "rewrite"
	// PolicyRedirect answers every changed URL with a permanent redirect.
	PolicyRedirect RedirectPolicy = "redirect"
)

// Actions taken by the URLSchema middleware, as reported in metrics and events.
const (
	ActionNone     = "none"
	ActionRewrite  = "rewrite"
	ActionRedirect = "redirect"
	ActionNotFound = "not_found"
)

// ParseRedirectPolicy parses a policy name; the empty string selects PolicyAuto.
func ParseRedirectPolicy(s string) (RedirectPolicy, error) {
	switch p := RedirectPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyAuto, nil
	case PolicyAuto, PolicyRewrite, PolicyRedirect:
		return p, nil
	default:
		return "", fmt.Errorf("unknown redirect policy %q", s)
	}
}

// URLSchemaOptions configures the URLSchema middleware.
type URLSchemaOptions struct {
	Policy RedirectPolicy
	// TrustProxy takes the scheme, host and client IP from X-Forwarded-* headers.
	TrustProxy bool
	// Bypass lists paths served as-is, such as probes hitting the pod address.
	Bypass []string
}

type resultKey struct{}

// ResultFromContext returns the resolution of the current request.
func ResultFromContext(ctx context.Context) (urlschema.Result, bool) {
	res, ok := ctx.Value(resultKey{}).(urlschema.Result)

	return res, ok
}

// URLSchema returns a chi middleware that resolves every request URL to its canonical
// form before routing.
func URLSchema(
	resolver *urlschema.Resolver,
	opts URLSchemaOptions,
	publish messaging.Publish[analytics.ResolutionEvent],
	logger *zap.Logger,
) func(http.Handler) http.Handler {
	subdomainSchema := resolver.Config().UseSubdomainSchema

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(opts.Bypass, r.URL.Path) {
				next.ServeHTTP(w, r)

				return
			}

			start := time.Now()
			in := requestURL(r, opts.TrustProxy)
			res := resolver.Resolve(in)
			action := opts.Policy.action(res, subdomainSchema)

			metrics.RecordResolution(res.Outcome.String(), action, time.Since(start))

			if action != ActionNone {
				logger.Debug("url resolved",
					zap.String("from", in.String()),
					zap.String("to", res.URL.String()),
					zap.String("outcome", res.Outcome.String()),
					zap.String("action", action),
				)

				event := &analytics.ResolutionEvent{
					RequestID:    r.Header.Get(RequestIDHeader),
					OriginalURL:  in.String(),
					CanonicalURL: res.URL.String(),
					Outcome:      res.Outcome.String(),
					Action:       action,
					Community:    communityOf(resolver, res),
					ResolvedAt:   time.Now().UTC(),
					ClientIP:     ClientIP(r.Header.Get, r.RemoteAddr, opts.TrustProxy),
					UserAgent:    r.UserAgent(),
				}

				if err := publish(event); err != nil {
					metrics.RecordPublishError(analytics.TopicURLResolved)
					logger.Warn("failed to publish resolution event", zap.Error(err))
				}
			}

			ctx := context.WithValue(r.Context(), resultKey{}, res)

			switch action {
			case ActionNone:
				next.ServeHTTP(w, r.WithContext(ctx))
			case ActionRedirect:
				http.Redirect(w, r, res.URL.String(), http.StatusPermanentRedirect)
			default:
				next.ServeHTTP(w, rewrite(r.Clone(ctx), res.URL))
			}
		})
	}
}

// communityOf names the community a resolution addresses, whether it came from a
// subdomain label or from the canonical path.
func communityOf(resolver *urlschema.Resolver, res urlschema.Result) string {
	if res.Community != "" || res.NotFound() {
		return res.Community
	}

	name, _, _ := resolver.CommunityFromPath(res.URL.EscapedPath())

	return name
}

func (p RedirectPolicy) action(res urlschema.Result, subdomainSchema bool) string {
	switch {
	case res.NotFound():
		return ActionNotFound
	case !res.Changed():
		return ActionNone
	case p == PolicyRedirect:
		return ActionRedirect
	case p == PolicyRewrite:
		return ActionRewrite
	case res.OriginChanged() && !subdomainSchema:
		return ActionRedirect
	default:
		return ActionRewrite
	}
}

// requestURL reconstructs the absolute URL the client asked for.
func requestURL(r *http.Request, trustProxy bool) *url.URL {
	u := *r.URL
	u.User = nil
	u.Fragment = ""
	u.Host = r.Host

	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}

	if trustProxy {
		if proto := firstValue(r.Header.Get("X-Forwarded-Proto")); proto != "" {
			u.Scheme = strings.ToLower(proto)
		}

		if host := firstValue(r.Header.Get("X-Forwarded-Host")); host != "" {
			u.Host = host
		}
	}

	return &u
}

// rewrite points r at target in place of the URL the client sent.
func rewrite(r *http.Request, target *url.URL) *http.Request {
	r.Host = target.Host
	r.URL.Host = target.Host
	r.URL.Path = target.Path
	r.URL.RawPath = target.RawPath
	r.URL.RawQuery = target.RawQuery
	r.RequestURI = target.RequestURI()

	return r
}
