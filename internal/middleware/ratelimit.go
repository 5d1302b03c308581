package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/handlers"
	"github.com/serroba/community-web/internal/metrics"
	"github.com/serroba/community-web/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware that applies policy-based rate limiting.
//
// Requests are counted per client and, for read and write scopes, per community. Operation
// metadata under ratelimit.MetadataKey can disable limiting for an endpoint, pick its
// scope, or replace the policy with endpoint specific limits.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		route := operationPath(ctx)
		cfg := ratelimit.EndpointConfigFrom(ctx)

		if cfg != nil && cfg.Disabled {
			logger.Debug("rate limiting disabled for endpoint",
				zap.String("path", route), zap.String("method", ctx.Method()))
			next(ctx)

			return
		}

		subject := ratelimit.Subject{Client: clientKey(ctx), Community: ctx.Param("community")}

		var (
			allowed  bool
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		if cfg != nil && len(cfg.Limits) > 0 {
			allowed, exceeded, err = limiter.AllowRoute(ctx.Context(), subject, route, cfg.Limits)
		} else {
			allowed, exceeded, err = limiter.Allow(ctx.Context(), subject, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", route), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error", err)

			return
		}

		if !allowed {
			rejectRateLimited(api, ctx, exceeded, route, logger)

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ""
}

func rejectRateLimited(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	route string,
	logger *zap.Logger,
) {
	msg := "rate limit exceeded"

	if exceeded != nil {
		scope := string(exceeded.Scope)
		if exceeded.Route != "" {
			scope = "route"
		}

		metrics.RecordRateLimited(scope)
		logger.Warn("rate limit exceeded",
			zap.String("path", route),
			zap.String("method", ctx.Method()),
			zap.String("scope", scope),
			zap.String("community", ctx.Param("community")),
			zap.Int64("count", exceeded.Count),
			zap.Int64("max", exceeded.Config.Max),
			zap.Duration("window", exceeded.Config.Window),
		)

		msg += ": " + exceeded.String()
		ctx.SetHeader("Retry-After", strconv.Itoa(int(exceeded.RetryAfter().Seconds())))
	}

	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, msg)
}

// clientKey hashes the client IP and User-Agent. The IP comes from RequestMeta when that
// middleware ran first.
func clientKey(ctx huma.Context) string {
	ip := handlers.RequestMetaFromContext(ctx.Context()).ClientIP
	if ip == "" {
		ip = ClientIP(ctx.Header, ctx.RemoteAddr(), false)
	}

	hash := sha256.Sum256([]byte(ip + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}
