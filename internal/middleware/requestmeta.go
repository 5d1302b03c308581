package middleware

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/community-web/internal/handlers"
)

// RequestMeta adds the request ID, client IP, user-agent and referrer to the request context,
// along with the canonical URL when URLSchema ran first.
func RequestMeta(_ huma.API, trustProxy bool) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			RequestID: ctx.Header(RequestIDHeader),
			ClientIP:  ClientIP(ctx.Header, ctx.RemoteAddr(), trustProxy),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		if res, ok := ResultFromContext(ctx.Context()); ok && !res.NotFound() {
			meta.CanonicalURL = res.URL.String()
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}
