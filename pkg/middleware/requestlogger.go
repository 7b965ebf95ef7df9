package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ordercloud-api/searchproxy/pkg/logger"
)

// RequestLogger stores a request-scoped logger in the context, enriched with
// correlation_id, user_id, trace_id, and span_id. Handlers retrieve it with
// logger.FromContext. Mount after RequestLogging and Tracing so those fields
// are already populated; the auth middleware sets user_id later, so the
// X-User-ID header is accepted as a fallback for unauthenticated routes.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			userID := UserIDFromContext(ctx)
			if userID == "" {
				userID = r.Header.Get("X-User-ID")
			}
			if userID != "" {
				ctx = logger.WithUserID(ctx, userID)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
