package identity

import (
	"log/slog"
	"net/http"
	"strings"

	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
	"github.com/ordercloud-api/searchproxy/pkg/httputil"
	pkgmiddleware "github.com/ordercloud-api/searchproxy/pkg/middleware"
)

// Middleware validates the Authorization header with the given provider and
// stores the decoded user context for downstream handlers. Requests without
// a valid bearer token are rejected with 401.
func Middleware(provider Provider, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				httputil.WriteError(w, r, err, logger)
				return
			}

			user, err := provider.Decode(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				httputil.WriteError(w, r, err, logger)
				return
			}

			ctx := NewContext(r.Context(), user)
			ctx = pkgmiddleware.SetUserID(ctx, user.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.Unauthorized("missing authorization header")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", apperrors.Unauthorized("invalid authorization header format")
	}
	return parts[1], nil
}
