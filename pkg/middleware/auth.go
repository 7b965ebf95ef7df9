package middleware

import "context"

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// SetUserID stores the authenticated subject in the request context so that
// RequestLogger and handlers can pick it up. Token validation itself lives in
// the identity layer, which calls this after verifying the bearer token.
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
