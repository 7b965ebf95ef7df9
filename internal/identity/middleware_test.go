package identity

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	pkgmiddleware "github.com/ordercloud-api/searchproxy/pkg/middleware"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMiddleware_ValidToken_SetsContext(t *testing.T) {
	provider := NewJWTProvider(testSecret)

	var gotUser *domain.UserContext
	var gotUserID string
	handler := Middleware(provider, discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser = FromContext(r.Context())
			gotUserID = pkgmiddleware.UserIDFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "mkpl-1", gotUser.MarketplaceID)
	assert.Equal(t, "buyer-user", gotUserID)
}

func TestMiddleware_MissingHeader_Returns401(t *testing.T) {
	handler := Middleware(NewJWTProvider(testSecret), discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
}

func TestMiddleware_MalformedHeader_Returns401(t *testing.T) {
	handler := Middleware(NewJWTProvider(testSecret), discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_ExpiredToken_Returns401(t *testing.T) {
	claims := validClaims()
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	handler := Middleware(NewJWTProvider(testSecret), discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be reached")
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, claims))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMiddleware_BearerSchemeCaseInsensitive(t *testing.T) {
	handler := Middleware(NewJWTProvider(testSecret), discardLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", nil)
	req.Header.Set("Authorization", "bearer "+signToken(t, validClaims()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFromContext_Absent_ReturnsNil(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, FromContext(req.Context()))
}

// Compile-time check that the provider satisfies the interface.
var _ Provider = (*JWTProvider)(nil)
