// Package identity validates caller tokens and decodes them into the user
// context the search pipeline consumes.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// Provider decodes a bearer token into a user context. Decode fails with an
// unauthenticated condition when the token is missing, expired, malformed,
// or lacks the required roles.
type Provider interface {
	Decode(token string) (*domain.UserContext, error)
}

// JWTProvider validates HMAC-signed tokens issued by the commerce platform.
type JWTProvider struct {
	secret        []byte
	requiredRoles []string
	echoRoles     bool
}

// Option configures a JWTProvider.
type Option func(*JWTProvider)

// WithRequiredRoles rejects tokens that do not carry every listed role.
func WithRequiredRoles(roles ...string) Option {
	return func(p *JWTProvider) { p.requiredRoles = roles }
}

// WithRoleEcho includes the required role list in rejection messages.
// Off by default so error responses do not reveal which role was missing.
func WithRoleEcho(enabled bool) Option {
	return func(p *JWTProvider) { p.echoRoles = enabled }
}

// NewJWTProvider builds a provider verifying tokens with the given secret.
func NewJWTProvider(secret string, opts ...Option) *JWTProvider {
	p := &JWTProvider{secret: []byte(secret)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Decode parses and validates the token, then extracts the caller's
// marketplace, company, group memberships, currency, and roles.
func (p *JWTProvider) Decode(tokenString string) (*domain.UserContext, error) {
	if tokenString == "" {
		return nil, apperrors.Unauthorized("missing token")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}

	user := &domain.UserContext{
		MarketplaceID: stringClaim(claims, "marketplaceid"),
		CompanyID:     stringClaim(claims, "companyid"),
		Username:      stringClaim(claims, "sub"),
		Currency:      stringClaim(claims, "currency"),
		Groups:        stringSliceClaim(claims, "groups"),
		Roles:         stringSliceClaim(claims, "availableroles"),
	}

	if err := p.checkRoles(user); err != nil {
		return nil, err
	}
	return user, nil
}

// checkRoles enforces the configured required-role list.
func (p *JWTProvider) checkRoles(user *domain.UserContext) error {
	for _, role := range p.requiredRoles {
		if !user.HasRole(role) {
			if p.echoRoles {
				return apperrors.Unauthorized(
					fmt.Sprintf("token lacks required roles: %s", strings.Join(p.requiredRoles, ", ")))
			}
			return apperrors.Unauthorized("insufficient permissions")
		}
	}
	return nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func stringSliceClaim(claims jwt.MapClaims, key string) []string {
	raw, ok := claims[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

type contextKey struct{}

// NewContext stores a decoded user context for downstream handlers.
func NewContext(ctx context.Context, user *domain.UserContext) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// FromContext retrieves the decoded user context, or nil if absent.
func FromContext(ctx context.Context) *domain.UserContext {
	user, _ := ctx.Value(contextKey{}).(*domain.UserContext)
	return user
}
