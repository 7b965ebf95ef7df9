// Package service orchestrates the search boundary: tenant authorization,
// request augmentation, the upstream call, and the response pipeline.
package service

import (
	"context"
	"log/slog"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	"github.com/ordercloud-api/searchproxy/internal/mapper"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// SearchClient is the outbound transport to the search service.
type SearchClient interface {
	Search(ctx context.Context, req *domain.SearchRequest) (map[string]any, error)
}

// SearchService proxies one search round trip per call. It is stateless
// across invocations.
type SearchService struct {
	client SearchClient
	// marketplaceID, when non-empty, restricts the proxy to callers from
	// that marketplace.
	marketplaceID string
	logger        *slog.Logger
}

// NewSearchService creates the search orchestrator.
func NewSearchService(client SearchClient, marketplaceID string, logger *slog.Logger) *SearchService {
	return &SearchService{
		client:        client,
		marketplaceID: marketplaceID,
		logger:        logger,
	}
}

// Search validates the caller's marketplace, injects visibility constraints
// into the request, forwards it upstream, and maps the response. On a
// marketplace mismatch it fails before any downstream work happens.
func (s *SearchService) Search(ctx context.Context, req *domain.ProxyRequest, user *domain.UserContext) (map[string]any, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("request body is required")
	}
	if user == nil {
		return nil, apperrors.InvalidInput("user context is required")
	}

	if s.marketplaceID != "" && user.MarketplaceID != s.marketplaceID {
		s.logger.WarnContext(ctx, "marketplace mismatch",
			slog.String("caller_marketplace", user.MarketplaceID),
		)
		return nil, apperrors.Forbidden("user's marketplace does not match the configured marketplace")
	}

	mapped, err := mapper.MapRequest(req, user)
	if err != nil {
		return nil, err
	}

	body, err := s.client.Search(ctx, mapped)
	if err != nil {
		return nil, err
	}

	return mapper.MapResponse(body, user, req.OrderCloud)
}
