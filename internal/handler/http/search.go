// Package http exposes the proxy's HTTP surface.
package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	"github.com/ordercloud-api/searchproxy/internal/identity"
	"github.com/ordercloud-api/searchproxy/internal/service"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
	"github.com/ordercloud-api/searchproxy/pkg/httputil"
	"github.com/ordercloud-api/searchproxy/pkg/validator"
)

// SearchHandler handles HTTP requests for the search proxy endpoint.
type SearchHandler struct {
	service *service.SearchService
	logger  *slog.Logger
}

// NewSearchHandler creates a new search HTTP handler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		service: svc,
		logger:  logger,
	}
}

// Search handles POST /api/v1/search. The request body follows the upstream
// search request shape plus the vendor extension block; the response echoes
// the mapped upstream document.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := identity.FromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, r, apperrors.Unauthorized("missing user context"), h.logger)
		return
	}

	var req domain.ProxyRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), &req, user)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	// The mapped upstream document goes back verbatim, not wrapped in the
	// error envelope.
	body, err := json.Marshal(result)
	if err != nil {
		httputil.WriteError(w, r, apperrors.Internal(fmt.Errorf("encode response: %w", err)), h.logger)
		return
	}
	httputil.WriteRawJSON(w, http.StatusOK, body)
}
