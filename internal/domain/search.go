package domain

import (
	"encoding/json"
	"strings"
)

// ProxyRequest is the request body accepted from callers: the upstream
// search request shape plus a vendor extension block. The extension block is
// consumed by the proxy and never forwarded upstream.
type ProxyRequest struct {
	SearchRequest
	OrderCloud *Extensions `json:"ordercloud,omitempty"`
}

// SearchRequest is the request shape the upstream search service accepts.
type SearchRequest struct {
	Widget  *WidgetContainer `json:"widget" validate:"required"`
	Context json.RawMessage  `json:"context,omitempty"`
}

// Extensions carries proxy-specific directives supplied by the caller.
type Extensions struct {
	// RequiredInventoryLocations restricts inventory records in the
	// response to the listed locations. Empty means no restriction.
	RequiredInventoryLocations []string `json:"requiredinventorylocations,omitempty"`

	// SellerID restricts results to a single seller's catalog and steers
	// price schedule resolution toward that seller's schedules.
	SellerID string `json:"sellerid,omitempty"`
}

// WidgetContainer holds the ordered widget items of a search request.
type WidgetContainer struct {
	Items []*WidgetItem `json:"items" validate:"required,min=1,dive,required"`
}

// WidgetItem is one widget in a search request. Only product-entity items
// are touched by the proxy; everything else passes through unchanged.
type WidgetItem struct {
	RfkID           string                 `json:"rfk_id" validate:"required"`
	Entity          string                 `json:"entity" validate:"required"`
	Search          *WidgetSearch          `json:"search,omitempty"`
	RfkFlags        json.RawMessage        `json:"rfk_flags,omitempty"`
	Sources         json.RawMessage        `json:"sources,omitempty"`
	Appearance      json.RawMessage        `json:"appearance,omitempty"`
	Recommendations *WidgetRecommendations `json:"recommendations,omitempty"`
}

// IsProduct reports whether this item targets the product entity.
func (w *WidgetItem) IsProduct() bool {
	return strings.EqualFold(w.Entity, "product")
}

// WidgetSearch is the search section of a widget item. Only Filter is
// interpreted; the remaining fields are opaque pass-through.
type WidgetSearch struct {
	Content          json.RawMessage `json:"content,omitempty"`
	Filter           *FilterNode     `json:"filter,omitempty"`
	Query            json.RawMessage `json:"query,omitempty"`
	Facet            json.RawMessage `json:"facet,omitempty"`
	Limit            *int            `json:"limit,omitempty"`
	Offset           *int            `json:"offset,omitempty"`
	Sort             json.RawMessage `json:"sort,omitempty"`
	GroupBy          json.RawMessage `json:"group_by,omitempty"`
	Personalization  json.RawMessage `json:"personalization,omitempty"`
	Ranking          json.RawMessage `json:"ranking,omitempty"`
	RelatedQuestions json.RawMessage `json:"related_questions,omitempty"`
	ResponseContext  json.RawMessage `json:"response_context,omitempty"`
	Rule             json.RawMessage `json:"rule,omitempty"`
	Suggestion       json.RawMessage `json:"suggestion,omitempty"`
	Swatch           json.RawMessage `json:"swatch,omitempty"`
}

// WidgetRecommendations is the recommendations section of a widget item.
type WidgetRecommendations struct {
	Content                 json.RawMessage `json:"content,omitempty"`
	Filter                  *FilterNode     `json:"filter,omitempty"`
	Limit                   *int            `json:"limit,omitempty"`
	Offset                  *int            `json:"offset,omitempty"`
	PaginateRecommendations *bool           `json:"paginate_recommendations,omitempty"`
	Recipe                  json.RawMessage `json:"recipe,omitempty"`
	Rule                    json.RawMessage `json:"rule,omitempty"`
	Swatch                  json.RawMessage `json:"swatch,omitempty"`
}
