// Package mapper implements the request and response transformations at the
// search boundary: visibility filter injection on the way in, price schedule
// resolution and field pruning on the way out.
package mapper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// MapRequest produces the upstream search request for a caller's request: a
// deep copy with visibility constraints merged into the filter of every
// product widget item. The input request is never mutated. The vendor
// extension block is dropped by the copy, so it never reaches the upstream
// service.
func MapRequest(original *domain.ProxyRequest, user *domain.UserContext) (*domain.SearchRequest, error) {
	if original == nil {
		return nil, apperrors.InvalidInput("request body is required")
	}
	if user == nil {
		return nil, apperrors.InvalidInput("user context is required")
	}

	var sellerID string
	if original.OrderCloud != nil {
		sellerID = original.OrderCloud.SellerID
	}

	mapped, err := cloneRequest(original)
	if err != nil {
		return nil, err
	}

	if mapped.Widget == nil || len(mapped.Widget.Items) == 0 {
		return mapped, nil
	}

	for _, item := range mapped.Widget.Items {
		if item == nil || !item.IsProduct() {
			continue
		}

		// Every product item must end up with a filter somewhere, so
		// create a search section when the item has neither.
		if item.Search == nil && item.Recommendations == nil {
			item.Search = &domain.WidgetSearch{}
		}

		if item.Search != nil {
			item.Search.Filter = alterFilter(item.Search.Filter, user, sellerID)
		}
		if item.Recommendations != nil {
			item.Recommendations.Filter = alterFilter(item.Recommendations.Filter, user, sellerID)
		}
	}

	return mapped, nil
}

// alterFilter merges the visibility filter with an item's existing filter.
// With no existing filter the visibility filter stands alone; otherwise the
// two are joined under a new AND with the visibility filter first.
func alterFilter(existing *domain.FilterNode, user *domain.UserContext, sellerID string) *domain.FilterNode {
	visibility := visibilityFilter(user, sellerID)
	if existing == nil {
		return visibility
	}
	return domain.And(visibility, existing)
}

// visibilityFilter builds the constraint tree asserting a product is
// authorized for display to the caller:
//
//	AND( active == true,
//	     marketplace == caller's marketplace,
//	     [suppliers == sellerID, when supplied],
//	     OR( buyers == caller's company, usergroups == each group ) )
func visibilityFilter(user *domain.UserContext, sellerID string) *domain.FilterNode {
	active := domain.Eq(domain.AttrActive, true)
	marketplace := domain.Eq(domain.AttrMarketplace, user.MarketplaceID)
	buyer := domain.Eq(domain.AttrBuyers, user.CompanyID)

	party := []*domain.FilterNode{buyer}
	for _, groupID := range user.Groups {
		party = append(party, domain.Eq(domain.AttrUserGroups, groupID))
	}

	// Fixed operand order: active, marketplace, supplier (when present),
	// then the party disjunction.
	operands := []*domain.FilterNode{active, marketplace}
	if strings.TrimSpace(sellerID) != "" {
		operands = append(operands, domain.Eq(domain.AttrSuppliers, sellerID))
	}
	operands = append(operands, domain.Or(party))

	return domain.And(operands...)
}

// cloneRequest deep-copies the caller's request into the upstream request
// shape via a serialization round trip. Fields the upstream shape does not
// declare, the extension block included, are shed here.
func cloneRequest(original *domain.ProxyRequest) (*domain.SearchRequest, error) {
	raw, err := json.Marshal(original)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("clone request: %w", err))
	}
	var mapped domain.SearchRequest
	if err := json.Unmarshal(raw, &mapped); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("clone request: %w", err))
	}
	return &mapped, nil
}
