package mapper

import (
	"strings"
	"time"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// Fields stripped from every product node before the response leaves the
// proxy. They carry pricing and visibility internals the caller must not see.
var prunedProductFields = []string{
	"buyers",
	"suppliers",
	"defaultpriceschedule",
	"sellerdefaultpriceschedules",
	"partypriceschedules",
}

// MapResponse runs the response pipeline over an upstream search response:
// per product, resolve the applicable price schedule and stamp it with the
// sale flag, restrict inventory records to the caller's allow-list, and
// prune internal fields. The tree is mutated in place and returned.
// Non-product widgets and all other top-level fields pass through unchanged.
func MapResponse(body map[string]any, user *domain.UserContext, ext *domain.Extensions) (map[string]any, error) {
	if body == nil {
		return nil, apperrors.InvalidInput("response body is required")
	}
	if user == nil {
		return nil, apperrors.InvalidInput("user context is required")
	}

	var sellerID string
	if ext != nil {
		sellerID = ext.SellerID
	}

	widgets := asSlice(body["widgets"])
	if len(widgets) == 0 {
		return body, nil
	}

	for _, raw := range widgets {
		widget := asMap(raw)
		if widget == nil {
			continue
		}
		content := asSlice(widget["content"])
		if !strings.EqualFold(str(widget["entity"]), "product") || content == nil {
			continue
		}

		for _, rawItem := range content {
			item := asMap(rawItem)
			if item == nil {
				continue
			}

			schedule, err := resolvePriceSchedule(item, user, sellerID)
			if err != nil {
				return nil, err
			}
			if schedule != nil {
				schedule["isonsale"] = isOnSale(schedule, time.Now().UTC())
				item["priceschedule"] = schedule
			}

			if ext != nil {
				filterInventoryRecords(item, ext.RequiredInventoryLocations)
			}

			for _, field := range prunedProductFields {
				delete(item, field)
			}
		}
	}

	return body, nil
}

// filterInventoryRecords keeps only inventory records whose address id is
// non-empty and present in the allow-list. An empty allow-list means no
// restriction. Comparison is case-sensitive exact match; surviving records
// keep their original order.
func filterInventoryRecords(item map[string]any, required []string) {
	if len(required) == 0 {
		return
	}
	records := asSlice(item["inventoryrecords"])
	if len(records) == 0 {
		return
	}

	allowed := make(map[string]struct{}, len(required))
	for _, loc := range required {
		allowed[loc] = struct{}{}
	}

	kept := make([]any, 0, len(records))
	for _, raw := range records {
		rec := asMap(raw)
		if rec == nil {
			continue
		}
		addressID := str(rec["addressid"])
		if addressID == "" {
			continue
		}
		if _, ok := allowed[addressID]; ok {
			kept = append(kept, raw)
		}
	}
	item["inventoryrecords"] = kept
}
