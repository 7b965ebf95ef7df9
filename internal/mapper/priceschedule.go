package mapper

import (
	"fmt"
	"strings"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// scheduleSelector is one tier of the resolution priority order. It returns
// the winning schedule node for its tier, or nil when the tier has no
// candidate.
type scheduleSelector func() map[string]any

// resolvePriceSchedule selects the single applicable price schedule for a
// product node, or nil when no candidate survives currency matching.
//
// The default schedule is gated first: a currency mismatch removes its
// container from the product outright, regardless of which tier eventually
// wins. Selection then walks a fixed priority order. With a seller id the
// order is seller-scoped party schedule, seller default, surviving default.
// Without one it is owner-scoped party schedule, surviving default, any
// currency-matching party schedule, default again. The first tier with a
// candidate wins; ties within a tier break by original array order.
func resolvePriceSchedule(item map[string]any, user *domain.UserContext, sellerID string) (map[string]any, error) {
	ownerID := str(item["ownerid"])

	defaultContainer := asMap(item["defaultpriceschedule"])
	defaultSchedule := asMap(defaultContainer["priceschedule"])
	if defaultSchedule != nil && !currencyMatches(str(defaultSchedule["currency"]), user.Currency) {
		delete(item, "defaultpriceschedule")
		defaultSchedule = nil
	}

	sellerDefaults := asSlice(item["sellerdefaultpriceschedules"])
	partySchedules := asSlice(item["partypriceschedules"])

	matchingParty, err := matchingPartySchedules(partySchedules, user)
	if err != nil {
		return nil, err
	}

	// Party and seller-default candidates keyed by the seller they are
	// scoped to. Seller comparisons are case-insensitive.
	partyScopedTo := func(seller string) scheduleSelector {
		return func() map[string]any {
			for _, pps := range matchingParty {
				if strings.EqualFold(str(pps["seller"]), seller) &&
					scheduleCurrencyMatches(pps["priceschedule"], user.Currency) {
					return asMap(pps["priceschedule"])
				}
			}
			return nil
		}
	}

	sellerDefault := func() map[string]any {
		for _, raw := range sellerDefaults {
			dps := asMap(raw)
			if dps == nil {
				continue
			}
			if strings.EqualFold(str(dps["seller"]), sellerID) &&
				scheduleCurrencyMatches(dps["priceschedule"], user.Currency) {
				return asMap(dps["priceschedule"])
			}
		}
		return nil
	}

	defaultTier := func() map[string]any { return defaultSchedule }

	// Last resort: any party schedule matching by currency alone, with no
	// membership re-check.
	anyPartyByCurrency := func() map[string]any {
		for _, raw := range partySchedules {
			pps := asMap(raw)
			if pps == nil {
				continue
			}
			if scheduleCurrencyMatches(pps["priceschedule"], user.Currency) {
				return asMap(pps["priceschedule"])
			}
		}
		return nil
	}

	var tiers []scheduleSelector
	if sellerID != "" {
		tiers = []scheduleSelector{partyScopedTo(sellerID), sellerDefault, defaultTier}
	} else {
		tiers = []scheduleSelector{partyScopedTo(ownerID), defaultTier, anyPartyByCurrency, defaultTier}
	}

	for _, tier := range tiers {
		if schedule := tier(); schedule != nil {
			return schedule, nil
		}
	}
	return nil, nil
}

// matchingPartySchedules filters the party schedule candidates down to those
// the caller belongs to, with a matching currency. Candidates missing a
// party or partytype field are skipped; an unrecognized party type value is
// a data contract violation and fails the whole call.
func matchingPartySchedules(partySchedules []any, user *domain.UserContext) ([]map[string]any, error) {
	var matching []map[string]any
	for _, raw := range partySchedules {
		pps := asMap(raw)
		if pps == nil || pps["party"] == nil || pps["partytype"] == nil {
			continue
		}

		partyType, ok := asInt64(pps["partytype"])
		if !ok {
			return nil, apperrors.DataContract(fmt.Sprintf("non-numeric party type: %v", pps["partytype"]))
		}
		inParty, err := isInParty(user, str(pps["party"]), partyType)
		if err != nil {
			return nil, err
		}
		if inParty && scheduleCurrencyMatches(pps["priceschedule"], user.Currency) {
			matching = append(matching, pps)
		}
	}
	return matching, nil
}

// isInParty reports whether the caller is a member of the referenced party.
func isInParty(user *domain.UserContext, partyID string, partyType int64) (bool, error) {
	switch partyType {
	case domain.PartyTypeCompany:
		return strings.EqualFold(user.CompanyID, partyID), nil
	case domain.PartyTypeGroup:
		return user.InGroup(partyID), nil
	default:
		return false, apperrors.DataContract(fmt.Sprintf("unsupported party type: %d", partyType))
	}
}
