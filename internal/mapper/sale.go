package mapper

import "time"

// Date layouts accepted on sale window bounds. Upstream documents carry
// RFC 3339 timestamps; the bare forms show up in older catalog data.
var saleDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// isOnSale reports whether a resolved price schedule is on sale at the given
// instant: at least one price break carries a sale price, and now falls
// within the optional sale window. The start bound is inclusive, the end
// bound exclusive. Absent or unparseable bounds are unbounded on that side.
// No validation is applied to the sale price value itself.
func isOnSale(schedule map[string]any, now time.Time) bool {
	if schedule == nil {
		return false
	}

	hasSalePrice := false
	for _, raw := range asSlice(schedule["pricebreaks"]) {
		pb := asMap(raw)
		if pb == nil {
			continue
		}
		if v, ok := pb["salePrice"]; ok && v != nil {
			hasSalePrice = true
			break
		}
	}
	if !hasSalePrice {
		return false
	}

	start, hasStart := parseSaleDate(schedule["salestart"])
	end, hasEnd := parseSaleDate(schedule["saleend"])

	if !hasStart && !hasEnd {
		return true
	}

	startsOK := !hasStart || !start.After(now)
	endsOK := !hasEnd || end.After(now)
	return startsOK && endsOK
}

// parseSaleDate parses a sale window bound. Null, missing, non-string and
// unparseable values all report no bound.
func parseSaleDate(v any) (time.Time, bool) {
	s := str(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
