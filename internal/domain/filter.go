package domain

import "encoding/json"

// Filter type discriminators used when composing filter trees. Filters
// arriving from the caller may carry other types (range, geo, etc.); those
// pass through untouched.
const (
	FilterTypeEq  = "eq"
	FilterTypeAnd = "and"
	FilterTypeOr  = "or"
)

// FilterNode is one node of a search filter tree. A leaf built by Eq has
// Name, Type and Value set; a composite built by And/Or has Type and Filters
// set. All other fields exist only so that filters supplied by the caller
// survive a decode/encode round trip byte-for-byte.
type FilterNode struct {
	Name        string          `json:"name,omitempty"`
	Value       json.RawMessage `json:"value,omitempty"`
	Values      json.RawMessage `json:"values,omitempty"`
	Type        string          `json:"type,omitempty"`
	Distance    string          `json:"distance,omitempty"`
	Lat         *float64        `json:"lat,omitempty"`
	Lon         *float64        `json:"lon,omitempty"`
	Coordinates json.RawMessage `json:"coordinates,omitempty"`
	Filters     []*FilterNode   `json:"filters,omitempty"`
}

// Eq builds an equality leaf. The value is serialized immediately so that
// zero values like false survive the omitempty on Value.
func Eq(name string, value any) *FilterNode {
	raw, err := json.Marshal(value)
	if err != nil {
		// Only reachable with non-serializable values, which callers
		// never pass (attribute values are strings and bools).
		raw = json.RawMessage("null")
	}
	return &FilterNode{Name: name, Type: FilterTypeEq, Value: raw}
}

// And builds a conjunction over the given children.
func And(filters ...*FilterNode) *FilterNode {
	return &FilterNode{Type: FilterTypeAnd, Filters: filters}
}

// Or builds a disjunction over the given children.
func Or(filters []*FilterNode) *FilterNode {
	return &FilterNode{Type: FilterTypeOr, Filters: filters}
}
