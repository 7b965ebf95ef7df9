package domain

import "strings"

// UserContext is the decoded identity of the caller for the duration of one
// request. It is read-only once built.
type UserContext struct {
	MarketplaceID string
	CompanyID     string
	Username      string
	Currency      string
	Groups        []string
	Roles         []string
}

// InGroup reports whether the caller belongs to the given group,
// case-insensitively.
func (u *UserContext) InGroup(groupID string) bool {
	for _, g := range u.Groups {
		if strings.EqualFold(g, groupID) {
			return true
		}
	}
	return false
}

// HasRole reports whether the caller carries the given role,
// case-insensitively.
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}
