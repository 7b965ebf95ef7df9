package domain

// Search document attributes the proxy writes into visibility filters. These
// must match the search service's schema exactly.
const (
	AttrActive      = "active"
	AttrBuyers      = "buyers"
	AttrMarketplace = "marketplace"
	AttrUserGroups  = "usergroups"
	AttrSuppliers   = "suppliers"
)

// Party type discriminators carried on party price schedule records.
// The wire values are 1-based ordinals from the commerce platform's
// party enumeration (1=User, 2=Group, 3=Company); user-scoped schedules
// do not occur in search documents.
const (
	PartyTypeGroup   int64 = 2
	PartyTypeCompany int64 = 3
)
