package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ordercloud-api/searchproxy/internal/domain"
	apperrors "github.com/ordercloud-api/searchproxy/pkg/errors"
)

// productResponse wraps a single product item in the upstream response shape.
func productResponse(item map[string]any) map[string]any {
	return map[string]any{
		"widgets": []any{
			map[string]any{
				"entity":  "product",
				"content": []any{item},
			},
		},
	}
}

func firstProduct(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	widgets := body["widgets"].([]any)
	content := widgets[0].(map[string]any)["content"].([]any)
	return content[0].(map[string]any)
}

func defaultScheduleContainer(currency string) map[string]any {
	return map[string]any{
		"priceschedule": map[string]any{
			"id":       "default-ps",
			"currency": currency,
		},
	}
}

func partySchedule(partyID string, partyType float64, seller, currency, id string) map[string]any {
	return map[string]any{
		"party":     partyID,
		"partytype": partyType,
		"seller":    seller,
		"priceschedule": map[string]any{
			"id":       id,
			"currency": currency,
		},
	}
}

func TestMapResponse_NilInputs(t *testing.T) {
	_, err := MapResponse(nil, testUser(), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = MapResponse(map[string]any{}, nil, nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestMapResponse_NoWidgets_PassThrough(t *testing.T) {
	body := map[string]any{"dt": float64(12), "ts": "abc"}
	out, err := MapResponse(body, testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, body, out)
}

func TestMapResponse_NonProductWidget_Untouched(t *testing.T) {
	item := map[string]any{"buyers": []any{"buyer-co"}}
	body := map[string]any{
		"widgets": []any{
			map[string]any{"entity": "content", "content": []any{item}},
		},
	}
	out, err := MapResponse(body, testUser(), nil)
	require.NoError(t, err)
	got := out["widgets"].([]any)[0].(map[string]any)["content"].([]any)[0].(map[string]any)
	assert.Contains(t, got, "buyers")
}

func TestMapResponse_InternalFieldsPruned(t *testing.T) {
	item := map[string]any{
		"id":                          "prod-1",
		"buyers":                      []any{"buyer-co"},
		"suppliers":                   []any{"seller-1"},
		"defaultpriceschedule":        defaultScheduleContainer("USD"),
		"sellerdefaultpriceschedules": []any{},
		"partypriceschedules":         []any{},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)

	got := firstProduct(t, out)
	assert.Equal(t, "prod-1", got["id"])
	for _, field := range prunedProductFields {
		assert.NotContains(t, got, field)
	}
}

func TestMapResponse_DefaultSchedule_CurrencyMatch_Resolved(t *testing.T) {
	item := map[string]any{"defaultpriceschedule": defaultScheduleContainer("usd")}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)

	got := firstProduct(t, out)
	ps := asMap(got["priceschedule"])
	require.NotNil(t, ps)
	assert.Equal(t, "default-ps", ps["id"])
	assert.Equal(t, false, ps["isonsale"])
}

func TestMapResponse_DefaultSchedule_CurrencyMismatch_Pruned(t *testing.T) {
	item := map[string]any{"defaultpriceschedule": defaultScheduleContainer("EUR")}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)

	got := firstProduct(t, out)
	assert.NotContains(t, got, "priceschedule")
	assert.NotContains(t, got, "defaultpriceschedule")
}

func TestMapResponse_PartySchedule_CurrencySelection(t *testing.T) {
	// Both schedules match the caller's membership; currency decides.
	item := map[string]any{
		"ownerid": "owner-1",
		"partypriceschedules": []any{
			partySchedule("buyer-co", 3, "owner-1", "EUR", "eur-ps"),
			partySchedule("buyer-co", 3, "owner-1", "USD", "usd-ps"),
		},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)

	ps := asMap(firstProduct(t, out)["priceschedule"])
	require.NotNil(t, ps)
	assert.Equal(t, "usd-ps", ps["id"])
}

func TestMapResponse_PartySchedule_TieBreaksByOrder(t *testing.T) {
	item := map[string]any{
		"ownerid": "owner-1",
		"partypriceschedules": []any{
			partySchedule("buyer-co", 3, "owner-1", "USD", "first"),
			partySchedule("buyer-co", 3, "owner-1", "USD", "second"),
		},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, "first", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_GroupPartySchedule_Matches(t *testing.T) {
	item := map[string]any{
		"ownerid": "owner-1",
		"partypriceschedules": []any{
			partySchedule("GROUP-A", 2, "owner-1", "USD", "group-ps"),
		},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, "group-ps", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_SellerScope_PartyBeatsSellerDefault(t *testing.T) {
	item := map[string]any{
		"sellerdefaultpriceschedules": []any{
			map[string]any{
				"seller":        "S1",
				"priceschedule": map[string]any{"id": "seller-default", "currency": "USD"},
			},
		},
		"partypriceschedules": []any{
			partySchedule("buyer-co", 3, "S1", "USD", "seller-party"),
		},
	}
	ext := &domain.Extensions{SellerID: "S1"}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)
	assert.Equal(t, "seller-party", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_SellerScope_FallsBackToSellerDefault(t *testing.T) {
	item := map[string]any{
		"sellerdefaultpriceschedules": []any{
			map[string]any{
				"seller":        "s1",
				"priceschedule": map[string]any{"id": "seller-default", "currency": "USD"},
			},
		},
		"defaultpriceschedule": defaultScheduleContainer("USD"),
	}
	ext := &domain.Extensions{SellerID: "S1"}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)
	// Seller comparison is case-insensitive.
	assert.Equal(t, "seller-default", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_SellerScope_FallsBackToDefault(t *testing.T) {
	item := map[string]any{"defaultpriceschedule": defaultScheduleContainer("USD")}
	ext := &domain.Extensions{SellerID: "S1"}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)
	assert.Equal(t, "default-ps", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_NoSeller_OwnerPartyBeatsDefault(t *testing.T) {
	item := map[string]any{
		"ownerid":              "owner-1",
		"defaultpriceschedule": defaultScheduleContainer("USD"),
		"partypriceschedules": []any{
			partySchedule("buyer-co", 3, "owner-1", "USD", "owner-party"),
		},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, "owner-party", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_NoSeller_FallbackToAnyPartyByCurrency(t *testing.T) {
	// The final tier matches by currency alone, with no membership check.
	item := map[string]any{
		"ownerid": "owner-1",
		"partypriceschedules": []any{
			partySchedule("someone-else", 3, "other-seller", "USD", "stranger-ps"),
		},
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	assert.Equal(t, "stranger-ps", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_NoCandidate_NoScheduleField(t *testing.T) {
	item := map[string]any{"id": "prod-1"}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	assert.NotContains(t, firstProduct(t, out), "priceschedule")
}

func TestMapResponse_UnsupportedPartyType_Fails(t *testing.T) {
	item := map[string]any{
		"partypriceschedules": []any{
			partySchedule("buyer-co", 7, "owner-1", "USD", "bad-ps"),
		},
	}
	_, err := MapResponse(productResponse(item), testUser(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDataContract)
}

func TestMapResponse_PartyScheduleMissingFields_Skipped(t *testing.T) {
	item := map[string]any{
		"ownerid": "owner-1",
		"partypriceschedules": []any{
			map[string]any{"priceschedule": map[string]any{"currency": "USD"}},
		},
		"defaultpriceschedule": defaultScheduleContainer("USD"),
	}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)
	// The incomplete candidate is skipped, not an error; the default wins.
	assert.Equal(t, "default-ps", asMap(firstProduct(t, out)["priceschedule"])["id"])
}

func TestMapResponse_InventoryFilter(t *testing.T) {
	item := map[string]any{
		"inventoryrecords": []any{
			map[string]any{"addressid": "LOC_A"},
			map[string]any{"addressid": "LOC_B"},
			map[string]any{"addressid": nil},
			map[string]any{"addressid": ""},
		},
	}
	ext := &domain.Extensions{RequiredInventoryLocations: []string{"LOC_A", "LOC_C"}}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)

	records := asSlice(firstProduct(t, out)["inventoryrecords"])
	require.Len(t, records, 1)
	assert.Equal(t, "LOC_A", asMap(records[0])["addressid"])
}

func TestMapResponse_InventoryFilter_CaseSensitive(t *testing.T) {
	item := map[string]any{
		"inventoryrecords": []any{
			map[string]any{"addressid": "loc_a"},
		},
	}
	ext := &domain.Extensions{RequiredInventoryLocations: []string{"LOC_A"}}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)
	assert.Empty(t, asSlice(firstProduct(t, out)["inventoryrecords"]))
}

func TestMapResponse_EmptyAllowList_NoRestriction(t *testing.T) {
	item := map[string]any{
		"inventoryrecords": []any{
			map[string]any{"addressid": "LOC_A"},
			map[string]any{"addressid": ""},
		},
	}
	ext := &domain.Extensions{}
	out, err := MapResponse(productResponse(item), testUser(), ext)
	require.NoError(t, err)
	assert.Len(t, asSlice(firstProduct(t, out)["inventoryrecords"]), 2)
}

func TestMapResponse_SaleStamp_OnResolvedSchedule(t *testing.T) {
	container := map[string]any{
		"priceschedule": map[string]any{
			"id":       "default-ps",
			"currency": "USD",
			"pricebreaks": []any{
				map[string]any{"quantity": float64(1), "salePrice": float64(5)},
			},
		},
	}
	item := map[string]any{"defaultpriceschedule": container}
	out, err := MapResponse(productResponse(item), testUser(), nil)
	require.NoError(t, err)

	ps := asMap(firstProduct(t, out)["priceschedule"])
	require.NotNil(t, ps)
	assert.Equal(t, true, ps["isonsale"])
}

func TestCurrencyMatches(t *testing.T) {
	assert.True(t, currencyMatches("", ""))
	assert.True(t, currencyMatches(" usd ", "USD"))
	assert.True(t, currencyMatches("  ", ""))
	assert.False(t, currencyMatches("", "USD"))
	assert.False(t, currencyMatches("EUR", "USD"))
}
