package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widgetItem struct {
	RfkID  string `json:"rfk_id" validate:"required"`
	Entity string `json:"entity" validate:"required,oneof=product content category"`
}

type widgetRequest struct {
	Items []widgetItem `json:"items" validate:"required,min=1,dive"`
}

func requireValidationError(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	return valErr.Fields()
}

func TestValidate_Success(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{{RfkID: "w1", Entity: "product"}}}
	assert.NoError(t, Validate(req))
}

func TestValidate_MissingRequired(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{{Entity: "product"}}}
	fields := requireValidationError(t, Validate(req))
	assert.Contains(t, fields, "RfkID")
	assert.Equal(t, "is required", fields["RfkID"])
}

func TestValidate_EmptySlice(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{}}
	fields := requireValidationError(t, Validate(req))
	assert.Contains(t, fields, "Items")
}

func TestValidate_OneOf(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{{RfkID: "w1", Entity: "order"}}}
	fields := requireValidationError(t, Validate(req))
	assert.Contains(t, fields["Entity"], "one of")
	assert.Contains(t, fields["Entity"], "product")
}

func TestValidate_MultipleErrors(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{{}}}
	fields := requireValidationError(t, Validate(req))
	assert.Contains(t, fields, "RfkID")
	assert.Contains(t, fields, "Entity")
}

func TestValidationError_ErrorString(t *testing.T) {
	req := widgetRequest{Items: []widgetItem{{Entity: "product"}}}
	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'RfkID'")
	assert.Contains(t, err.Error(), "is required")
}

type boundsStruct struct {
	Name   string `validate:"min=3,max=10"`
	Limit  int    `validate:"gte=1,lte=100"`
	Offset int    `validate:"gte=0"`
}

func TestValidate_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		in      boundsStruct
		field   string
		message string
	}{
		{"too short", boundsStruct{Name: "ab", Limit: 10}, "Name", "at least 3"},
		{"too long", boundsStruct{Name: "averylongname", Limit: 10}, "Name", "at most 10"},
		{"limit too low", boundsStruct{Name: "abc", Limit: 0}, "Limit", "greater than or equal to 1"},
		{"limit too high", boundsStruct{Name: "abc", Limit: 500}, "Limit", "less than or equal to 100"},
		{"negative offset", boundsStruct{Name: "abc", Limit: 10, Offset: -1}, "Offset", "greater than or equal to 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := requireValidationError(t, Validate(tt.in))
			assert.Contains(t, fields[tt.field], tt.message)
		})
	}
}

type idStruct struct {
	ID string `validate:"uuid"`
}

func TestValidate_UUID(t *testing.T) {
	fields := requireValidationError(t, Validate(idStruct{ID: "not-a-uuid"}))
	assert.Equal(t, "must be a valid UUID", fields["ID"])

	assert.NoError(t, Validate(idStruct{ID: "550e8400-e29b-41d4-a716-446655440000"}))
}

func TestDecodeAndValidate_Success(t *testing.T) {
	body := `{"items":[{"rfk_id":"w1","entity":"product"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst widgetRequest
	require.NoError(t, DecodeAndValidate(req, &dst))
	require.Len(t, dst.Items, 1)
	assert.Equal(t, "w1", dst.Items[0].RfkID)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var dst widgetRequest
	err := DecodeAndValidate(req, &dst)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode request body")

	var valErr *ValidationError
	assert.False(t, strings.Contains(err.Error(), "field"), "decode failures are not validation errors")
	assert.NotErrorAs(t, err, &valErr)
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	body := `{"items":[{"rfk_id":"","entity":"product"}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dst widgetRequest
	err := DecodeAndValidate(req, &dst)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields(), "RfkID")
}
