package cart

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCartPayloadShapes(t *testing.T) {
	line := `{"id":"1","quantity":2,"product":{"id":"p1","name":"Mangoes","price":45}}`

	tests := []struct {
		name    string
		payload string
	}{
		{"items key", `{"items":[` + line + `]}`},
		{"bare array", `[` + line + `]`},
		{"cart key", `{"cart":[` + line + `]}`},
		{"cart_items key", `{"cart_items":[` + line + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := NormalizeCartPayload([]byte(tt.payload))
			require.Len(t, items, 1)
			assert.Equal(t, "1", items[0].ID)
			assert.Equal(t, 2, items[0].Quantity)
			assert.Equal(t, "Mangoes", items[0].Product.Name)
			assert.Equal(t, 45.0, items[0].Product.Price)
		})
	}
}

func TestNormalizeCartPayloadKeyPriority(t *testing.T) {
	// "items" wins over "cart_items" when both are present.
	payload := `{
		"cart_items": [{"id":"wrong","quantity":1,"product":{"id":"x"}}],
		"items":      [{"id":"right","quantity":1,"product":{"id":"p1"}}]
	}`
	items := NormalizeCartPayload([]byte(payload))
	require.Len(t, items, 1)
	assert.Equal(t, "right", items[0].ID)
}

func TestNormalizeCartPayloadUnrecognized(t *testing.T) {
	for _, payload := range []string{`{}`, `{"data":[]}`, `"nope"`, `42`, `not json at all`} {
		items := NormalizeCartPayload([]byte(payload))
		assert.NotNil(t, items)
		assert.Empty(t, items, "payload %q", payload)
	}
}

func TestNormalizeItemDefaults(t *testing.T) {
	items := NormalizeCartPayload([]byte(`{"items":[{}]}`))
	require.Len(t, items, 1)

	it := items[0]
	assert.True(t, strings.HasPrefix(it.ID, "api-"), "got id %q", it.ID)
	assert.Equal(t, 1, it.Quantity, "quantity floors at one")
	assert.Equal(t, "0", it.Product.ID)
	assert.Equal(t, "Unknown Product", it.Product.Name)
	assert.Equal(t, 0.0, it.Product.Price)
	assert.Equal(t, []string{}, it.Product.Images)
	assert.Equal(t, "Unknown Vendor", it.Product.Vendor.Name)
	assert.Equal(t, "Uncategorized", it.Product.Category.Name)
	assert.True(t, it.Product.IsActive, "active unless the response says otherwise")
	assert.False(t, it.Product.CreatedAt.IsZero())
}

func TestNormalizeItemIDFallback(t *testing.T) {
	items := NormalizeCartPayload([]byte(`{"items":[{"item_id":"alt-7","product":{"id":"p1"}}]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "alt-7", items[0].ID)
}

func TestNormalizeNumericIDs(t *testing.T) {
	// SQL-backed responses send numeric ids.
	items := NormalizeCartPayload([]byte(`{"items":[{"id":12,"quantity":2,"product":{"id":34,"name":"Mangoes"}}]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "12", items[0].ID)
	assert.Equal(t, "34", items[0].Product.ID)
}

func TestNormalizeInlineProduct(t *testing.T) {
	// Some responses inline product fields on the item instead of nesting.
	items := NormalizeCartPayload([]byte(`{"items":[{"id":"1","quantity":3,"product_id":"p9","name":"Cashew Nuts","price":"90"}]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "p9", items[0].Product.ID)
	assert.Equal(t, "Cashew Nuts", items[0].Product.Name)
	assert.Equal(t, 90.0, items[0].Product.Price, "string prices coerce")
}

func TestNormalizeFullProduct(t *testing.T) {
	payload := `{"items":[{
		"id": "1",
		"quantity": 2,
		"product": {
			"id": "p1",
			"name": "Mangoes",
			"description": "Sweet Kent mangoes",
			"price": 45.5,
			"images": ["a.jpg", "b.jpg"],
			"vendor": {"id": "v1", "name": "Banjul Fresh Farms"},
			"category": {"id": "c1", "name": "Fresh Produce", "is_active": true},
			"stock": 120,
			"is_active": false,
			"created_at": "2026-01-15T10:30:00Z"
		}
	}]}`
	items := NormalizeCartPayload([]byte(payload))
	require.Len(t, items, 1)

	p := items[0].Product
	assert.Equal(t, "Sweet Kent mangoes", p.Description)
	assert.Equal(t, 45.5, p.Price)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, p.Images)
	assert.Equal(t, "Banjul Fresh Farms", p.Vendor.Name)
	assert.Equal(t, "Fresh Produce", p.Category.Name)
	assert.Equal(t, 120, p.Stock)
	assert.False(t, p.IsActive, "an explicit is_active false is honored")
	assert.Equal(t, time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC), p.CreatedAt)
}

func TestNormalizeSkipsNonObjectEntries(t *testing.T) {
	items := NormalizeCartPayload([]byte(`{"items":[42, "x", {"id":"1","product":{"id":"p1"}}]}`))
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestExtractAddedItem(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantID  string
		wantQty int
	}{
		{"under item", `{"item":{"id":"srv-1","quantity":2}}`, "srv-1", 2},
		{"under cart_item", `{"cart_item":{"id":"srv-2","quantity":5}}`, "srv-2", 5},
		{"whole body", `{"id":"srv-3","quantity":1}`, "srv-3", 1},
		{"numeric id", `{"cart_item":{"id":7,"quantity":1}}`, "7", 1},
		{"empty", `{}`, "", 0},
		{"garbage", `not json`, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, qty := extractAddedItem([]byte(tt.payload))
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantQty, qty)
		})
	}
}
