package cart

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"marche/models"
)

// NormalizeCartPayload turns a loosely shaped cart response into the
// canonical line item list. The item array is located by checking, in order:
//
//  1. object key "items"
//  2. a bare top-level array
//  3. object key "cart"
//  4. object key "cart_items"
//
// Anything else normalizes to an empty cart. Every missing field gets a
// defined default, so a partially populated response never produces a
// half-initialized line item.
func NormalizeCartPayload(raw []byte) []models.CartItem {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return []models.CartItem{}
	}

	var rawItems []any
	switch v := payload.(type) {
	case map[string]any:
		for _, key := range []string{"items", "cart", "cart_items"} {
			if arr, ok := v[key].([]any); ok {
				rawItems = arr
				break
			}
		}
	case []any:
		rawItems = v
	}

	items := make([]models.CartItem, 0, len(rawItems))
	for _, entry := range rawItems {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, normalizeItem(m))
	}
	return items
}

func normalizeItem(m map[string]any) models.CartItem {
	id := asString(m["id"])
	if id == "" {
		id = asString(m["item_id"])
	}
	if id == "" {
		id = syntheticItemID("api")
	}

	// Product data may be nested under "product" or inlined on the item.
	productData := m
	if p, ok := m["product"].(map[string]any); ok {
		productData = p
	}

	quantity := asInt(m["quantity"])
	if quantity < 1 {
		quantity = 1
	}

	return models.CartItem{
		ID:       id,
		Product:  normalizeProduct(productData),
		Quantity: quantity,
	}
}

func normalizeProduct(p map[string]any) models.Product {
	productID := asString(p["id"])
	if productID == "" {
		productID = asString(p["product_id"])
	}
	if productID == "" {
		productID = "0"
	}

	name := asString(p["name"])
	if name == "" {
		name = "Unknown Product"
	}

	createdAt := time.Now()
	if t, err := time.Parse(time.RFC3339, asString(p["created_at"])); err == nil {
		createdAt = t
	}

	return models.Product{
		ID:          productID,
		Name:        name,
		Description: asString(p["description"]),
		Price:       asFloat(p["price"]),
		Images:      asStringSlice(p["images"]),
		Vendor:      normalizeVendor(p["vendor"]),
		Category:    normalizeCategory(p["category"]),
		Stock:       asInt(p["stock"]),
		// Active unless the response explicitly says otherwise.
		IsActive:  asBool(p["is_active"], true),
		CreatedAt: createdAt,
	}
}

func normalizeVendor(v any) models.Vendor {
	m, ok := v.(map[string]any)
	if !ok {
		return models.Vendor{ID: "0", Name: "Unknown Vendor"}
	}
	vendor := models.Vendor{
		ID:   asString(m["id"]),
		Name: asString(m["name"]),
	}
	if vendor.ID == "" {
		vendor.ID = "0"
	}
	if vendor.Name == "" {
		vendor.Name = "Unknown Vendor"
	}
	return vendor
}

func normalizeCategory(v any) models.Category {
	m, ok := v.(map[string]any)
	if !ok {
		return models.Category{ID: "0", Name: "Uncategorized", IsActive: true}
	}
	category := models.Category{
		ID:       asString(m["id"]),
		Name:     asString(m["name"]),
		IsActive: asBool(m["is_active"], true),
	}
	if category.ID == "" {
		category.ID = "0"
	}
	if category.Name == "" {
		category.Name = "Uncategorized"
	}
	return category
}

// extractAddedItem pulls the confirmed line item out of an add-to-cart
// response. The item may live under "item", "cart_item", or be the whole
// body. Missing fields come back zero valued.
func extractAddedItem(raw []byte) (id string, quantity int) {
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", 0
	}

	item := payload
	for _, key := range []string{"item", "cart_item"} {
		if m, ok := payload[key].(map[string]any); ok {
			item = m
			break
		}
	}
	return asString(item["id"]), asInt(item["quantity"])
}

// syntheticItemID builds a provisional line item id. The prefix records why
// the id is not server-assigned ("api", "server", "local").
func syntheticItemID(prefix string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), uuid.NewString()[:8])
}

// ----------------------------
// Loose JSON coercion helpers
// ----------------------------

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		// JSON numbers decode as float64; ids are frequently numeric.
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	}
	return ""
}

func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return 0
}

func asBool(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func asStringSlice(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
