package cart

import (
	"context"
	"encoding/json"

	"marche/models"
)

// CacheKey is the well-known local cache key holding the serialized cart.
const CacheKey = "cart"

// Gateway is the remote cart API consumed by the store.
//
// The read paths return the raw response body because the remote is not
// guaranteed to use one shape; see NormalizeCartPayload. Implementations
// should return errors satisfying GatewayError so credential rejections can
// be told apart from other failures.
type Gateway interface {
	FetchCart(ctx context.Context) (json.RawMessage, error)
	AddItem(ctx context.Context, productID string, quantity int) (json.RawMessage, error)
	UpdateItem(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	ClearCart(ctx context.Context) error
}

// Cache is the durable local store used for the guest cart and as a mirror
// of the server cart. Get reports false for absent keys.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// AuthState reports the current authentication signal.
type AuthState interface {
	IsAuthenticated() bool
	CurrentUser() *models.User
}
