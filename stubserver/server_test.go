package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marche/api"
	"marche/auth"
	"marche/cart"
	"marche/localcache"
	"marche/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// harness wires the real client stack against a fresh stub server, the same
// composition the CLI uses.
type harness struct {
	srv    *httptest.Server
	client *api.Client
	cache  *localcache.Memory
	auth   *auth.Store
	cart   *cart.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := httptest.NewServer(New("test-secret").Router())
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL + "/api")
	cache := localcache.NewMemory()
	authStore := auth.New(client, cache)
	cartStore := cart.New(client, cache, authStore)
	authStore.Subscribe(cartStore)

	return &harness{srv: srv, client: client, cache: cache, auth: authStore, cart: cartStore}
}

func (h *harness) loginCustomer(t *testing.T) {
	t.Helper()
	require.NoError(t, h.auth.Login(context.Background(), "customer@marche.gm", "customer123"))
}

func TestGuestThenLoginFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	h.cart.Reload(ctx)
	assert.Empty(t, h.cart.Items())
	assert.Equal(t, "Please log in to sync your cart", h.cart.Err())

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	assert.ErrorIs(t, h.cart.AddItem(ctx, *mango, 1), cart.ErrAuthRequired)

	// Login triggers the reload; the server cart starts empty.
	h.loginCustomer(t)
	assert.Empty(t, h.cart.Items())
	assert.Empty(t, h.cart.Err())

	require.NoError(t, h.cart.AddItem(ctx, *mango, 2))
	items := h.cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "Mangoes (1kg)", items[0].Product.Name)
	assert.NotEmpty(t, items[0].ID)
	assert.Equal(t, 90.0, h.cart.Total())
}

func TestCartRoundTripAgainstServer(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	basket, err := h.client.Product(ctx, "2")
	require.NoError(t, err)

	require.NoError(t, h.cart.AddItem(ctx, *mango, 2))
	require.NoError(t, h.cart.AddItem(ctx, *basket, 1))
	require.NoError(t, h.cart.AddItem(ctx, *mango, 3), "same product merges server-side too")

	// Sync pulls the server's view; it must agree with local state.
	h.cart.Sync(ctx)
	items := h.cart.Items()
	require.Len(t, items, 2)
	byProduct := map[string]models.CartItem{}
	for _, it := range items {
		byProduct[it.Product.ID] = it
	}
	assert.Equal(t, 5, byProduct["1"].Quantity)
	assert.Equal(t, 1, byProduct["2"].Quantity)

	mangoLine := byProduct["1"]
	require.NoError(t, h.cart.UpdateQuantity(ctx, mangoLine.ID, 4))
	h.cart.Sync(ctx)
	require.Len(t, h.cart.Items(), 2)

	require.NoError(t, h.cart.UpdateQuantity(ctx, mangoLine.ID, 0))
	h.cart.Sync(ctx)
	items = h.cart.Items()
	require.Len(t, items, 1, "zero quantity removes on the server as well")
	assert.Equal(t, "2", items[0].Product.ID)

	require.NoError(t, h.cart.Clear(ctx))
	h.cart.Sync(ctx)
	assert.Empty(t, h.cart.Items())
}

func TestLogoutLeavesNothingBehind(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, h.cart.AddItem(ctx, *mango, 1))
	_, ok := h.cache.Get(cart.CacheKey)
	require.True(t, ok)

	h.auth.Logout()

	assert.Empty(t, h.cart.Items())
	for _, key := range []string{auth.KeyToken, auth.KeyUser, cart.CacheKey} {
		_, ok := h.cache.Get(key)
		assert.False(t, ok, "key %q must be gone", key)
	}
	assert.Empty(t, h.client.Token())
}

func TestVendorHasNoCart(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	require.NoError(t, h.auth.Login(ctx, "vendor@marche.gm", "vendor123"))

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)

	// The client-side gate fires before any request.
	assert.ErrorIs(t, h.cart.AddItem(ctx, *mango, 1), cart.ErrNotCustomer)

	// The server enforces the role independently.
	_, err = h.client.FetchCart(ctx)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 403, apiErr.Status)
}

func TestBadTokenRejected(t *testing.T) {
	h := newHarness(t)
	h.client.SetToken("not-a-real-token")

	_, err := h.client.FetchCart(context.Background())
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.Unauthorized())
}

func TestCartPayloadUsesCartItemsKey(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, h.cart.AddItem(ctx, *mango, 2))

	raw, err := h.client.FetchCart(ctx)
	require.NoError(t, err)
	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Contains(t, payload, "cart_items")

	items := cart.NormalizeCartPayload(raw)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddToCartStockLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	basket, err := h.client.Product(ctx, "2")
	require.NoError(t, err)

	err = h.cart.AddItem(ctx, *basket, basket.Stock+1)
	assert.ErrorIs(t, err, cart.ErrUnconfirmed)
	assert.Equal(t, "not enough stock available", h.cart.Err())
}

func TestRegisterFlow(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	input := models.RegisterInput{
		Email: "new@marche.gm", Password: "newpass123",
		FirstName: "New", LastName: "Shopper",
	}
	require.NoError(t, h.auth.Register(ctx, input))
	user := h.auth.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, models.RoleCustomer, user.Role, "role defaults to customer")

	// The email is now taken.
	_, err := h.client.Register(ctx, input)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
}

func TestSessionRestore(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	require.NoError(t, h.cart.AddItem(ctx, *mango, 2))

	// A new process over the same cache: the session and cart come back.
	client2 := api.NewClient(h.srv.URL + "/api")
	auth2 := auth.New(client2, h.cache)
	cart2 := cart.New(client2, h.cache, auth2)
	auth2.Subscribe(cart2)
	auth2.Init(ctx)

	require.True(t, auth2.IsAuthenticated())
	items := cart2.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestOrderLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.loginCustomer(t)

	mango, err := h.client.Product(ctx, "1")
	require.NoError(t, err)
	basket, err := h.client.Product(ctx, "2")
	require.NoError(t, err)
	require.NoError(t, h.cart.AddItem(ctx, *mango, 2))
	require.NoError(t, h.cart.AddItem(ctx, *basket, 1))

	order, err := h.client.CreateOrder(ctx, models.OrderInput{
		Items: []models.OrderItemInput{
			{ProductID: "1", Quantity: 2},
			{ProductID: "2", Quantity: 1},
		},
		PaymentMethod:    api.PaymentWave,
		PaymentReference: api.GeneratePaymentReference(""),
		ShippingAddress:  models.ShippingAddress{Street: "1 Kairaba Ave", City: "Serrekunda"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 340.0, order.Total)

	// Ordered products are dropped from the server cart.
	h.cart.Sync(ctx)
	assert.Empty(t, h.cart.Items())

	// Stock went down.
	mango, err = h.client.Product(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 118, mango.Stock)

	orders, err := h.client.Orders(ctx, api.OrdersParams{})
	require.NoError(t, err)
	require.Len(t, orders, 1)

	require.NoError(t, h.client.CancelOrder(ctx, order.ID))
	cancelled, err := h.client.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	// Cancel restores stock.
	mango, err = h.client.Product(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 120, mango.Stock)
}

func TestCatalogEndpoints(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	products, err := h.client.Products(ctx, api.ProductsParams{})
	require.NoError(t, err)
	assert.Len(t, products, 3)

	filtered, err := h.client.Products(ctx, api.ProductsParams{Search: "mango"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Mangoes (1kg)", filtered[0].Name)

	produce, err := h.client.Products(ctx, api.ProductsParams{CategoryID: "1"})
	require.NoError(t, err)
	assert.Len(t, produce, 2)

	cheap, err := h.client.Products(ctx, api.ProductsParams{MaxPrice: 100})
	require.NoError(t, err)
	assert.Len(t, cheap, 2)

	categories, err := h.client.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	vendors, err := h.client.Vendors(ctx, api.VendorsParams{})
	require.NoError(t, err)
	assert.Len(t, vendors, 2)

	vendor, err := h.client.Vendor(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Serrekunda Crafts", vendor.Name)
}
