// Package cart implements the shopping cart store. It keeps the in-memory
// line item list consistent across two persistence modes: a guest cart held
// only in the local cache, and an authenticated cart owned by the remote API
// with the local cache as a stale-read mirror.
//
// Mutations are optimistic: when the remote write fails the intent is still
// applied locally so the cart keeps reflecting what the user asked for, and
// the failure is surfaced both on Err and to the caller.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"marche/models"
)

// User-facing messages surfaced on Err. Kept stable because UI layers match
// on them.
const (
	msgLoginToAdd    = "Please log in to add items to cart"
	msgOnlyCustomers = "Only customers can add items to the cart"
	msgLoginToSync   = "Please log in to sync your cart"
	msgLoginToAccess = "Please log in to access your cart"
	msgLoginToModify = "Please log in to modify your cart"
	msgLoginToUpdate = "Please log in to update cart quantities"
	msgLoginToClear  = "Please log in to clear your cart"
	msgLoadFailed    = "Failed to load cart from server"
	msgLoadLocal     = "Failed to load cart"
	msgCacheCorrupt  = "Error loading cart data"
	msgAddFailed     = "Failed to add item to cart"
	msgRemoveFailed  = "Failed to remove item from cart"
	msgUpdateFailed  = "Failed to update quantity"
	msgClearFailed   = "Failed to clear cart"
)

// Store is the single authority for the cart's in-memory state.
//
// Operations are serialized end to end (remote call included) behind opMu,
// which closes the lost-update window between concurrent mutations and
// guarantees a mode reload finishes before the next mutation is accepted.
// State reads take their own lock so Items and Loading stay observable while
// an operation is in flight.
//
// A guest cart is not merged into the server cart on login; the remote cart
// replaces client state. That matches the product behavior as shipped.
type Store struct {
	gateway Gateway
	cache   Cache
	auth    AuthState

	opMu sync.Mutex

	mu      sync.RWMutex
	items   []models.CartItem
	open    bool
	loading bool
	lastErr string
	gen     uint64
}

// New wires a store to its collaborators. Call Reload once the initial
// authentication check has resolved.
func New(gateway Gateway, cache Cache, auth AuthState) *Store {
	return &Store{
		gateway: gateway,
		cache:   cache,
		auth:    auth,
		items:   []models.CartItem{},
	}
}

// ----------------------------
// Lifecycle
// ----------------------------

// Reload performs the mode-appropriate full load: the remote cart when
// authenticated, the cached guest cart otherwise.
func (s *Store) Reload(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.bumpGeneration()
	if s.auth.IsAuthenticated() {
		s.loadFromAPI(ctx)
	} else {
		s.loadFromCache()
	}
}

// LoginCompleted implements the auth listener: the server cart replaces any
// client-held state.
func (s *Store) LoginCompleted(_ *models.User) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.bumpGeneration()
	s.loadFromAPI(context.Background())
}

// LogoutCompleted implements the auth listener: state and the durable cart
// entry are dropped, so nothing leaks into the next anonymous session.
func (s *Store) LogoutCompleted() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.bumpGeneration()
	s.setItems([]models.CartItem{})
	s.cache.Delete(CacheKey)
	s.setErr(msgLoginToAccess)
}

// Sync re-fetches the server cart. No-op for guests.
func (s *Store) Sync(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if !s.auth.IsAuthenticated() {
		return
	}
	s.loadFromAPI(ctx)
}

// loadFromCache reads the guest cart. Absence and corruption are degraded
// states, not failures: the result is an empty cart plus an informational
// message.
func (s *Store) loadFromCache() {
	raw, ok := s.cache.Get(CacheKey)
	if !ok {
		s.setItems([]models.CartItem{})
		if s.auth.IsAuthenticated() {
			s.setErr(msgLoadLocal)
		} else {
			s.setErr(msgLoginToSync)
		}
		return
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.setItems([]models.CartItem{})
		s.setErr(msgCacheCorrupt)
		return
	}
	s.setItems(items)
	s.setErr("")
}

// loadFromAPI fetches the authoritative cart. On failure the stale mirror is
// displayed instead of an empty cart, but the failure stays on Err. The load
// is tagged with the current generation; a result that arrives after another
// mode transition is discarded.
func (s *Store) loadFromAPI(ctx context.Context) {
	gen := s.generation()
	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	raw, err := s.gateway.FetchCart(ctx)
	if gen != s.generation() {
		// Superseded by a login/logout transition while in flight.
		return
	}

	if err == nil {
		items := NormalizeCartPayload(raw)
		s.setItems(items)
		s.mirror(items)
		s.setErr("")
		return
	}

	if isUnauthorized(err) {
		s.setErr(msgLoginToAccess)
	} else {
		s.setErr(msgLoadFailed)
	}
	if cached, ok := s.readCachedItems(); ok {
		s.setItems(cached)
	} else {
		s.setItems([]models.CartItem{})
	}
}

// ----------------------------
// Mutations
// ----------------------------

// AddItem adds quantity units of product to the cart. Only authenticated
// customers may add; a violation sets Err and returns ErrAuthRequired or
// ErrNotCustomer without touching network or local state.
//
// When the remote write fails, the add is still applied locally under a
// provisional id and the returned error wraps ErrUnconfirmed.
func (s *Store) AddItem(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if !s.auth.IsAuthenticated() {
		s.setErr(msgLoginToAdd)
		return ErrAuthRequired
	}
	if u := s.auth.CurrentUser(); u == nil || u.Role != models.RoleCustomer {
		s.setErr(msgOnlyCustomers)
		return ErrNotCustomer
	}

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	raw, err := s.gateway.AddItem(ctx, product.ID, quantity)
	if err == nil {
		confirmedID, confirmedQty := extractAddedItem(raw)
		s.mergeAdd(product, quantity, confirmedID, confirmedQty, "server")
		return nil
	}

	// Preserve the intent locally even though the server write failed.
	s.mergeAdd(product, quantity, "", 0, "local")
	if isUnauthorized(err) {
		s.setErr(msgLoginToAdd)
	} else {
		s.setErr(remoteMessage(err, msgAddFailed))
	}
	return fmt.Errorf("%w: %w", ErrUnconfirmed, err)
}

// RemoveItem removes a line item. Removal is applied locally whether or not
// the remote call succeeds; a failure is recorded on Err only. Removing an
// unknown id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if !s.auth.IsAuthenticated() {
		s.setErr(msgLoginToModify)
		return nil
	}
	return s.removeItem(ctx, itemID)
}

func (s *Store) removeItem(ctx context.Context, itemID string) error {
	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	err := s.gateway.RemoveItem(ctx, itemID)

	items := s.copyItems()
	kept := items[:0]
	for _, it := range items {
		if it.ID != itemID {
			kept = append(kept, it)
		}
	}
	s.setItems(kept)
	s.mirror(kept)

	if err != nil {
		s.setErr(msgRemoveFailed)
	}
	return nil
}

// UpdateQuantity sets the quantity of a line item. A quantity of zero or
// below is removal, never a zero-quantity row. Like RemoveItem, the change
// is applied locally regardless of the remote outcome.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if !s.auth.IsAuthenticated() {
		s.setErr(msgLoginToUpdate)
		return nil
	}
	if quantity <= 0 {
		return s.removeItem(ctx, itemID)
	}

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	err := s.gateway.UpdateItem(ctx, itemID, quantity)

	items := s.copyItems()
	kept := items[:0]
	for _, it := range items {
		if it.ID == itemID {
			it.Quantity = quantity
		}
		if it.Quantity > 0 {
			kept = append(kept, it)
		}
	}
	s.setItems(kept)
	s.mirror(kept)

	if err != nil {
		s.setErr(msgUpdateFailed)
	}
	return nil
}

// Clear empties the cart. Local state and the durable entry are cleared even
// if the remote call fails.
func (s *Store) Clear(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if !s.auth.IsAuthenticated() {
		s.setErr(msgLoginToClear)
		return nil
	}

	s.setLoading(true)
	defer s.setLoading(false)
	s.setErr("")

	err := s.gateway.ClearCart(ctx)

	s.setItems([]models.CartItem{})
	s.cache.Delete(CacheKey)

	if err != nil {
		s.setErr(msgClearFailed)
	}
	return nil
}

// Toggle flips the cart drawer visibility. Pure UI state, never persisted.
func (s *Store) Toggle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
}

// mergeAdd folds an add into the line item list: an existing line for the
// product gains quantity (and adopts the server-confirmed id when present),
// otherwise a new line is appended. idPrefix names the provisional id kind
// used when the server did not supply one.
func (s *Store) mergeAdd(product models.Product, quantity int, confirmedID string, confirmedQty int, idPrefix string) {
	items := s.copyItems()

	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			if confirmedID != "" {
				items[i].ID = confirmedID
			}
			s.setItems(items)
			s.mirror(items)
			return
		}
	}

	id := confirmedID
	if id == "" {
		id = provisionalID(idPrefix, product.ID)
	}
	qty := quantity
	if confirmedQty > 0 {
		qty = confirmedQty
	}
	items = append(items, models.CartItem{
		ID:       id,
		Product:  snapshotProduct(product),
		Quantity: qty,
	})
	s.setItems(items)
	s.mirror(items)
}

// ----------------------------
// Derived values and accessors
// ----------------------------

// Items returns a copy of the current line items.
func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the sum of price times quantity over all lines. It is recomputed
// on every call, never stored, so it cannot drift from the items.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := decimal.Zero
	for _, it := range s.items {
		line := decimal.NewFromFloat(it.Product.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	f, _ := sum.Float64()
	return f
}

// ItemCount is the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// IsOpen reports the cart drawer visibility.
func (s *Store) IsOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.open
}

// Loading reports whether a remote operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err is the last operation error message, empty after a success.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// RequiresAuth reports whether the store is in guest mode.
func (s *Store) RequiresAuth() bool {
	return !s.auth.IsAuthenticated()
}

// ----------------------------
// Internals
// ----------------------------

func (s *Store) setItems(items []models.CartItem) {
	if items == nil {
		items = []models.CartItem{}
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

func (s *Store) copyItems() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *Store) bumpGeneration() {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
}

func (s *Store) generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// mirror writes the line items to the local cache. Best effort: a cache
// write failure never fails the operation.
func (s *Store) mirror(items []models.CartItem) {
	b, err := json.Marshal(items)
	if err != nil {
		return
	}
	s.cache.Set(CacheKey, string(b))
}

func (s *Store) readCachedItems() ([]models.CartItem, bool) {
	raw, ok := s.cache.Get(CacheKey)
	if !ok {
		return nil, false
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false
	}
	return items, true
}

// provisionalID synthesizes a line item id when the server has not supplied
// one, keeping the product id visible for debugging.
func provisionalID(prefix, productID string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), productID)
}

// snapshotProduct copies product data into the cart line, filling the same
// defaults the normalizer uses so a sparse product never produces a
// half-initialized snapshot.
func snapshotProduct(p models.Product) models.Product {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Vendor.ID == "" && p.Vendor.Name == "" {
		p.Vendor = models.Vendor{ID: "0", Name: "Unknown Vendor"}
	}
	if p.Category.ID == "" && p.Category.Name == "" {
		p.Category = models.Category{ID: "0", Name: "Uncategorized", IsActive: true}
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return p
}
