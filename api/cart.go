package api

import (
	"context"
	"encoding/json"

	"marche/models"
)

// The cart endpoints back the cart store's Gateway interface. The read paths
// return raw bodies on purpose: the response shape is not guaranteed and the
// cart package normalizes it defensively.

// FetchCart retrieves the authenticated user's cart.
func (c *Client) FetchCart(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/orders/cart")
}

// AddItem adds a product to the cart and returns the raw response, which may
// carry the server-assigned line item id.
func (c *Client) AddItem(ctx context.Context, productID string, quantity int) (json.RawMessage, error) {
	return c.post(ctx, "/orders/cart/add", models.CartItemInput{
		ProductID: productID,
		Quantity:  quantity,
	})
}

// UpdateItem sets the quantity of a cart line item.
func (c *Client) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	payload := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}
	_, err := c.put(ctx, "/orders/cart/"+itemID, payload)
	return err
}

// RemoveItem deletes a cart line item.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	_, err := c.delete(ctx, "/orders/cart/"+itemID)
	return err
}

// ClearCart removes every item from the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	_, err := c.delete(ctx, "/orders/cart/clear")
	return err
}
