package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"marche/models"
)

// OrdersParams filters the order history listing.
type OrdersParams struct {
	Page   int
	Status string
	SortBy string
}

func (p OrdersParams) encode() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// CreateOrder places an order for the given items.
func (c *Client) CreateOrder(ctx context.Context, input models.OrderInput) (*models.Order, error) {
	raw, err := c.post(ctx, "/orders", input)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload.Order, nil
}

// Orders lists the authenticated user's order history.
func (c *Client) Orders(ctx context.Context, params OrdersParams) ([]models.Order, error) {
	raw, err := c.get(ctx, "/orders"+params.encode())
	if err != nil {
		return nil, err
	}
	var payload struct {
		Orders []models.Order `json:"orders"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Orders, nil
}

// Order fetches a single order by id.
func (c *Client) Order(ctx context.Context, orderID string) (*models.Order, error) {
	raw, err := c.get(ctx, "/orders/"+orderID)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Order models.Order `json:"order"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload.Order, nil
}

// CancelOrder cancels an unpaid order.
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	_, err := c.put(ctx, "/orders/"+orderID+"/cancel", struct{}{})
	return err
}
