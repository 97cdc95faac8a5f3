package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"marche/models"
)

// ProductsParams filters a product listing. Zero values are omitted from the
// query string.
type ProductsParams struct {
	Page       int
	Search     string
	CategoryID string
	VendorID   string
	MinPrice   float64
	MaxPrice   float64
	SortBy     string
}

func (p ProductsParams) encode() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.CategoryID != "" {
		q.Set("category_id", p.CategoryID)
	}
	if p.VendorID != "" {
		q.Set("vendor_id", p.VendorID)
	}
	if p.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(p.MinPrice, 'f', -1, 64))
	}
	if p.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(p.MaxPrice, 'f', -1, 64))
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Products lists active products matching the filters.
func (c *Client) Products(ctx context.Context, params ProductsParams) ([]models.Product, error) {
	raw, err := c.get(ctx, "/products"+params.encode())
	if err != nil {
		return nil, err
	}
	var payload struct {
		Products []models.Product `json:"products"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Products, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, productID string) (*models.Product, error) {
	raw, err := c.get(ctx, "/products/"+productID)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Product models.Product `json:"product"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload.Product, nil
}

// Categories lists the browsing categories.
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	raw, err := c.get(ctx, "/categories")
	if err != nil {
		return nil, err
	}
	var payload struct {
		Categories []models.Category `json:"categories"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Categories, nil
}
