package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"marche/models"
)

// VendorsParams filters the vendor listing.
type VendorsParams struct {
	Page   int
	Search string
}

func (p VendorsParams) encode() string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// Vendors lists approved vendors.
func (c *Client) Vendors(ctx context.Context, params VendorsParams) ([]models.Vendor, error) {
	raw, err := c.get(ctx, "/vendors"+params.encode())
	if err != nil {
		return nil, err
	}
	var payload struct {
		Vendors []models.Vendor `json:"vendors"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return payload.Vendors, nil
}

// Vendor fetches a single vendor by id.
func (c *Client) Vendor(ctx context.Context, vendorID string) (*models.Vendor, error) {
	raw, err := c.get(ctx, "/vendors/"+vendorID)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Vendor models.Vendor `json:"vendor"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload.Vendor, nil
}
