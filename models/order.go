package models

import (
	"time"
)

// Order statuses as reported by the API.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// ShippingAddress is the delivery destination carried inline on an order.
type ShippingAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Region string `json:"region"`
	Phone  string `json:"phone"`
}

// Order represents a placed order.
type Order struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Items            []CartItem      `json:"items"`
	Total            float64         `json:"total"`
	Status           string          `json:"status"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	ShippingAddress  ShippingAddress `json:"shipping_address"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// OrderItemInput identifies one product line when placing an order.
type OrderItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// OrderInput holds data needed to place an order.
type OrderInput struct {
	Items            []OrderItemInput `json:"items"`
	PaymentMethod    string           `json:"payment_method"`
	PaymentReference string           `json:"payment_reference,omitempty"`
	ShippingAddress  ShippingAddress  `json:"shipping_address"`
	Notes            string           `json:"notes,omitempty"`
}
