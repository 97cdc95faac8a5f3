package models

import (
	"time"
)

// Vendor represents a seller storefront.
type Vendor struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Email       string  `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	Status      string  `json:"status,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
}

// Category groups products for browsing.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

// Product represents product data in the system
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Vendor      Vendor    `json:"vendor"`
	Category    Category  `json:"category"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}
