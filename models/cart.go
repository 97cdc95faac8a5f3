package models

// CartItem represents an item in the shopping cart.
//
// Product is a snapshot of the product data at the time the item was added.
// Later price or stock changes on the server do not alter it.
type CartItem struct {
	ID       string  `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartItemInput holds data for adding/updating cart items
type CartItemInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}
