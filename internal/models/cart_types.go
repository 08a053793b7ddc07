package models

import "time"

// Cart is the model for the 'carts' table.
// One cart per user (unique user_id); created lazily, emptied on checkout,
// never deleted.
type Cart struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItem is the model for the 'cart_items' table.
// (cart_id, product_id) is unique. No price column: cart lines always price
// against the live product record.
type CartItem struct {
	ID        int64 `json:"id" db:"id"`
	CartID    int64 `json:"cartId" db:"cart_id"`
	ProductID int64 `json:"productId" db:"product_id"`
	Quantity  int   `json:"quantity" db:"quantity"`
}

// CartLine is a cart item joined with its live product, as returned to the
// client. Price here is the product's current price, not a snapshot.
type CartLine struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}
