package models

import (
	"errors"
	"strings"
	"time"
)

// OrderStatus is the enumerated lifecycle of an order.
type OrderStatus string

const (
	StatusPending    OrderStatus = "PENDING"
	StatusProcessing OrderStatus = "PROCESSING"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

// ErrInvalidStatus is returned for a status string outside the enumerated set.
var ErrInvalidStatus = errors.New("invalid order status")

// ErrIllegalTransition is returned when the requested transition is not in the
// transition table (e.g. DELIVERED back to PENDING).
var ErrIllegalTransition = errors.New("illegal status transition")

// transitions is the validated forward-only state machine:
// PENDING -> PROCESSING -> SHIPPED -> DELIVERED, with CANCELLED reachable from
// any non-terminal state. DELIVERED and CANCELLED are terminal.
var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus maps a case-insensitive status string to the enum.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusProcessing:
		return StatusProcessing, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

// CanTransition reports whether moving from -> to is allowed by the table.
// A no-op (from == to) is allowed so repeated admin clicks are harmless.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Lower renders the status the way the admin UI expects it.
func (s OrderStatus) Lower() string {
	return strings.ToLower(string(s))
}

// Order is the model for the 'orders' table. Immutable after creation except
// for Status.
type Order struct {
	ID              int64       `json:"id" db:"id"`
	UserID          int64       `json:"userId" db:"user_id"`
	OrderCode       string      `json:"orderCode" db:"order_code"`
	Status          OrderStatus `json:"status" db:"status"`
	TotalAmount     float64     `json:"totalAmount" db:"total_amount"`
	ShippingAddress string      `json:"shippingAddress" db:"shipping_address"`
	CustomerName    string      `json:"customerName" db:"customer_name"`
	CustomerPhone   string      `json:"customerPhone" db:"customer_phone"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is the model for the 'order_items' table: a frozen snapshot of
// (product, name, unit price, quantity) at purchase time. Later catalog price
// changes never touch these rows.
type OrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"orderId" db:"order_id"`
	ProductID   int64   `json:"productId" db:"product_id"`
	ProductName string  `json:"productName" db:"product_name"`
	Price       float64 `json:"price" db:"price"`
	Quantity    int     `json:"quantity" db:"quantity"`
}
