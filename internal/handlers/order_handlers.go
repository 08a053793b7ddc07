package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Checkout Pipeline ---
//

// checkoutLine is one cart line resolved against the live product inside the
// checkout transaction. Price is the authoritative unit price at this instant;
// client-supplied prices are never consulted.
type checkoutLine struct {
	ProductID   int64
	ProductName string
	Price       float64
	Quantity    int
}

// NewOrderCode generates the human-legible order code. Millisecond timestamps
// are distinguishing enough for a single-writer checkout path; the column's
// unique index backstops a collision.
func NewOrderCode(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixMilli())
}

// errEmptyCart aborts a checkout with nothing to buy.
var errEmptyCart = errors.New("cart is empty")

// buildOrderItems turns the locked cart lines into order-item snapshots and
// the order total. Total is always Σ(snapshot price × quantity); an empty
// cart is an error, never a zero-total order.
func buildOrderItems(lines []checkoutLine) (float64, []models.OrderItem, error) {
	if len(lines) == 0 {
		return 0, nil, errEmptyCart
	}

	var total float64
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		total += line.Price * float64(line.Quantity)
		items = append(items, models.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}
	return total, items, nil
}

// contactOrDefault fills a contact field by priority: explicit request value,
// then the user's profile value, then a fixed default.
func contactOrDefault(requested string, profile *string, fallback string) string {
	if requested != "" {
		return requested
	}
	if profile != nil && *profile != "" {
		return *profile
	}
	return fallback
}

// CheckoutInput defines the JSON for POST /api/orders/checkout.
type CheckoutInput struct {
	ShippingAddress string `json:"shippingAddress" binding:"required"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
}

// Checkout is the handler for POST /api/orders/checkout
// The atomic phase (load cart, snapshot prices, create order, clear cart) runs
// in one transaction; the confirmation email is dispatched after commit and
// its outcome is discarded by contract.
func (h *Handlers) Checkout(c *gin.Context) {
	userID := c.GetInt64("userID")

	// 1. --- Bind & Validate JSON ---
	var input CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "shippingAddress is required"})
		return
	}

	// 2. --- Begin Transaction ---
	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to start transaction"})
		return
	}
	defer tx.Rollback() // Safety net

	// 3. --- Load User Profile (contact fallbacks + email) ---
	var (
		userEmail string
		userName  *string
		userPhone *string
	)
	err = tx.QueryRow("SELECT email, full_name, phone FROM users WHERE id = ?", userID).
		Scan(&userEmail, &userName, &userPhone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load user"})
		return
	}

	// 4. --- Load Cart & Items, Locking the Product Rows ---
	var cartID int64
	err = tx.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Your cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to find cart"})
		return
	}

	rows, err := tx.Query(`
		SELECT ci.product_id, p.name, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ?
		FOR UPDATE`, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load cart items"})
		return
	}
	defer rows.Close()

	var lines []checkoutLine
	for rows.Next() {
		var line checkoutLine
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.Price, &line.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan cart item"})
			return
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error iterating cart items"})
		return
	}
	rows.Close()

	totalAmount, items, err := buildOrderItems(lines)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Your cart is empty"})
		return
	}

	// 5. --- Create the Order ---
	now := time.Now()
	order := models.Order{
		UserID:          userID,
		OrderCode:       NewOrderCode(now),
		Status:          models.StatusPending,
		TotalAmount:     totalAmount,
		ShippingAddress: input.ShippingAddress,
		CustomerName:    contactOrDefault(input.CustomerName, userName, "Customer"),
		CustomerPhone:   contactOrDefault(input.CustomerPhone, userPhone, ""),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	result, err := tx.Exec(`
		INSERT INTO orders (user_id, order_code, status, total_amount, shipping_address, customer_name, customer_phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.OrderCode, order.Status, order.TotalAmount,
		order.ShippingAddress, order.CustomerName, order.CustomerPhone,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create order"})
		return
	}
	order.ID, err = result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to get new order ID"})
		return
	}

	// 6. --- Snapshot the Items ---
	for i := range items {
		items[i].OrderID = order.ID
		res, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			order.ID, items[i].ProductID, items[i].ProductName, items[i].Price, items[i].Quantity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save order item"})
			return
		}
		items[i].ID, _ = res.LastInsertId()
	}

	// 7. --- Empty the Cart (the row itself persists) ---
	if _, err := tx.Exec("DELETE FROM cart_items WHERE cart_id = ?", cartID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
		return
	}

	// 8. --- Commit ---
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to commit transaction"})
		return
	}

	// 9. --- Fire-and-Forget Confirmation Email ---
	// Dispatched and detached: the result never affects the response, and a
	// delivery failure is logged inside the sender, not propagated.
	go func(to, code string, total float64) {
		_ = h.Mailer.SendOrderConfirmation(to, code, total)
	}(userEmail, order.OrderCode, order.TotalAmount)

	// 10. --- Respond with the Created Order ---
	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully",
		"data": gin.H{
			"id":              order.ID,
			"orderCode":       order.OrderCode,
			"status":          order.Status,
			"totalAmount":     order.TotalAmount,
			"shippingAddress": order.ShippingAddress,
			"customerName":    order.CustomerName,
			"customerPhone":   order.CustomerPhone,
			"createdAt":       order.CreatedAt,
			"items":           items,
		},
	})
}

//
// --- Order Retrieval ---
//

// GetMyOrders is the handler for GET /api/orders
func (h *Handlers) GetMyOrders(c *gin.Context) {
	userID := c.GetInt64("userID")

	rows, err := h.DB.Query(`
		SELECT id, user_id, order_code, status, total_amount, shipping_address, customer_name, customer_phone, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderCode, &o.Status, &o.TotalAmount,
			&o.ShippingAddress, &o.CustomerName, &o.CustomerPhone, &o.CreatedAt, &o.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan order"})
			return
		}
		orders = append(orders, o)
	}

	c.JSON(http.StatusOK, gin.H{"data": orders})
}

// GetOrderDetails is the handler for GET /api/orders/:id
// Ownership is enforced in the WHERE clause.
func (h *Handlers) GetOrderDetails(c *gin.Context) {
	userID := c.GetInt64("userID")
	orderID := c.Param("id")

	var o models.Order
	err := h.DB.QueryRow(`
		SELECT id, user_id, order_code, status, total_amount, shipping_address, customer_name, customer_phone, created_at, updated_at
		FROM orders
		WHERE id = ? AND user_id = ?`, orderID, userID).
		Scan(&o.ID, &o.UserID, &o.OrderCode, &o.Status, &o.TotalAmount,
			&o.ShippingAddress, &o.CustomerName, &o.CustomerPhone, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, order_id, product_id, product_name, price, quantity
		FROM order_items
		WHERE order_id = ?`, o.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order items"})
		return
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan order item"})
			return
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"order": o, "items": items}})
}
