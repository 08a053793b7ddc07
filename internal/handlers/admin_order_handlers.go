package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Orders ---
//

// adminOrderItem is an order line as the back-office renders it: the stored
// snapshot plus the product's current category names for filtering.
type adminOrderItem struct {
	ID          int64    `json:"id"`
	ProductID   int64    `json:"productId"`
	ProductName string   `json:"productName"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Categories  []string `json:"categories"`
}

type adminOrderView struct {
	ID              int64            `json:"id"`
	DisplayID       string           `json:"displayId"`
	OrderCode       string           `json:"orderCode"`
	Status          string           `json:"status"`
	TotalAmount     float64          `json:"totalAmount"`
	ShippingAddress string           `json:"shippingAddress"`
	CustomerName    string           `json:"customerName"`
	CustomerPhone   string           `json:"customerPhone"`
	CustomerEmail   string           `json:"customerEmail"`
	CreatedAt       time.Time        `json:"createdAt"`
	Items           []adminOrderItem `json:"items"`
}

// orderDisplayID renders the short back-office identifier, e.g. ORD-0042.
func orderDisplayID(id int64) string {
	return fmt.Sprintf("ORD-%04d", id)
}

// GetAllOrders is the handler for GET /api/admin/orders
func (h *Handlers) GetAllOrders(c *gin.Context) {
	// 1. --- Fetch All Orders, Newest First ---
	rows, err := h.DB.Query(`
		SELECT o.id, o.order_code, o.status, o.total_amount, o.shipping_address,
		       o.customer_name, o.customer_phone, u.email, o.created_at
		FROM orders o
		JOIN users u ON o.user_id = u.id
		ORDER BY o.created_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	defer rows.Close()

	orders := []*adminOrderView{}
	byID := map[int64]*adminOrderView{}
	var orderIDs []int64

	for rows.Next() {
		var o adminOrderView
		var status models.OrderStatus
		if err := rows.Scan(&o.ID, &o.OrderCode, &status, &o.TotalAmount, &o.ShippingAddress,
			&o.CustomerName, &o.CustomerPhone, &o.CustomerEmail, &o.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan order"})
			return
		}
		o.DisplayID = orderDisplayID(o.ID)
		o.Status = status.Lower()
		o.Items = []adminOrderItem{}
		orders = append(orders, &o)
		byID[o.ID] = &o
		orderIDs = append(orderIDs, o.ID)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error iterating orders"})
		return
	}

	if len(orders) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
		return
	}

	// 2. --- Batch-Fetch the Items With Category Names ---
	// One query for all orders; categories come back comma-joined so each item
	// stays a single row.
	itemQuery := fmt.Sprintf(`
		SELECT oi.order_id, oi.id, oi.product_id, oi.product_name, oi.price, oi.quantity,
		       COALESCE(GROUP_CONCAT(DISTINCT c.name ORDER BY c.name SEPARATOR ','), '')
		FROM order_items oi
		LEFT JOIN product_categories pc ON pc.product_id = oi.product_id
		LEFT JOIN categories c ON c.id = pc.category_id
		WHERE oi.order_id IN (%s)
		GROUP BY oi.id`, placeholders(len(orderIDs)))

	itemRows, err := h.DB.Query(itemQuery, int64Args(orderIDs)...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch order items"})
		return
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var orderID int64
		var item adminOrderItem
		var categoryCSV string
		if err := itemRows.Scan(&orderID, &item.ID, &item.ProductID, &item.ProductName,
			&item.Price, &item.Quantity, &categoryCSV); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan order item"})
			return
		}
		item.Categories = splitCSV(categoryCSV)
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": orders})
}

// UpdateOrderStatusInput defines the JSON for a status change.
type UpdateOrderStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus is the handler for PUT /api/admin/orders/:id/status
// The transition table is the single authority: an unknown status or a
// disallowed move is rejected and the row is left untouched.
func (h *Handlers) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var input UpdateOrderStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	next, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": fmt.Sprintf("Unknown status %q", input.Status)})
		return
	}

	tx, err := h.DB.BeginTx(c, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	var current models.OrderStatus
	err = tx.QueryRow("SELECT status FROM orders WHERE id = ? FOR UPDATE", orderID).Scan(&current)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load order"})
		return
	}

	if !models.CanTransition(current, next) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("Cannot move order from %s to %s", current.Lower(), next.Lower()),
		})
		return
	}

	if _, err := tx.Exec("UPDATE orders SET status = ?, updated_at = ? WHERE id = ?", next, time.Now(), orderID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to commit"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order status updated",
		"data":    gin.H{"status": next.Lower()},
	})
}
