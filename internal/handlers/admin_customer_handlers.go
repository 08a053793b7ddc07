package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Customers ---
//

type customerOrder struct {
	ID          int64     `json:"id"`
	DisplayID   string    `json:"displayId"`
	OrderCode   string    `json:"orderCode"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

type customerView struct {
	ID         int64           `json:"id"`
	Email      string          `json:"email"`
	FullName   *string         `json:"fullName"`
	Phone      *string         `json:"phone"`
	JoinedAt   time.Time       `json:"joinedAt"`
	OrderCount int             `json:"orderCount"`
	TotalSpent float64         `json:"totalSpent"`
	Orders     []customerOrder `json:"orders"`
}

// round2 rounds to two decimal places for money totals shown in the
// back-office.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetAllCustomers is the handler for GET /api/admin/customers
// Every USER account is listed, with their orders nested and a cancelled-
// exclusive spend total.
func (h *Handlers) GetAllCustomers(c *gin.Context) {
	// 1. --- Fetch the Customer Accounts ---
	rows, err := h.DB.Query(`
		SELECT id, email, full_name, phone, created_at
		FROM users
		WHERE role = ?
		ORDER BY created_at DESC`, models.RoleUser)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch customers"})
		return
	}
	defer rows.Close()

	customers := []*customerView{}
	byID := map[int64]*customerView{}
	var ids []int64

	for rows.Next() {
		var cu customerView
		if err := rows.Scan(&cu.ID, &cu.Email, &cu.FullName, &cu.Phone, &cu.JoinedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan customer"})
			return
		}
		cu.Orders = []customerOrder{}
		customers = append(customers, &cu)
		byID[cu.ID] = &cu
		ids = append(ids, cu.ID)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error iterating customers"})
		return
	}

	if len(customers) == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": customers})
		return
	}

	// 2. --- Batch-Fetch Their Orders ---
	orderRows, err := h.DB.Query(`
		SELECT user_id, id, order_code, status, total_amount, created_at
		FROM orders
		WHERE user_id IN (`+placeholders(len(ids))+`)
		ORDER BY created_at DESC`, int64Args(ids)...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}
	defer orderRows.Close()

	for orderRows.Next() {
		var userID int64
		var o customerOrder
		var status models.OrderStatus
		if err := orderRows.Scan(&userID, &o.ID, &o.OrderCode, &status, &o.TotalAmount, &o.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan order"})
			return
		}
		o.DisplayID = orderDisplayID(o.ID)
		o.Status = status.Lower()

		cu, ok := byID[userID]
		if !ok {
			continue
		}
		cu.Orders = append(cu.Orders, o)
		cu.OrderCount++
		if status != models.StatusCancelled {
			cu.TotalSpent += o.TotalAmount
		}
	}

	for _, cu := range customers {
		cu.TotalSpent = round2(cu.TotalSpent)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": customers})
}
