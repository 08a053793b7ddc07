package handlers

import (
	"net/http"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// GetActiveVouchers is the handler for GET /api/vouchers
// Returns only vouchers that are flagged active, inside their date window,
// and still have stock.
func (h *Handlers) GetActiveVouchers(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, code, description, value, stock, start_date, end_date, is_active
		FROM vouchers
		WHERE is_active = TRUE
		  AND stock > 0
		  AND start_date <= NOW()
		  AND end_date >= NOW()
		ORDER BY end_date ASC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch vouchers"})
		return
	}
	defer rows.Close()

	vouchers := []models.Voucher{}
	for rows.Next() {
		var v models.Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.Description, &v.Value, &v.Stock,
			&v.StartDate, &v.EndDate, &v.IsActive); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan voucher"})
			return
		}
		vouchers = append(vouchers, v)
	}

	c.JSON(http.StatusOK, gin.H{"data": vouchers})
}
