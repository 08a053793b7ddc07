package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Discount Vouchers ---
//

// GetAllVouchers is the handler for GET /api/admin/discounts
func (h *Handlers) GetAllVouchers(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT id, code, description, value, stock, start_date, end_date, is_active
		FROM vouchers
		ORDER BY end_date DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch vouchers"})
		return
	}
	defer rows.Close()

	vouchers := []models.Voucher{}
	for rows.Next() {
		var v models.Voucher
		if err := rows.Scan(&v.ID, &v.Code, &v.Description, &v.Value, &v.Stock,
			&v.StartDate, &v.EndDate, &v.IsActive); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan voucher"})
			return
		}
		vouchers = append(vouchers, v)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": vouchers})
}

// VoucherInput defines the JSON for creating or replacing a voucher.
type VoucherInput struct {
	Code        string    `json:"code" binding:"required"`
	Description string    `json:"description"`
	Value       float64   `json:"percentOff" binding:"required,gt=0,lte=100"`
	Stock       int       `json:"available-stock" binding:"gte=0"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	EndDate     time.Time `json:"endDate" binding:"required"`
	IsActive    *bool     `json:"active"`
}

// CreateVoucher is the handler for POST /api/admin/discounts
// Codes are stored uppercase; a duplicate code is a conflict, not an error.
func (h *Handlers) CreateVoucher(c *gin.Context) {
	var input VoucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "code, a percentOff in (0,100] and a date window are required"})
		return
	}
	if !input.EndDate.After(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "endDate must be after startDate"})
		return
	}

	v := models.Voucher{
		Code:        strings.ToUpper(strings.TrimSpace(input.Code)),
		Description: input.Description,
		Value:       input.Value,
		Stock:       input.Stock,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		IsActive:    true,
	}
	if input.IsActive != nil {
		v.IsActive = *input.IsActive
	}

	result, err := h.DB.Exec(`
		INSERT INTO vouchers (code, description, value, stock, start_date, end_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		v.Code, v.Description, v.Value, v.Stock, v.StartDate, v.EndDate, v.IsActive)
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A voucher with this code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create voucher"})
		return
	}
	v.ID, _ = result.LastInsertId()

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Voucher created", "data": v})
}

// UpdateVoucher is the handler for PUT /api/admin/discounts/:id
func (h *Handlers) UpdateVoucher(c *gin.Context) {
	voucherID := c.Param("id")

	var input VoucherInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "code, a percentOff in (0,100] and a date window are required"})
		return
	}
	if !input.EndDate.After(input.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "endDate must be after startDate"})
		return
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	result, err := h.DB.Exec(`
		UPDATE vouchers
		SET code = ?, description = ?, value = ?, stock = ?, start_date = ?, end_date = ?, is_active = ?
		WHERE id = ?`,
		strings.ToUpper(strings.TrimSpace(input.Code)), input.Description, input.Value,
		input.Stock, input.StartDate, input.EndDate, active, voucherID)
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A voucher with this code already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update voucher"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Voucher not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Voucher updated"})
}

// DeleteVoucher is the handler for DELETE /api/admin/discounts/:id
func (h *Handlers) DeleteVoucher(c *gin.Context) {
	voucherID := c.Param("id")

	result, err := h.DB.Exec("DELETE FROM vouchers WHERE id = ?", voucherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete voucher"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Voucher not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Voucher deleted"})
}
