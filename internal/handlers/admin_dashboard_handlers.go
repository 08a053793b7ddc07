package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Admin: Dashboard ---
//

// CalculateChange returns the percentage change from previous to current,
// rounded to one decimal. A zero baseline reports 100 when anything grew
// and 0 when nothing did, so a brand-new store never divides by zero.
func CalculateChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := (current - previous) / previous * 100
	return math.Round(change*10) / 10
}

// monthWindow returns the half-open [start, end) range of the month that
// contains t, in t's location.
func monthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// GetDashboardStats is the handler for GET /api/admin/dashboard/stats
// Each headline number is paired with its change versus the previous month.
// Cancelled orders never count toward revenue.
func (h *Handlers) GetDashboardStats(c *gin.Context) {
	now := time.Now()
	curStart, curEnd := monthWindow(now)
	prevStart, _ := monthWindow(curStart.AddDate(0, 0, -1))

	type monthStats struct {
		Revenue   float64
		Orders    int
		Customers int
	}
	var cur, prev monthStats

	statQuery := `
		SELECT COALESCE(SUM(total_amount), 0), COUNT(*), COUNT(DISTINCT user_id)
		FROM orders
		WHERE status <> ? AND created_at >= ? AND created_at < ?`

	err := h.DB.QueryRow(statQuery, models.StatusCancelled, curStart, curEnd).
		Scan(&cur.Revenue, &cur.Orders, &cur.Customers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute current month stats"})
		return
	}
	err = h.DB.QueryRow(statQuery, models.StatusCancelled, prevStart, curStart).
		Scan(&prev.Revenue, &prev.Orders, &prev.Customers)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to compute previous month stats"})
		return
	}

	var productCount int
	if err := h.DB.QueryRow("SELECT COUNT(*) FROM products WHERE is_active = TRUE").Scan(&productCount); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"revenue": gin.H{
				"value":  round2(cur.Revenue),
				"change": CalculateChange(cur.Revenue, prev.Revenue),
			},
			"orders": gin.H{
				"value":  cur.Orders,
				"change": CalculateChange(float64(cur.Orders), float64(prev.Orders)),
			},
			"customers": gin.H{
				"value":  cur.Customers,
				"change": CalculateChange(float64(cur.Customers), float64(prev.Customers)),
			},
			"activeProducts": productCount,
		},
	})
}

// GetMonthlyRevenue is the handler for GET /api/admin/dashboard/revenue
// Twelve buckets ending at the current month; months with no sales report 0.
func (h *Handlers) GetMonthlyRevenue(c *gin.Context) {
	now := time.Now()
	windowStart, _ := monthWindow(now.AddDate(0, -11, 0))

	rows, err := h.DB.Query(`
		SELECT DATE_FORMAT(created_at, '%Y-%m') AS bucket, COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE status <> ? AND created_at >= ?
		GROUP BY bucket`, models.StatusCancelled, windowStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch revenue"})
		return
	}
	defer rows.Close()

	totals := map[string]float64{}
	for rows.Next() {
		var bucket string
		var total float64
		if err := rows.Scan(&bucket, &total); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan revenue bucket"})
			return
		}
		totals[bucket] = total
	}

	type monthPoint struct {
		Month   string  `json:"month"`
		Revenue float64 `json:"revenue"`
	}
	points := make([]monthPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		key := m.Format("2006-01")
		points = append(points, monthPoint{Month: key, Revenue: round2(totals[key])})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

// GetCategoryRevenue is the handler for GET /api/admin/dashboard/categories
// Current month only. A single grouped join over the item snapshots; products
// in several categories count toward each.
func (h *Handlers) GetCategoryRevenue(c *gin.Context) {
	curStart, curEnd := monthWindow(time.Now())

	rows, err := h.DB.Query(`
		SELECT c.name, COALESCE(SUM(oi.price * oi.quantity), 0) AS revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN product_categories pc ON pc.product_id = oi.product_id
		JOIN categories c ON c.id = pc.category_id
		WHERE o.status <> ? AND o.created_at >= ? AND o.created_at < ?
		GROUP BY c.id, c.name
		ORDER BY revenue DESC`, models.StatusCancelled, curStart, curEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch category revenue"})
		return
	}
	defer rows.Close()

	type categoryPoint struct {
		Category string  `json:"category"`
		Revenue  float64 `json:"revenue"`
	}
	points := []categoryPoint{}
	for rows.Next() {
		var p categoryPoint
		if err := rows.Scan(&p.Category, &p.Revenue); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan category revenue"})
			return
		}
		p.Revenue = round2(p.Revenue)
		points = append(points, p)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

// GetBestSellers is the handler for GET /api/admin/dashboard/best-sellers
// Top five products by units sold this month, each with its change versus
// last month's units.
func (h *Handlers) GetBestSellers(c *gin.Context) {
	now := time.Now()
	curStart, curEnd := monthWindow(now)
	prevStart, _ := monthWindow(curStart.AddDate(0, 0, -1))

	rows, err := h.DB.Query(`
		SELECT oi.product_id, oi.product_name, SUM(oi.quantity) AS units
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.status <> ? AND o.created_at >= ? AND o.created_at < ?
		GROUP BY oi.product_id, oi.product_name
		ORDER BY units DESC
		LIMIT 5`, models.StatusCancelled, curStart, curEnd)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch best sellers"})
		return
	}
	defer rows.Close()

	type bestSeller struct {
		ProductID   int64   `json:"productId"`
		ProductName string  `json:"productName"`
		Units       int     `json:"units"`
		Change      float64 `json:"change"`
	}
	sellers := []bestSeller{}
	var productIDs []int64

	for rows.Next() {
		var s bestSeller
		if err := rows.Scan(&s.ProductID, &s.ProductName, &s.Units); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan best seller"})
			return
		}
		sellers = append(sellers, s)
		productIDs = append(productIDs, s.ProductID)
	}
	rows.Close()

	if len(sellers) > 0 {
		prevRows, err := h.DB.Query(`
			SELECT oi.product_id, SUM(oi.quantity)
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.status <> ? AND o.created_at >= ? AND o.created_at < ?
			  AND oi.product_id IN (`+placeholders(len(productIDs))+`)
			GROUP BY oi.product_id`,
			append([]interface{}{models.StatusCancelled, prevStart, curStart}, int64Args(productIDs)...)...)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch prior month sales"})
			return
		}
		defer prevRows.Close()

		prevUnits := map[int64]int{}
		for prevRows.Next() {
			var id int64
			var units int
			if err := prevRows.Scan(&id, &units); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan prior month sales"})
				return
			}
			prevUnits[id] = units
		}

		for i := range sellers {
			sellers[i].Change = CalculateChange(float64(sellers[i].Units), float64(prevUnits[sellers[i].ProductID]))
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": sellers})
}
