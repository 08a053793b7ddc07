package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

//
// --- Catalog (Public) ---
//

// ProductSummary is one list-page entry. Category and Color/Size come from
// the product's categories and its first (representative) variant.
type ProductSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Image         string   `json:"image"`
	Category      []string `json:"category"`
	Sections      []string `json:"sections"`
	Color         string   `json:"color"`
	Size          string   `json:"size"`
}

// GetProducts is the handler for GET /api/products
// Query params: search, category, sort (newest|price-asc|price-desc), page, limit.
func (h *Handlers) GetProducts(c *gin.Context) {
	// 1. --- Parse Filters ---
	search := c.Query("search")
	category := c.Query("category")
	sort := c.Query("sort")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 12
	}

	// 2. --- Build WHERE Clause ---
	where := "WHERE p.is_active = TRUE"
	args := []interface{}{}

	if search != "" {
		where += " AND LOWER(p.name) LIKE ?"
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	if category != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM product_categories pc
			JOIN categories cat ON pc.category_id = cat.id
			WHERE pc.product_id = p.id AND cat.name = ?)`
		args = append(args, category)
	}

	orderBy := "p.created_at DESC"
	switch sort {
	case "price-asc":
		orderBy = "p.price ASC"
	case "price-desc":
		orderBy = "p.price DESC"
	case "newest":
		orderBy = "p.created_at DESC"
	}

	// 3. --- Count for Pagination ---
	var total int
	countQuery := "SELECT COUNT(*) FROM products p " + where
	if err := h.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to count products"})
		return
	}
	meta := NewPagination(total, page, limit)

	// 4. --- Query the Page ---
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.price, p.original_price, p.discount, p.sold, p.thumbnail, p.created_at
		FROM products p
		%s
		ORDER BY %s
		LIMIT ? OFFSET ?`, where, orderBy)
	args = append(args, limit, (page-1)*limit)

	rows, err := h.DB.Query(query, args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to query products"})
		return
	}
	defer rows.Close()

	now := time.Now()
	summaries := []ProductSummary{}
	ids := []int64{}

	for rows.Next() {
		var (
			id        int64
			s         ProductSummary
			discount  float64
			sold      int
			thumbnail sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&id, &s.Name, &s.Price, &s.OriginalPrice, &discount, &sold, &thumbnail, &createdAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan product"})
			return
		}
		s.ID = strconv.FormatInt(id, 10)
		s.Image = thumbnail.String
		s.Category = []string{}
		s.Sections = Sections(createdAt, discount, sold, now)
		s.Color = "Free"
		s.Size = "Free"
		summaries = append(summaries, s)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error iterating products"})
		return
	}

	// 5. --- Inflate Categories & Representative Variant ---
	if len(ids) > 0 {
		if err := h.attachCategories(ids, summaries); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load categories"})
			return
		}
		if err := h.attachVariants(ids, summaries); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to load variants"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       summaries,
		"pagination": meta,
	})
}

// attachCategories fills Category on each summary with one grouped query.
func (h *Handlers) attachCategories(ids []int64, summaries []ProductSummary) error {
	query := `
		SELECT pc.product_id, cat.name
		FROM product_categories pc
		JOIN categories cat ON pc.category_id = cat.id
		WHERE pc.product_id IN (` + placeholders(len(ids)) + `)`

	rows, err := h.DB.Query(query, int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[int64]int, len(ids))
	for i, id := range ids {
		byID[id] = i
	}
	for rows.Next() {
		var productID int64
		var name string
		if err := rows.Scan(&productID, &name); err != nil {
			return err
		}
		i := byID[productID]
		summaries[i].Category = append(summaries[i].Category, name)
	}
	return rows.Err()
}

// attachVariants fills Color/Size from each product's first variant.
func (h *Handlers) attachVariants(ids []int64, summaries []ProductSummary) error {
	query := `
		SELECT product_id, color, size
		FROM product_variants
		WHERE product_id IN (` + placeholders(len(ids)) + `)
		ORDER BY id ASC`

	rows, err := h.DB.Query(query, int64Args(ids)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[int64]int, len(ids))
	for i, id := range ids {
		byID[id] = i
	}
	seen := make(map[int64]bool, len(ids))
	for rows.Next() {
		var productID int64
		var color, size string
		if err := rows.Scan(&productID, &color, &size); err != nil {
			return err
		}
		if seen[productID] {
			continue
		}
		seen[productID] = true
		i := byID[productID]
		summaries[i].Color = color
		summaries[i].Size = size
	}
	return rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func int64Args(ids []int64) []interface{} {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// splitCSV splits a GROUP_CONCAT result, mapping the empty string to an empty
// slice rather than [""].
func splitCSV(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

// VariantDetail is a product variant inflated with its display color code.
type VariantDetail struct {
	ID        int64   `json:"id"`
	Color     string  `json:"color"`
	ColorCode string  `json:"colorCode"`
	Size      string  `json:"size"`
	Stock     int     `json:"stock"`
	Image     *string `json:"image"`
}

// ProductDetail is the single-product response shape.
type ProductDetail struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         float64         `json:"price"`
	OriginalPrice float64         `json:"originalPrice"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"reviewCount"`
	Description   string          `json:"description"`
	Thumbnail     string          `json:"thumbnail"`
	Category      []string        `json:"category"`
	Variants      []VariantDetail `json:"variants"`
}

// GetProductDetail is the handler for GET /api/products/:id
func (h *Handlers) GetProductDetail(c *gin.Context) {
	// 1. --- Validate ID ---
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	// 2. --- Fetch the Product ---
	var (
		detail      ProductDetail
		description sql.NullString
		thumbnail   sql.NullString
	)
	query := `
		SELECT id, name, price, original_price, rating, review_count, description, thumbnail
		FROM products
		WHERE id = ?`
	err = h.DB.QueryRow(query, id).Scan(
		&id, &detail.Name, &detail.Price, &detail.OriginalPrice,
		&detail.Rating, &detail.ReviewCount, &description, &thumbnail,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch product"})
		return
	}
	detail.ID = strconv.FormatInt(id, 10)
	detail.Description = description.String
	detail.Thumbnail = thumbnail.String

	// 3. --- Fetch Categories ---
	catRows, err := h.DB.Query(`
		SELECT cat.name
		FROM product_categories pc
		JOIN categories cat ON pc.category_id = cat.id
		WHERE pc.product_id = ?`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch categories"})
		return
	}
	defer catRows.Close()

	detail.Category = []string{}
	for catRows.Next() {
		var name string
		if err := catRows.Scan(&name); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan category"})
			return
		}
		detail.Category = append(detail.Category, name)
	}

	// 4. --- Fetch Variants (with color codes) ---
	varRows, err := h.DB.Query(`
		SELECT id, color, size, stock, image
		FROM product_variants
		WHERE product_id = ?
		ORDER BY id ASC`, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch variants"})
		return
	}
	defer varRows.Close()

	detail.Variants = []VariantDetail{}
	for varRows.Next() {
		var v VariantDetail
		var image sql.NullString
		if err := varRows.Scan(&v.ID, &v.Color, &v.Size, &v.Stock, &image); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan variant"})
			return
		}
		if image.Valid {
			v.Image = &image.String
		}
		v.ColorCode = ColorCode(v.Color)
		detail.Variants = append(detail.Variants, v)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": detail})
}

//
// --- Product Management (Admin) ---
//

// VariantInput is one variant row on product create/update.
type VariantInput struct {
	Color string  `json:"color" binding:"required"`
	Size  string  `json:"size" binding:"required"`
	Stock int     `json:"stock" binding:"gte=0"`
	Image *string `json:"image"`
}

// CreateProductInput defines the JSON for creating a product.
type CreateProductInput struct {
	Name          string         `json:"name" binding:"required"`
	Description   *string        `json:"description"`
	Price         float64        `json:"price" binding:"required,gt=0"`
	OriginalPrice float64        `json:"originalPrice" binding:"gte=0"`
	Discount      float64        `json:"discount" binding:"gte=0"`
	Thumbnail     *string        `json:"thumbnail"`
	CategoryIDs   []int64        `json:"categoryIds"`
	Variants      []VariantInput `json:"variants"`
}

// CreateProduct is the handler for POST /api/admin/products
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if input.OriginalPrice == 0 {
		input.OriginalPrice = input.Price
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to start transaction"})
		return
	}
	defer tx.Rollback()

	now := time.Now()
	result, err := tx.Exec(`
		INSERT INTO products (name, slug, description, price, original_price, discount, thumbnail, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, TRUE, ?, ?)`,
		input.Name, slug.Make(input.Name), input.Description,
		input.Price, input.OriginalPrice, input.Discount, input.Thumbnail, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "A product with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create product"})
		return
	}
	productID, err := result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get new product ID"})
		return
	}

	for _, catID := range input.CategoryIDs {
		if _, err := tx.Exec("INSERT INTO product_categories (product_id, category_id) VALUES (?, ?)", productID, catID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown category ID"})
			return
		}
	}

	for _, v := range input.Variants {
		if _, err := tx.Exec(
			"INSERT INTO product_variants (product_id, color, size, stock, image) VALUES (?, ?, ?, ?, ?)",
			productID, v.Color, v.Size, v.Stock, v.Image); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create variant"})
			return
		}
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Commit failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"id": productID}})
}

// UpdateProductInput defines the JSON for updating a product's base fields.
type UpdateProductInput struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Discount      *float64 `json:"discount"`
	Thumbnail     *string  `json:"thumbnail"`
	IsActive      *bool    `json:"isActive"`
}

// UpdateProduct is the handler for PUT /api/admin/products/:id
func (h *Handlers) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	var input UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	// Build a partial update from the provided fields only.
	sets := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if input.Name != nil {
		sets = append(sets, "name = ?", "slug = ?")
		args = append(args, *input.Name, slug.Make(*input.Name))
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *input.Price)
	}
	if input.OriginalPrice != nil {
		sets = append(sets, "original_price = ?")
		args = append(args, *input.OriginalPrice)
	}
	if input.Discount != nil {
		sets = append(sets, "discount = ?")
		args = append(args, *input.Discount)
	}
	if input.Thumbnail != nil {
		sets = append(sets, "thumbnail = ?")
		args = append(args, *input.Thumbnail)
	}
	if input.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *input.IsActive)
	}

	args = append(args, id)
	result, err := h.DB.Exec("UPDATE products SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		// RowsAffected is 0 both for a missing row and a no-op update;
		// distinguish with an existence check.
		var exists int
		if err := h.DB.QueryRow("SELECT 1 FROM products WHERE id = ?", id).Scan(&exists); err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id}})
}

// DeleteProduct is the handler for DELETE /api/admin/products/:id
func (h *Handlers) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid product ID"})
		return
	}

	result, err := h.DB.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete product"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"id": id, "deleted": true}})
}
