package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- Cart Handlers ---
//

// querier is the subset of *sql.DB / *sql.Tx the cart helpers need, so the
// same lookup runs inside and outside the checkout transaction.
type querier interface {
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// getOrCreateCartID finds a user's cart or creates one. The unique user_id
// constraint resolves duplicate-creation races: the losing insert fails with a
// duplicate key, and we re-read the winner's row.
func getOrCreateCartID(q querier, userID int64) (int64, error) {
	var cartID int64

	err := q.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID)
	if err == nil {
		return cartID, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	now := time.Now()
	result, err := q.Exec("INSERT INTO carts (user_id, created_at, updated_at) VALUES (?, ?, ?)", userID, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			// Lost the race; the other request's cart is ours too.
			if err := q.QueryRow("SELECT id FROM carts WHERE user_id = ?", userID).Scan(&cartID); err != nil {
				return 0, err
			}
			return cartID, nil
		}
		return 0, err
	}
	return result.LastInsertId()
}

// AddToCartInput defines the JSON for adding an item to the cart.
type AddToCartInput struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddToCart is the handler for POST /api/cart/add
// Idempotent in shape: a second add for the same product increments the
// existing line instead of creating a new one.
func (h *Handlers) AddToCart(c *gin.Context) {
	userID := c.GetInt64("userID")

	var input AddToCartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId and a positive quantity are required"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	cartID, err := getOrCreateCartID(tx, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Cart initialization failed"})
		return
	}

	// Product must exist and be active.
	var exists int
	err = tx.QueryRow("SELECT 1 FROM products WHERE id = ? AND is_active = TRUE", input.ProductID).Scan(&exists)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	// Upsert: increment the existing line or create a new one.
	_, err = tx.Exec(`
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE quantity = quantity + VALUES(quantity)`,
		cartID, input.ProductID, input.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update cart"})
		return
	}

	var item models.CartItem
	err = tx.QueryRow(
		"SELECT id, cart_id, product_id, quantity FROM cart_items WHERE cart_id = ? AND product_id = ?",
		cartID, input.ProductID,
	).Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read cart line"})
		return
	}

	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Commit failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart", "data": item})
}

// GetCart is the handler for GET /api/cart
// Lines are priced from the live product record every time.
func (h *Handlers) GetCart(c *gin.Context) {
	userID := c.GetInt64("userID")

	cartID, err := getOrCreateCartID(h.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load cart"})
		return
	}

	query := `
		SELECT ci.id, ci.product_id, p.name, p.thumbnail, p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.cart_id = ?
		ORDER BY ci.id ASC`
	rows, err := h.DB.Query(query, cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to query cart items"})
		return
	}
	defer rows.Close()

	items := []models.CartLine{}
	var subtotal float64

	for rows.Next() {
		var line models.CartLine
		var thumbnail sql.NullString
		if err := rows.Scan(&line.ID, &line.ProductID, &line.Name, &thumbnail, &line.Price, &line.Quantity); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan cart item"})
			return
		}
		line.Image = thumbnail.String
		line.LineTotal = line.Price * float64(line.Quantity)
		subtotal += line.LineTotal
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error iterating cart items"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    items,
		"subtotal": subtotal,
	})
}

// UpdateCartItemInput defines the JSON for changing a line's quantity.
// Quantity 0 removes the line.
type UpdateCartItemInput struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// UpdateCartItem is the handler for PUT /api/cart/items/:id
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	userID := c.GetInt64("userID")
	itemID := c.Param("id")

	var input UpdateCartItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity is required and must be >= 0"})
		return
	}

	// Ownership check: the line must belong to this user's cart.
	query := `
		UPDATE cart_items ci
		JOIN carts ca ON ci.cart_id = ca.id
		SET ci.quantity = ?
		WHERE ci.id = ? AND ca.user_id = ?`
	if *input.Quantity == 0 {
		query = `
			DELETE ci FROM cart_items ci
			JOIN carts ca ON ci.cart_id = ca.id
			WHERE ci.id = ? AND ca.user_id = ?`
	}

	var result sql.Result
	var err error
	if *input.Quantity == 0 {
		result, err = h.DB.Exec(query, itemID, userID)
	} else {
		result, err = h.DB.Exec(query, *input.Quantity, itemID, userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update item"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated"})
}

// RemoveCartItem is the handler for DELETE /api/cart/items/:id
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	userID := c.GetInt64("userID")
	itemID := c.Param("id")

	result, err := h.DB.Exec(`
		DELETE ci FROM cart_items ci
		JOIN carts ca ON ci.cart_id = ca.id
		WHERE ci.id = ? AND ca.user_id = ?`, itemID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete item"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
}
