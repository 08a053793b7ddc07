package handlers

import (
	"net/http"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
)

// GetCategories is the handler for GET /api/categories
func (h *Handlers) GetCategories(c *gin.Context) {
	rows, err := h.DB.Query("SELECT id, name, slug, parent_id FROM categories ORDER BY name ASC")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database query failed"})
		return
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.ParentID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan category"})
			return
		}
		categories = append(categories, cat)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// CreateCategoryInput defines the JSON for creating a category.
type CreateCategoryInput struct {
	Name     string `json:"name" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// CreateCategory is the handler for POST /api/admin/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var input CreateCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	category := &models.Category{
		Name:     input.Name,
		Slug:     slug.Make(input.Name),
		ParentID: input.ParentID,
	}

	result, err := h.DB.Exec(
		"INSERT INTO categories (name, slug, parent_id) VALUES (?, ?, ?)",
		category.Name, category.Slug, category.ParentID)
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Category already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create category"})
		return
	}

	category.ID, err = result.LastInsertId()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to get new category ID"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category})
}
