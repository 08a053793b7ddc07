package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/auth"
	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterInput defines the JSON for user registration.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName"`
}

// RegisterUser is the handler for POST /api/auth/register
func (h *Handlers) RegisterUser(c *gin.Context) {
	// 1. --- Bind & Validate JSON ---
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "A valid email and a password of at least 6 characters are required"})
		return
	}

	// 2. --- Hash the Password ---
	user := models.User{
		Email: input.Email,
		Role:  models.RoleUser,
	}
	if input.FullName != "" {
		user.FullName = &input.FullName
	}
	var pw models.Password
	if err := pw.Set(input.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process password"})
		return
	}
	user.PasswordHash = pw.Hash

	// 3. --- Insert the User ---
	now := time.Now()
	result, err := h.DB.Exec(`
		INSERT INTO users (email, password_hash, role, full_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.Role, user.FullName, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account"})
		return
	}
	user.ID, _ = result.LastInsertId()

	// 4. --- Issue a Token so the Client Can Log In Immediately ---
	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created",
		"token":   token,
		"data": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"role":     user.Role,
			"fullName": user.FullName,
		},
	})
}

// LoginInput defines the JSON for login.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser is the handler for POST /api/auth/login
// Wrong email and wrong password produce the same response.
func (h *Handlers) LoginUser(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required"})
		return
	}

	var user models.User
	err := h.DB.QueryRow(
		"SELECT id, email, password_hash, role, full_name FROM users WHERE email = ?",
		input.Email,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &user.FullName)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	pw := models.Password{Hash: user.PasswordHash}
	ok, err := pw.Matches(input.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"data": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"role":     user.Role,
			"fullName": user.FullName,
		},
	})
}

// GetMe is the handler for GET /api/auth/me
func (h *Handlers) GetMe(c *gin.Context) {
	userID := c.GetInt64("userID")

	var user models.User
	err := h.DB.QueryRow(
		"SELECT id, email, role, full_name, phone, address, created_at FROM users WHERE id = ?",
		userID,
	).Scan(&user.ID, &user.Email, &user.Role, &user.FullName, &user.Phone, &user.Address, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}
