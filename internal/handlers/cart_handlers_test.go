package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAddToCartRejectsBadInput(t *testing.T) {
	h := &Handlers{}
	router := gin.New()
	router.POST("/api/cart/add", func(c *gin.Context) {
		c.Set("userID", int64(1))
		h.AddToCart(c)
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing quantity", `{"productId": 3}`},
		{"zero quantity", `{"productId": 3, "quantity": 0}`},
		{"negative quantity", `{"productId": 3, "quantity": -2}`},
		{"malformed json", `{"productId":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/cart/add", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestUpdateCartItemRejectsBadInput(t *testing.T) {
	h := &Handlers{}
	router := gin.New()
	router.PUT("/api/cart/items/:id", func(c *gin.Context) {
		c.Set("userID", int64(1))
		h.UpdateCartItem(c)
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing quantity", `{}`},
		{"negative quantity", `{"quantity": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/cart/items/9", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}
