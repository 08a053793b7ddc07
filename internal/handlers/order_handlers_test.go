package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewOrderCode(t *testing.T) {
	at := time.UnixMilli(1761000000000)
	got := NewOrderCode(at)

	if !strings.HasPrefix(got, "ORD-") {
		t.Fatalf("order code %q missing ORD- prefix", got)
	}
	millis, err := strconv.ParseInt(strings.TrimPrefix(got, "ORD-"), 10, 64)
	if err != nil {
		t.Fatalf("order code %q suffix is not numeric: %v", got, err)
	}
	if millis != 1761000000000 {
		t.Errorf("order code encodes %d, want the creation timestamp", millis)
	}
}

func TestBuildOrderItems(t *testing.T) {
	lines := []checkoutLine{
		{ProductID: 1, ProductName: "Linen Shirt", Price: 29.99, Quantity: 2},
		{ProductID: 2, ProductName: "Denim Jacket", Price: 89.50, Quantity: 1},
		{ProductID: 3, ProductName: "Wool Scarf", Price: 12.25, Quantity: 4},
	}

	total, items, err := buildOrderItems(lines)
	if err != nil {
		t.Fatalf("buildOrderItems: %v", err)
	}

	want := 29.99*2 + 89.50 + 12.25*4
	if total != want {
		t.Errorf("total = %v, want %v", total, want)
	}
	if len(items) != len(lines) {
		t.Fatalf("got %d items, want %d", len(items), len(lines))
	}
	for i, item := range items {
		if item.ProductID != lines[i].ProductID ||
			item.ProductName != lines[i].ProductName ||
			item.Price != lines[i].Price ||
			item.Quantity != lines[i].Quantity {
			t.Errorf("item %d = %+v, does not snapshot line %+v", i, item, lines[i])
		}
	}

	// Snapshot total must equal the sum over the snapshots themselves.
	var fromItems float64
	for _, item := range items {
		fromItems += item.Price * float64(item.Quantity)
	}
	if fromItems != total {
		t.Errorf("Σ(item price × quantity) = %v, want total %v", fromItems, total)
	}
}

func TestBuildOrderItemsEmptyCart(t *testing.T) {
	if _, _, err := buildOrderItems(nil); err != errEmptyCart {
		t.Errorf("buildOrderItems(nil) err = %v, want errEmptyCart", err)
	}
	if _, _, err := buildOrderItems([]checkoutLine{}); err != errEmptyCart {
		t.Errorf("buildOrderItems(empty) err = %v, want errEmptyCart", err)
	}
}

func TestContactOrDefault(t *testing.T) {
	profileName := "Ada Vaughan"
	empty := ""

	tests := []struct {
		name      string
		requested string
		profile   *string
		fallback  string
		want      string
	}{
		{"request value wins", "From Request", &profileName, "Customer", "From Request"},
		{"profile fills the gap", "", &profileName, "Customer", "Ada Vaughan"},
		{"nil profile falls through", "", nil, "Customer", "Customer"},
		{"empty profile falls through", "", &empty, "Customer", "Customer"},
		{"empty fallback allowed", "", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := contactOrDefault(tt.requested, tt.profile, tt.fallback); got != tt.want {
				t.Errorf("contactOrDefault(%q, _, %q) = %q, want %q", tt.requested, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestCheckoutRejectsMissingAddress(t *testing.T) {
	h := &Handlers{}
	router := gin.New()
	router.POST("/api/orders/checkout", func(c *gin.Context) {
		c.Set("userID", int64(1))
		h.Checkout(c)
	})

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"blank address", `{"shippingAddress": ""}`},
		{"malformed json", `{"shippingAddress": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/orders/checkout", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestOrderDisplayID(t *testing.T) {
	tests := []struct {
		id   int64
		want string
	}{
		{7, "ORD-0007"},
		{42, "ORD-0042"},
		{12345, "ORD-12345"},
	}
	for _, tt := range tests {
		if got := orderDisplayID(tt.id); got != tt.want {
			t.Errorf("orderDisplayID(%d) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
