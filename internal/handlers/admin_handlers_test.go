package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

// adminEnvelope is the back-office response contract: every reply carries a
// success flag next to its data or message.
type adminEnvelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func TestAdminErrorResponsesCarrySuccessFlag(t *testing.T) {
	h := &Handlers{}
	router := gin.New()
	router.POST("/api/admin/chat/conversations/:id/reply", h.ReplyToConversation)
	router.PUT("/api/admin/orders/:id/status", h.UpdateOrderStatus)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"reply without text", http.MethodPost, "/api/admin/chat/conversations/1/reply", `{}`},
		{"unknown order status", http.MethodPut, "/api/admin/orders/1/status", `{"status": "bogus"}`},
		{"missing order status", http.MethodPut, "/api/admin/orders/1/status", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			var body adminEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON body %q: %v", w.Body.String(), err)
			}
			if body.Success == nil {
				t.Fatal("response has no success field")
			}
			if *body.Success {
				t.Error("success = true on an error response")
			}
			if body.Message == "" {
				t.Error("error response has no message")
			}
		})
	}
}

func TestGetAllVouchersEnvelope(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT id, code, description, value, stock, start_date, end_date, is_active").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "code", "description", "value", "stock", "start_date", "end_date", "is_active"}).
			AddRow(1, "SUMMER10", "Summer promo", 10.0, 25, now, now.Add(72*time.Hour), true))

	h := &Handlers{DB: db}
	router := gin.New()
	router.GET("/api/admin/discounts", h.GetAllVouchers)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/discounts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", w.Code, http.StatusOK, w.Body.String())
	}
	var body adminEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Success == nil || !*body.Success {
		t.Errorf("success = %v, want true", body.Success)
	}
	if len(body.Data) == 0 {
		t.Error("response has no data field")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
