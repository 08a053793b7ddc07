package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func conversationRouter(h *Handlers) *gin.Engine {
	router := gin.New()
	router.GET("/api/chat/messages", func(c *gin.Context) {
		c.Set("userID", int64(7))
		h.GetMyConversation(c)
	})
	return router
}

func TestGetMyConversationNoThreadYet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM chat_conversations WHERE user_id").
		WithArgs(int64(7)).
		WillReturnError(sql.ErrNoRows)

	router := conversationRouter(&Handlers{DB: db})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var body struct {
		Data struct {
			Messages []json.RawMessage `json:"messages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if len(body.Data.Messages) != 0 {
		t.Errorf("expected an empty thread, got %d messages", len(body.Data.Messages))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestGetMyConversationDBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM chat_conversations WHERE user_id").
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection lost"))

	router := conversationRouter(&Handlers{DB: db})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/messages", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d: a query failure must not read as an empty thread", w.Code, http.StatusInternalServerError)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
