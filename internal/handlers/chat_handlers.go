package handlers

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are already filtered by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ChatWebSocket is the handler for GET /ws/chat
// Runs behind the auth middleware, so the hub learns who connected.
func (h *Handlers) ChatWebSocket(c *gin.Context) {
	userID := c.GetInt64("userID")
	role := c.GetString("userRole")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("chat: upgrade failed: %v", err)
		return
	}

	h.Hub.Join(conn, userID, role)
}

// GetMyConversation is the handler for GET /api/chat/messages
// Returns the customer's support thread, empty if they have never written.
func (h *Handlers) GetMyConversation(c *gin.Context) {
	userID := c.GetInt64("userID")

	var conversationID int64
	err := h.DB.QueryRow("SELECT id FROM chat_conversations WHERE user_id = ?", userID).Scan(&conversationID)
	if err != nil {
		if err == sql.ErrNoRows {
			// No conversation yet; an empty thread, not an error.
			c.JSON(http.StatusOK, gin.H{"data": gin.H{"messages": []gin.H{}}})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load conversation"})
		return
	}

	messages, err := h.loadMessages(conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"conversationId": conversationID, "messages": messages}})
}

func (h *Handlers) loadMessages(conversationID int64) ([]gin.H, error) {
	rows, err := h.DB.Query(`
		SELECT id, sender, text, timestamp
		FROM chat_messages
		WHERE conversation_id = ?
		ORDER BY timestamp ASC, id ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []gin.H{}
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.Sender, &m.Text, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, gin.H{"id": m.ID, "sender": m.Sender, "text": m.Text, "timestamp": m.Timestamp})
	}
	return messages, rows.Err()
}
