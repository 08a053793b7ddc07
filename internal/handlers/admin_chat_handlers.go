package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//
// --- Admin: Support Chat ---
//

// GetConversations is the handler for GET /api/admin/chat/conversations
// Most recently active first, with the unread counter and the last message
// inlined for the inbox view.
func (h *Handlers) GetConversations(c *gin.Context) {
	rows, err := h.DB.Query(`
		SELECT cc.id, cc.user_id, u.email, u.full_name, cc.unread_count, cc.updated_at,
		       COALESCE((SELECT m.text FROM chat_messages m
		                 WHERE m.conversation_id = cc.id
		                 ORDER BY m.timestamp DESC, m.id DESC LIMIT 1), '')
		FROM chat_conversations cc
		JOIN users u ON u.id = cc.user_id
		ORDER BY cc.updated_at DESC`)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch conversations"})
		return
	}
	defer rows.Close()

	conversations := []gin.H{}
	for rows.Next() {
		var (
			id, userID  int64
			email       string
			fullName    *string
			unread      int
			updatedAt   time.Time
			lastMessage string
		)
		if err := rows.Scan(&id, &userID, &email, &fullName, &unread, &updatedAt, &lastMessage); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to scan conversation"})
			return
		}
		conversations = append(conversations, gin.H{
			"id":          id,
			"userId":      userID,
			"email":       email,
			"fullName":    fullName,
			"unread":      unread,
			"updatedAt":   updatedAt,
			"lastMessage": lastMessage,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": conversations})
}

// GetConversationMessages is the handler for GET /api/admin/chat/conversations/:id
func (h *Handlers) GetConversationMessages(c *gin.Context) {
	conversationID := c.Param("id")

	var id int64
	err := h.DB.QueryRow("SELECT id FROM chat_conversations WHERE id = ?", conversationID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	messages, err := h.loadMessages(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"conversationId": id, "messages": messages}})
}

// AdminReplyInput defines the JSON for an admin reply.
type AdminReplyInput struct {
	Text string `json:"text" binding:"required"`
}

// ReplyToConversation is the handler for POST /api/admin/chat/conversations/:id/reply
// The REST fallback to the websocket: persists the reply, resets the unread
// counter, and pushes the message to any live connections.
func (h *Handlers) ReplyToConversation(c *gin.Context) {
	conversationID := c.Param("id")

	var input AdminReplyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "text is required"})
		return
	}

	tx, err := h.DB.Begin()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Transaction failed"})
		return
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRow("SELECT id FROM chat_conversations WHERE id = ?", conversationID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	now := time.Now()
	if _, err := tx.Exec(
		"INSERT INTO chat_messages (conversation_id, sender, text, timestamp) VALUES (?, 'admin', ?, ?)",
		id, input.Text, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to save reply"})
		return
	}
	if _, err := tx.Exec(
		"UPDATE chat_conversations SET unread_count = 0, updated_at = ? WHERE id = ?", now, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update conversation"})
		return
	}
	if err := tx.Commit(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Commit failed"})
		return
	}

	if h.Hub != nil {
		h.Hub.Push(id, "admin", input.Text, now)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Reply sent"})
}

// MarkConversationRead is the handler for PUT /api/admin/chat/conversations/:id/read
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	conversationID := c.Param("id")

	result, err := h.DB.Exec(
		"UPDATE chat_conversations SET unread_count = 0 WHERE id = ?", conversationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark conversation read"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Conversation not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Conversation marked read"})
}
