package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/adamfashion/storefront-golang/internal/ai"
	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/gin-gonic/gin"
)

//
// --- AI Stylist Sessions ---
//

// GetChatSessions is the handler for GET /api/stylist/sessions
func (h *Handlers) GetChatSessions(c *gin.Context) {
	userID := c.GetInt64("userID")

	rows, err := h.DB.Query(`
		SELECT id, user_id, title, created_at, updated_at
		FROM chat_sessions
		WHERE user_id = ?
		ORDER BY updated_at DESC`, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sessions"})
		return
	}
	defer rows.Close()

	sessions := []models.ChatSession{}
	for rows.Next() {
		var s models.ChatSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan session"})
			return
		}
		sessions = append(sessions, s)
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}

// CreateChatSession is the handler for POST /api/stylist/sessions
func (h *Handlers) CreateChatSession(c *gin.Context) {
	userID := c.GetInt64("userID")

	now := time.Now()
	result, err := h.DB.Exec(
		"INSERT INTO chat_sessions (user_id, title, created_at, updated_at) VALUES (?, 'New chat', ?, ?)",
		userID, now, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session"})
		return
	}

	id, _ := result.LastInsertId()
	c.JSON(http.StatusCreated, gin.H{"data": models.ChatSession{
		ID: id, UserID: userID, Title: "New chat", CreatedAt: now, UpdatedAt: now,
	}})
}

// getOwnedSession resolves a session id to its row, enforcing ownership.
func (h *Handlers) getOwnedSession(sessionID string, userID int64) (*models.ChatSession, error) {
	var s models.ChatSession
	err := h.DB.QueryRow(
		"SELECT id, user_id, title, created_at, updated_at FROM chat_sessions WHERE id = ? AND user_id = ?",
		sessionID, userID,
	).Scan(&s.ID, &s.UserID, &s.Title, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetChatSession is the handler for GET /api/stylist/sessions/:id
func (h *Handlers) GetChatSession(c *gin.Context) {
	userID := c.GetInt64("userID")

	session, err := h.getOwnedSession(c.Param("id"), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	rows, err := h.DB.Query(`
		SELECT id, session_id, role, content, created_at
		FROM chat_bot_messages
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC`, session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch messages"})
		return
	}
	defer rows.Close()

	messages := []models.ChatBotMessage{}
	for rows.Next() {
		var m models.ChatBotMessage
		if err := rows.Scan(&m.ID, &m.SessionID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan message"})
			return
		}
		messages = append(messages, m)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"session": session, "messages": messages}})
}

// DeleteChatSession is the handler for DELETE /api/stylist/sessions/:id
func (h *Handlers) DeleteChatSession(c *gin.Context) {
	userID := c.GetInt64("userID")
	sessionID := c.Param("id")

	result, err := h.DB.Exec(
		"DELETE FROM chat_sessions WHERE id = ? AND user_id = ?", sessionID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete session"})
		return
	}
	if n, _ := result.RowsAffected(); n == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// sessionTitleRunes caps how much of the first message becomes the title.
const sessionTitleRunes = 60

// sessionTitle derives a session title from its first message. Truncation is
// per rune so multi-byte text never ends up as invalid UTF-8.
func sessionTitle(message string) string {
	runes := []rune(message)
	if len(runes) <= sessionTitleRunes {
		return message
	}
	return string(runes[:sessionTitleRunes])
}

// StylistMessageInput defines the JSON for a stylist prompt.
type StylistMessageInput struct {
	Message string `json:"message" binding:"required"`
}

// SendStylistMessage is the handler for POST /api/stylist/sessions/:id/messages
// The user's turn is committed before the model is called, so it survives an
// AI outage; an outage answers with a persisted apology instead of a 500.
func (h *Handlers) SendStylistMessage(c *gin.Context) {
	userID := c.GetInt64("userID")

	if h.AI == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "The stylist is not available right now"})
		return
	}

	var input StylistMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "message is required"})
		return
	}

	session, err := h.getOwnedSession(c.Param("id"), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"message": "Session not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error"})
		return
	}

	// 1. --- Load Prior Turns for Model Context ---
	rows, err := h.DB.Query(
		"SELECT role, content FROM chat_bot_messages WHERE session_id = ? ORDER BY created_at ASC, id ASC",
		session.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to load history"})
		return
	}
	history := []ai.Turn{}
	for rows.Next() {
		var t ai.Turn
		if err := rows.Scan(&t.Role, &t.Content); err != nil {
			rows.Close()
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to scan history"})
			return
		}
		history = append(history, t)
	}
	rows.Close()

	// 2. --- Persist the User's Turn ---
	now := time.Now()
	if _, err := h.DB.Exec(
		"INSERT INTO chat_bot_messages (session_id, role, content, created_at) VALUES (?, 'USER', ?, ?)",
		session.ID, input.Message, now); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save message"})
		return
	}

	// First message names the session.
	if len(history) == 0 {
		h.DB.Exec("UPDATE chat_sessions SET title = ?, updated_at = ? WHERE id = ?",
			sessionTitle(input.Message), now, session.ID)
	} else {
		h.DB.Exec("UPDATE chat_sessions SET updated_at = ? WHERE id = ?", now, session.ID)
	}

	// 3. --- Ask the Model ---
	reply, err := h.AI.Reply(c, history, input.Message)
	if err != nil {
		reply = ai.Apology
	}

	// 4. --- Persist the Bot's Turn ---
	if _, err := h.DB.Exec(
		"INSERT INTO chat_bot_messages (session_id, role, content, created_at) VALUES (?, 'BOT', ?, ?)",
		session.ID, reply, time.Now()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save reply"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"reply": reply}})
}
