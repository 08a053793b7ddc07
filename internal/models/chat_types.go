package models

import "time"

// ChatConversation is one customer's support thread with the admin team.
// UnreadCount tracks customer messages not yet seen by an admin; it resets to
// zero on an admin reply or an explicit mark-read.
type ChatConversation struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"userId" db:"user_id"`
	UnreadCount int       `json:"unread" db:"unread_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ChatMessage is an append-only support message. Sender is "user" or "admin".
type ChatMessage struct {
	ID             int64     `json:"id" db:"id"`
	ConversationID int64     `json:"conversationId" db:"conversation_id"`
	Sender         string    `json:"sender" db:"sender"`
	Text           string    `json:"text" db:"text"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
}

// ChatSession is one AI-stylist thread; separate from support conversations.
type ChatSession struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ChatBotMessage is one turn in a stylist session. Role is "USER" or "BOT".
type ChatBotMessage struct {
	ID        int64     `json:"id" db:"id"`
	SessionID int64     `json:"sessionId" db:"session_id"`
	Role      string    `json:"role" db:"role"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
