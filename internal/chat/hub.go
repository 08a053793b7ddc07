package chat

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"github.com/adamfashion/storefront-golang/internal/models"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message is the wire format for support chat, both directions.
type Message struct {
	ConversationID int64     `json:"conversationId"`
	Sender         string    `json:"sender"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

// Client is one live websocket connection. A customer sees only their own
// conversation; admin connections see every conversation.
type Client struct {
	ID     string
	UserID int64
	Role   string
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
}

// Hub routes support-chat messages between connected clients. Every message
// is persisted before it is pushed, so a dropped connection never loses chat
// history.
type Hub struct {
	db         *sql.DB
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
}

func NewHub(db *sql.DB) *Hub {
	return &Hub{
		db:         db,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Message),
	}
}

// Run is the hub's event loop. Start it once, in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client

		case client := <-h.unregister:
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.send)
			}

		case msg := <-h.broadcast:
			ownerID, err := h.conversationOwner(msg.ConversationID)
			if err != nil {
				log.Printf("chat: cannot route message for conversation %d: %v", msg.ConversationID, err)
				continue
			}
			for id, client := range h.clients {
				if client.Role != models.RoleAdmin && client.UserID != ownerID {
					continue
				}
				select {
				case client.send <- msg:
				default:
					// Slow consumer; drop the connection, not the hub.
					delete(h.clients, id)
					close(client.send)
				}
			}
		}
	}
}

func (h *Hub) conversationOwner(conversationID int64) (int64, error) {
	var ownerID int64
	err := h.db.QueryRow("SELECT user_id FROM chat_conversations WHERE id = ?", conversationID).Scan(&ownerID)
	return ownerID, err
}

// Join wires an upgraded connection into the hub and starts its pumps.
func (h *Hub) Join(conn *websocket.Conn, userID int64, role string) {
	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		Role:   role,
		hub:    h,
		conn:   conn,
		send:   make(chan Message, 16),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Push fans out a message that was already persisted elsewhere (the REST
// reply endpoint) to any live connections.
func (h *Hub) Push(conversationID int64, sender, text string, at time.Time) {
	h.broadcast <- Message{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           text,
		Timestamp:      at,
	}
}

// persist writes an inbound message and returns it stamped with the stored
// timestamp. Customer messages bump the conversation's unread counter; admin
// replies reset it.
func (h *Hub) persist(senderRole string, senderUserID int64, in Message) (Message, error) {
	tx, err := h.db.Begin()
	if err != nil {
		return Message{}, err
	}
	defer tx.Rollback()

	sender := "user"
	unreadExpr := "unread_count + 1"
	if senderRole == models.RoleAdmin {
		sender = "admin"
		unreadExpr = "0"
	}

	conversationID := in.ConversationID
	if sender == "user" {
		// Customers always post to their own conversation, creating it on
		// first contact.
		err = tx.QueryRow("SELECT id FROM chat_conversations WHERE user_id = ?", senderUserID).Scan(&conversationID)
		if err == sql.ErrNoRows {
			res, insertErr := tx.Exec(
				"INSERT INTO chat_conversations (user_id, unread_count, created_at, updated_at) VALUES (?, 0, NOW(), NOW())",
				senderUserID)
			if insertErr != nil {
				return Message{}, insertErr
			}
			conversationID, _ = res.LastInsertId()
		} else if err != nil {
			return Message{}, err
		}
	}

	now := time.Now()
	if _, err := tx.Exec(
		"INSERT INTO chat_messages (conversation_id, sender, text, timestamp) VALUES (?, ?, ?, ?)",
		conversationID, sender, in.Text, now); err != nil {
		return Message{}, err
	}
	if _, err := tx.Exec(
		"UPDATE chat_conversations SET unread_count = "+unreadExpr+", updated_at = ? WHERE id = ?",
		now, conversationID); err != nil {
		return Message{}, err
	}
	if err := tx.Commit(); err != nil {
		return Message{}, err
	}

	return Message{
		ConversationID: conversationID,
		Sender:         sender,
		Text:           in.Text,
		Timestamp:      now,
	}, nil
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("chat: read error: %v", err)
			}
			return
		}

		var in Message
		if err := json.Unmarshal(raw, &in); err != nil || in.Text == "" {
			continue
		}

		stored, err := c.hub.persist(c.Role, c.UserID, in)
		if err != nil {
			log.Printf("chat: persist failed: %v", err)
			continue
		}
		c.hub.broadcast <- stored
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
