package handlers

import (
	"database/sql"

	"github.com/adamfashion/storefront-golang/internal/ai"
	"github.com/adamfashion/storefront-golang/internal/chat"
	"github.com/adamfashion/storefront-golang/internal/email"
)

// Handlers struct holds all dependencies for our handlers.
type Handlers struct {
	DB     *sql.DB            // Shared connection pool
	AI     *ai.StylistService // Gemini-backed stylist bot
	Mailer *email.Sender      // Order confirmation mail
	Hub    *chat.Hub          // Support chat websocket hub
}
