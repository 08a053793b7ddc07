package ai

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const systemPrompt = `You are the Adam Fashion personal stylist. You help shoppers
put outfits together and recommend items from the store catalog. Use the
search_products tool to look up real products before recommending anything.
Keep answers short and friendly. Never invent products or prices.`

// Apology is what the shopper sees when the model is unreachable. The
// handler persists it as the bot's turn so the thread stays coherent.
const Apology = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// Turn is one prior exchange in a stylist session.
type Turn struct {
	Role    string // "USER" or "BOT"
	Content string
}

// StylistService wraps the Gemini client with a catalog-search tool. The DB
// handle is used for reads only.
type StylistService struct {
	client *genai.Client
	model  *genai.GenerativeModel
	db     *sql.DB
}

// NewStylistService builds the service. Returns an error when the API key is
// missing so the caller can run without the bot.
func NewStylistService(ctx context.Context, apiKey string, db *sql.DB) (*StylistService, error) {
	if apiKey == "" {
		return nil, errors.New("ai: missing API key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: creating client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}
	model.Tools = []*genai.Tool{{
		FunctionDeclarations: []*genai.FunctionDeclaration{{
			Name:        "search_products",
			Description: "Search the store catalog by name or keyword. Returns up to five matching products with prices.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"query": {
						Type:        genai.TypeString,
						Description: "Keywords to match against product names",
					},
				},
				Required: []string{"query"},
			},
		}},
	}}

	return &StylistService{client: client, model: model, db: db}, nil
}

// Close releases the underlying client.
func (s *StylistService) Close() error {
	return s.client.Close()
}

// Reply sends the shopper's message with the session history and returns the
// bot's answer, resolving at most one round of tool calls.
func (s *StylistService) Reply(ctx context.Context, history []Turn, message string) (string, error) {
	session := s.model.StartChat()
	session.History = make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		role := "user"
		if turn.Role == "BOT" {
			role = "model"
		}
		session.History = append(session.History, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("ai: send: %w", err)
	}

	// Resolve tool calls, then ask again with the results.
	if calls := functionCalls(resp); len(calls) > 0 {
		parts := make([]genai.Part, 0, len(calls))
		for _, call := range calls {
			if call.Name != "search_products" {
				continue
			}
			query, _ := call.Args["query"].(string)
			results, err := s.searchCatalog(ctx, query)
			if err != nil {
				log.Printf("ai: catalog search failed: %v", err)
				results = map[string]any{"error": "search unavailable"}
			}
			parts = append(parts, genai.FunctionResponse{
				Name:     call.Name,
				Response: results,
			})
		}
		if len(parts) > 0 {
			resp, err = session.SendMessage(ctx, parts...)
			if err != nil {
				return "", fmt.Errorf("ai: tool follow-up: %w", err)
			}
		}
	}

	text := responseText(resp)
	if text == "" {
		return "", errors.New("ai: empty response")
	}
	return text, nil
}

// searchCatalog runs the tool query against live products.
func (s *StylistService) searchCatalog(ctx context.Context, query string) (map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, price, discount
		FROM products
		WHERE is_active = TRUE AND LOWER(name) LIKE ?
		ORDER BY sold DESC
		LIMIT 5`, "%"+strings.ToLower(strings.TrimSpace(query))+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type hit struct {
		ID       int64   `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Discount float64 `json:"discount"`
	}
	hits := []hit{}
	for rows.Next() {
		var p hit
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Discount); err != nil {
			return nil, err
		}
		hits = append(hits, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Round-trip through JSON to get the map shape the API wants.
	raw, err := json.Marshal(hits)
	if err != nil {
		return nil, err
	}
	var generic []any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return map[string]any{"products": generic}, nil
}

func functionCalls(resp *genai.GenerateContentResponse) []genai.FunctionCall {
	var calls []genai.FunctionCall
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if call, ok := part.(genai.FunctionCall); ok {
				calls = append(calls, call)
			}
		}
	}
	return calls
}

func responseText(resp *genai.GenerateContentResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				b.WriteString(string(text))
			}
		}
	}
	return strings.TrimSpace(b.String())
}
