package main

import (
	"context"
	"log"
	"os"

	"github.com/adamfashion/storefront-golang/internal/ai"
	"github.com/adamfashion/storefront-golang/internal/chat"
	"github.com/adamfashion/storefront-golang/internal/database"
	"github.com/adamfashion/storefront-golang/internal/email"
	"github.com/adamfashion/storefront-golang/internal/handlers"
	"github.com/adamfashion/storefront-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 1. --- Load Environment ---
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment directly")
	}

	// 2. --- Connect to the Database ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connection established")

	// 3. --- AI Stylist (optional) ---
	// The stylist only reads the catalog; point it at a read-only DSN when
	// one is configured.
	var stylist *ai.StylistService
	aiDB := db
	if dsn := os.Getenv("DB_READONLY_DSN"); dsn != "" {
		aiDB, err = database.OpenDBWithDSN(dsn)
		if err != nil {
			log.Fatalf("Could not connect read-only database: %v", err)
		}
		defer aiDB.Close()
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		stylist, err = ai.NewStylistService(context.Background(), key, aiDB)
		if err != nil {
			log.Fatalf("Could not start stylist service: %v", err)
		}
		defer stylist.Close()
		log.Println("AI stylist enabled")
	} else {
		log.Println("GEMINI_API_KEY not set, stylist disabled")
	}

	// 4. --- Support Chat Hub ---
	hub := chat.NewHub(db)
	go hub.Run()

	// 5. --- Wire Handlers & Routes ---
	h := &handlers.Handlers{
		DB:     db,
		AI:     stylist,
		Mailer: email.NewSender(),
		Hub:    hub,
	}
	router := routes.SetupRouter(h)

	// 6. --- Serve ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Printf("Starting server on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
