package main

import (
	"log"

	"github.com/comfortbites/backend/config"
	"github.com/comfortbites/backend/internal/database"
)

// Applies the schema without starting the server. Useful in deploy
// pipelines that migrate before rolling the API.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("All migrations applied successfully")
}
