package main

import (
	"flag"
	"log"
	"time"

	"github.com/assetindex/asset-index/internal/config"
	"github.com/assetindex/asset-index/internal/database"
	"github.com/assetindex/asset-index/internal/services"
)

// Operator tool for demo and test environments: moves users back to a clean
// monitoring state by clearing the release flag and resetting the check-in
// clock. Without -user it resets every account.
func main() {
	userID := flag.String("user", "", "reset only this user ID (default: all users)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	count, err := services.ResetForTesting(db, *userID, time.Now().UTC())
	if err != nil {
		log.Fatalf("Failed to reset users: %v", err)
	}

	log.Printf("Reset %d user(s)", count)
}
