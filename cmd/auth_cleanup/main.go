package main

import (
	"context"
	"log"
	"os"

	"testhub/internal/database"
	"testhub/internal/repository"
)

// Removes refresh tokens that can never be redeemed again. Revoked rows are
// kept for 30 days so reuse incidents stay inspectable.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	repo := repository.NewRefreshTokenRepository(db)
	expired, err := repo.DeleteExpired(context.Background())
	if err != nil {
		log.Fatalf("cleanup expired refresh_tokens failed: %v", err)
	}

	res := db.Exec(`DELETE FROM refresh_tokens WHERE revoked_at IS NOT NULL AND revoked_at < CURRENT_TIMESTAMP - INTERVAL '30 days'`)
	if res.Error != nil {
		log.Fatalf("cleanup revoked refresh_tokens failed: %v", res.Error)
	}

	log.Printf("auth cleanup completed: expired=%d revoked=%d", expired, res.RowsAffected)
}
