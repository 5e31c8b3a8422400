package main

import (
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"testhub/internal/database"
	"testhub/internal/domain"
	"testhub/internal/pkg/accesscode"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "testhub.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Test{},
		&domain.Question{},
		&domain.Attempt{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM attempts")
	db.Exec("DELETE FROM questions")
	db.Exec("DELETE FROM tests")
	db.Exec("DELETE FROM refresh_tokens")
	db.Exec("DELETE FROM users")

	// ================== USERS ==================
	log.Println("Creating users...")

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "owner@testhub.dev",
		PasswordHash: string(ownerHash),
		DisplayName:  "Demo Owner",
	}
	if err := db.Create(&owner).Error; err != nil {
		log.Fatal("create owner failed:", err)
	}

	studentHash, _ := bcrypt.GenerateFromPassword([]byte("student123"), bcrypt.DefaultCost)
	student := domain.User{
		Email:        "student@testhub.dev",
		PasswordHash: string(studentHash),
		DisplayName:  "Demo Student",
	}
	if err := db.Create(&student).Error; err != nil {
		log.Fatal("create student failed:", err)
	}

	// ================== TESTS ==================
	log.Println("Creating demo test...")

	code, err := accesscode.New(accesscode.DefaultLength)
	if err != nil {
		log.Fatal("access code generation failed:", err)
	}

	expiresAt := time.Now().Add(7 * 24 * time.Hour)
	demo := domain.Test{
		OwnerID:          owner.ID,
		AccessCode:       code,
		Title:            "Go Basics Quiz",
		TimeLimitSeconds: 600,
		ExpiresAt:        expiresAt,
		Status:           domain.TestOpen,
		Questions: []domain.Question{
			{
				Position:      1,
				Prompt:        "Which keyword declares a new variable with inferred type?",
				Options:       []string{"var", ":=", "let", "def"},
				CorrectAnswer: ":=",
			},
			{
				Position:      2,
				Prompt:        "What does a nil map lookup return for a missing key?",
				Options:       []string{"panic", "zero value", "nil pointer error", "undefined"},
				CorrectAnswer: "zero value",
			},
			{
				Position:      3,
				Prompt:        "Which builtin starts a new goroutine?",
				Options:       []string{"go", "spawn", "async", "fork"},
				CorrectAnswer: "go",
			},
		},
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Fatal("create demo test failed:", err)
	}

	log.Printf("Seed complete. Owner: owner@testhub.dev / owner123")
	log.Printf("Demo test %q access code: %s (expires %s)", demo.Title, demo.AccessCode, expiresAt.Format(time.RFC3339))
}
