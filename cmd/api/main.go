package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"testhub/internal/config"
	"testhub/internal/database"
	"testhub/internal/domain"
	"testhub/internal/middleware"
	"testhub/internal/modules/attempts"
	"testhub/internal/modules/auth"
	"testhub/internal/modules/live"
	"testhub/internal/modules/tests"
	jwtsvc "testhub/internal/pkg/jwt"
	"testhub/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadAuthRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is empty")
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.RefreshToken{},
		&domain.Test{},
		&domain.Question{},
		&domain.Attempt{},
	); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	testRepo := repository.NewTestRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTAccessTTL)

	authService := auth.NewService(userRepo, refreshTokenRepo, j, cfg.RefreshTokenPepper, cfg.RefreshTTL)
	authHandler := auth.NewHandler(authService)

	testsService := tests.NewService(testRepo, userRepo)
	testsHandler := tests.NewHandler(testsService)

	hub := live.NewHub()
	defer hub.Close()

	attemptsService := attempts.NewService(attemptRepo, testRepo, userRepo, hub)
	attemptsHandler := attempts.NewHandler(attemptsService)

	liveHandler := live.NewHandler(hub, testRepo, attemptsService)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		testsHandler.RegisterPublicRoutes(v1)
		attemptsHandler.RegisterPublicRoutes(v1)

		// participant endpoints work both anonymous and signed-in
		optional := v1.Group("/")
		optional.Use(middleware.OptionalJWTAuth(j))
		{
			attemptsHandler.RegisterOptionalAuthRoutes(optional)
		}

		// protected (owner and account endpoints)
		protected := v1.Group("/")
		protected.Use(middleware.JWTAuth(j))
		{
			authHandler.RegisterProtectedRoutes(protected)
			testsHandler.RegisterProtectedRoutes(protected)
			attemptsHandler.RegisterProtectedRoutes(protected)
			liveHandler.RegisterProtectedRoutes(protected)
		}
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
