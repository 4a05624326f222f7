package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipegram/backend/config"
	"github.com/recipegram/backend/internal/api"
	"github.com/recipegram/backend/internal/database"
	"github.com/recipegram/backend/internal/repository"
	"github.com/recipegram/backend/internal/router"
	"github.com/recipegram/backend/internal/server"
	"github.com/recipegram/backend/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// Redis is optional; the highlights cache is skipped without it
	cache, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, highlights caching disabled: %v", err)
		cache = nil
	}

	s3Cfg, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media storage: %v", err)
	}

	recipeRepo := repository.NewRecipeRepository(db)
	authService := service.NewAuthService(recipeRepo, cfg.JWTSecret)
	assetStore := service.NewS3AssetStore(s3Cfg)
	recipeService := service.NewRecipeService(recipeRepo, assetStore, cache)

	authHandler := api.NewAuthHandler(authService)
	recipeHandler := api.NewRecipeHandler(recipeService, authService)

	engine := router.SetupRouter(authHandler, recipeHandler)
	srv := server.New(engine, cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Server running on port %s", cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
