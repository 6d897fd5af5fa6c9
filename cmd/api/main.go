package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"bess-colocation/internal/api"
	"bess-colocation/internal/store"
	"bess-colocation/internal/store/memory"
	"bess-colocation/internal/store/postgres"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	runs, cleanup, err := buildRunStore()
	if err != nil {
		log.Fatalf("Failed to set up run store: %v", err)
	}
	defer cleanup()

	router := api.NewRouter(runs)

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildRunStore selects the backing store: postgres when DATABASE_URL
// is set, in-memory otherwise.
func buildRunStore() (store.RunStore, func(), error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Printf("[Store] DATABASE_URL not set, runs are kept in memory")
		return memory.NewRunStore(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}

	runs := postgres.NewRunStore(pool)
	if err := runs.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure schema: %w", err)
	}

	log.Printf("[Store] Using postgres run store")
	return runs, pool.Close, nil
}
