package main

import (
	"context"
	"log"
	"os"
	"time"

	"ynotnow-storefront/internal/config"
	"ynotnow-storefront/internal/db"
	"ynotnow-storefront/internal/repository/review"
	"ynotnow-storefront/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if cfg.DBConnString == "" {
		logger.Fatalf("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := seed.Apply(ctx, review.NewPostgres(pool, logger), time.Now()); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
