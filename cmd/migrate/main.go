package main

import (
	"context"
	"flag"
	"log"
	"os"

	"ynotnow-storefront/internal/config"
	"ynotnow-storefront/internal/db"
	"ynotnow-storefront/internal/migrate"
)

func main() {
	down := flag.Bool("down", false, "Roll back the most recent migration instead of applying")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	if cfg.DBConnString == "" {
		logger.Fatalf("DB_DSN is required")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if *down {
		if err := migrate.Rollback(ctx, pool); err != nil {
			logger.Fatalf("roll back migration: %v", err)
		}
		logger.Println("rolled back one migration")
		return
	}

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Println("migrations applied")
}
