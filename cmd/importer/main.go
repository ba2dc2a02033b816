package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"ynotnow-storefront/internal/config"
	"ynotnow-storefront/internal/db"
	"ynotnow-storefront/internal/importer"
	"ynotnow-storefront/internal/repository/review"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a product review CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.DBConnString == "" {
		log.Fatalf("DB_DSN is required")
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, review.NewPostgres(pool, nil))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed after %d reviews: %v", count, err)
	}

	fmt.Printf("Imported %d reviews in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
