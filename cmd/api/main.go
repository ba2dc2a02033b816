package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ynotnow-storefront/internal/config"
	"ynotnow-storefront/internal/db"
	"ynotnow-storefront/internal/events"
	"ynotnow-storefront/internal/gateway"
	"ynotnow-storefront/internal/httpserver"
	"ynotnow-storefront/internal/repository/recent"
	"ynotnow-storefront/internal/repository/review"
	cartsvc "ynotnow-storefront/internal/service/cart"
	customersvc "ynotnow-storefront/internal/service/customer"
	productsvc "ynotnow-storefront/internal/service/product"
	reviewsvc "ynotnow-storefront/internal/service/review"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("config: %v", err)
	}

	gw, err := gateway.New(gateway.Config{
		StoreDomain: cfg.StoreDomain,
		AccessToken: cfg.StorefrontToken,
		APIVersion:  cfg.APIVersion,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatalf("init gateway: %v", err)
	}

	ctx := context.Background()
	var checks []httpserver.Check

	reviewRepo := review.NewMemory()
	if cfg.DBConnString != "" {
		dbpool, err := db.Connect(ctx, cfg.DBConnString)
		if err != nil {
			logger.Fatalf("connect to db: %v", err)
		}
		defer dbpool.Close()
		reviewRepo = review.NewPostgres(dbpool, logger)
		checks = append(checks, httpserver.Check{Name: "db", Ping: dbpool.Ping})
	} else {
		logger.Printf("DB_DSN not set, reviews are kept in memory")
	}

	recentRepo := recent.NewMemory()
	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		defer rdb.Close()
		recentRepo = recent.NewRedis(rdb, logger)
		checks = append(checks, httpserver.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	} else {
		logger.Printf("REDIS_ADDR not set, recently viewed lists are kept in memory")
	}

	bus := events.NewBus()
	productService := productsvc.New(gw, recentRepo, logger)
	cartService := cartsvc.New(gw, bus, logger)
	customerService := customersvc.New(gw, logger)
	reviewService := reviewsvc.New(reviewRepo, productService, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		ProductSvc:     productService,
		CartSvc:        cartService,
		CustomerSvc:    customerService,
		ReviewSvc:      reviewService,
		Events:         bus,
		SiteURL:        cfg.SiteURL,
		CookieSecure:   cfg.CookieSecure,
		AllowedOrigins: cfg.AllowedOrigins,
		Checks:         checks,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
