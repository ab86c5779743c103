package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fintrackhq/fintrack/internal/app"
	"github.com/fintrackhq/fintrack/internal/infra/postgres"
	infraredis "github.com/fintrackhq/fintrack/internal/infra/redis"
	"github.com/fintrackhq/fintrack/internal/transport/httpapi"
	"github.com/fintrackhq/fintrack/internal/transport/httpapi/handler"
	"github.com/fintrackhq/fintrack/pkg/config"
	"github.com/fintrackhq/fintrack/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault(cfg.Env)
	log.Info("Starting fintrack API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Redis is optional: without it the category cache is simply disabled.
	var categoryCache *infraredis.Cache
	var cachePinger handler.Pinger
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		categoryCache = infraredis.NewCache(redisClient, log)
		cachePinger = categoryCache
		log.Info("Redis connection established")
	} else {
		log.Warn("REDIS_URL not configured, category cache disabled")
	}

	application := app.New(cfg, db, categoryCache, log)
	log.Info("Services initialized",
		"ledger", application.Ledger != nil,
		"category_cache", categoryCache != nil,
	)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"}
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	r := httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		AllowedOrigins: allowedOrigins,
		HealthHandler:  handler.NewHealthHandler(db, cachePinger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
