// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the babymorph server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babymorph/internal/ai"
	"babymorph/internal/cache"
	"babymorph/internal/config"
	"babymorph/internal/database"
	"babymorph/internal/generation"
	"babymorph/internal/handlers"
	"babymorph/internal/middleware"
	"babymorph/internal/router"
	"babymorph/internal/storage"
	"babymorph/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Rate limiter for the generation endpoints. Redis gives a shared
	// counter across replicas; without it the limiter is per-process.
	var limiter middleware.Limiter
	if cfg.HasRedis() {
		redisClient, err := cache.Connect(cfg.RedisHost, cfg.RedisPort, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		limiter = middleware.NewRedisLimiter(redisClient, cfg.RateLimit, cfg.RateWindow)
		slog.Info("rate limiter using redis", "limit", cfg.RateLimit, "window", cfg.RateWindow)
	} else {
		memLimiter := middleware.NewMemoryLimiter(cfg.RateLimit, cfg.RateWindow)
		defer memLimiter.Stop()
		limiter = memLimiter
		slog.Info("rate limiter in-memory", "limit", cfg.RateLimit, "window", cfg.RateWindow)
	}

	// Object storage for generated images and uploaded photos. S3 when
	// configured, local disk otherwise (served under /uploads/).
	var blobs storage.Blob
	var uploadsHandler *handlers.Uploads
	if cfg.HasS3() {
		s3Store, err := storage.NewS3(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		blobs = s3Store
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		localStore, err := storage.NewLocal(cfg.UploadDir)
		if err != nil {
			slog.Error("failed to initialize local storage", "error", err)
			os.Exit(1)
		}
		blobs = localStore
		uploadsHandler = handlers.NewUploads(localStore)
		slog.Warn("s3 not configured — storing images on local disk", "dir", cfg.UploadDir)
	}

	// Generation provider (OpenAI-compatible API).
	provider := ai.NewClient(ai.ProviderConfig{
		APIKey:     cfg.AIAPIKey,
		BaseURL:    cfg.AIBaseURL,
		ImageModel: cfg.AIImageModel,
		TextModel:  cfg.AITextModel,
		Referer:    cfg.AIReferer,
		Title:      cfg.AITitle,
	})

	// A failed ping is logged but not fatal: the provider may recover,
	// and every other endpoint works without it.
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	if err := provider.Ping(pingCtx); err != nil {
		slog.Warn("generation provider unreachable at startup", "provider", provider.Name(), "error", err)
	} else {
		slog.Info("generation provider connected", "provider", provider.Name())
	}
	cancelPing()

	// Initialize data stores.
	themeStore := store.NewThemeStore(db)
	imageStore := store.NewImageStore(db)
	transformStore := store.NewTransformStore(db)
	userStore := store.NewUserStore(db)
	analyticsStore := store.NewAnalyticsStore(db)

	// Generation service orchestrates provider calls, storage mirroring
	// and record persistence.
	genService := generation.NewService(themeStore, imageStore, transformStore, provider, blobs)

	// Create handler groups with their dependencies.
	deps := router.Deps{
		Themes:    handlers.NewThemes(themeStore),
		Generate:  handlers.NewGenerate(genService),
		Gallery:   handlers.NewGallery(imageStore, transformStore),
		Analytics: handlers.NewAnalytics(analyticsStore),
		Auth:      handlers.NewAuth(userStore, cfg.JWTSecret),
		Health:    handlers.NewHealth(provider),
		Uploads:   uploadsHandler,
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(deps, cfg.JWTSecret, limiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate generation endpoints that wait on the
	// image provider (typically 10-30s, up to 90s under load).
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
