// Command api is the Myth Stats Data API server.
//
// Usage:
//
//	mythstats-api
//	API_PORT=8080 mythstats-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/mythstats-data/internal/api"
	"github.com/albapepper/mythstats-data/internal/cache"
	"github.com/albapepper/mythstats-data/internal/config"
	"github.com/albapepper/mythstats-data/internal/db"
	"github.com/albapepper/mythstats-data/internal/pipeline"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
	"github.com/albapepper/mythstats-data/internal/queue"
	"github.com/albapepper/mythstats-data/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Shared ingestion dependencies for the background workers
	client := wel.NewClient(cfg.WELBaseURL, cfg.WELTitle, cfg.WELPlatform, cfg.PageSize, cfg.MatchHistoryRPS, logger)
	q := queue.New(pool.Pool, cfg.QueueVisibility, cfg.QueuePollWait)
	standings := store.NewStandings(pool.Pool)
	matches := store.NewMatches(pool.Pool)

	// Periodic sync worker: producer pipeline then queue drain.
	// Disabled when SYNC_INTERVAL_MINUTES is 0.
	go pipeline.StartWorker(ctx, cfg.SyncInterval, "sync", logger, func(ctx context.Context) {
		result := pipeline.SyncLeaderboards(ctx, client, standings, q,
			cfg.LeaderboardIDs, cfg.BatchSize, logger)
		for _, e := range result.Errors {
			logger.Error("Sync worker error", "error", e)
		}
		drain := pipeline.DrainBackfillQueue(ctx, q, client, matches, logger)
		for _, e := range drain.Errors {
			logger.Error("Backfill worker error", "error", e)
		}
	})

	// Queue hygiene: drop messages past the attempt budget hourly
	go pipeline.StartWorker(ctx, time.Hour, "queue-purge", logger, func(ctx context.Context) {
		purged, err := q.PurgePoisoned(ctx, cfg.QueueMaxAttempts)
		if err != nil {
			logger.Warn("Queue purge failed", "error", err)
		} else if purged > 0 {
			logger.Info("Purged poisoned messages", "count", purged)
		}
	})

	// Create router
	router := api.NewRouter(pool.Pool, appCache, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Myth Stats Data API",
			"addr", addr,
			"environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
