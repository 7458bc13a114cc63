// Command sync is the Myth Stats data synchronization CLI.
//
// Usage:
//
//	mythstats-sync schema
//	mythstats-sync leaderboards
//	mythstats-sync matches
//	mythstats-sync all
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/mythstats-data/internal/config"
	"github.com/albapepper/mythstats-data/internal/db"
	"github.com/albapepper/mythstats-data/internal/pipeline"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
	"github.com/albapepper/mythstats-data/internal/queue"
	"github.com/albapepper/mythstats-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "mythstats-sync",
		Short: "Myth Stats data synchronization CLI",
	}

	root.AddCommand(schemaCmd())
	root.AddCommand(leaderboardsCmd())
	root.AddCommand(matchesCmd())
	root.AddCommand(allCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// schema command
// --------------------------------------------------------------------------

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Apply the embedded schema DDL",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := db.EnsureSchema(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// leaderboards command (producer pipeline)
// --------------------------------------------------------------------------

func leaderboardsCmd() *cobra.Command {
	var ids []int
	cmd := &cobra.Command{
		Use:   "leaderboards",
		Short: "Sync leaderboard standings and enqueue changed players",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if len(ids) == 0 {
					ids = cfg.LeaderboardIDs
				}
				start := time.Now()
				result := runLeaderboardSync(ctx, cfg, pool, ids)
				logger.Info("Leaderboard sync finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("sync error", "error", e)
					}
					return fmt.Errorf("leaderboard extraction failed")
				}
				logger.Info("Leaderboard extraction successful")
				return nil
			})
		},
	}
	cmd.Flags().IntSliceVar(&ids, "leaderboard", nil, "Leaderboard IDs to sync (default: configured list)")
	return cmd
}

// --------------------------------------------------------------------------
// matches command (consumer pipeline)
// --------------------------------------------------------------------------

func matchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matches",
		Short: "Drain the backfill queue and persist match history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				result := runMatchDrain(ctx, cfg, pool)
				logger.Info("Match backfill finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("backfill error", "error", e)
					}
					return fmt.Errorf("match extraction failed")
				}
				logger.Info("All messages processed successfully")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// all command
// --------------------------------------------------------------------------

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run the producer pipeline, then drain the backfill queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				start := time.Now()
				result := runLeaderboardSync(ctx, cfg, pool, cfg.LeaderboardIDs)
				result.Add(runMatchDrain(ctx, cfg, pool))
				logger.Info("Full sync finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("sync error", "error", e)
					}
					return fmt.Errorf("sync failed")
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func runLeaderboardSync(ctx context.Context, cfg *config.Config, pool *db.Pool, ids []int) pipeline.Result {
	client := wel.NewClient(cfg.WELBaseURL, cfg.WELTitle, cfg.WELPlatform, cfg.PageSize, cfg.MatchHistoryRPS, logger)
	q := queue.New(pool.Pool, cfg.QueueVisibility, cfg.QueuePollWait)
	return pipeline.SyncLeaderboards(ctx, client, store.NewStandings(pool.Pool), q, ids, cfg.BatchSize, logger)
}

func runMatchDrain(ctx context.Context, cfg *config.Config, pool *db.Pool) pipeline.Result {
	client := wel.NewClient(cfg.WELBaseURL, cfg.WELTitle, cfg.WELPlatform, cfg.PageSize, cfg.MatchHistoryRPS, logger)
	q := queue.New(pool.Pool, cfg.QueueVisibility, cfg.QueuePollWait)
	return pipeline.DrainBackfillQueue(ctx, q, client, store.NewMatches(pool.Pool), logger)
}

// runPipeline handles config loading, DB connection, and context cancellation.
func runPipeline(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
