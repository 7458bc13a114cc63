package pipeline

import (
	"context"
	"log/slog"

	"github.com/albapepper/mythstats-data/internal/leaderboard"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
	"github.com/albapepper/mythstats-data/internal/queue"
)

// LeaderboardFetcher pages through one leaderboard's full listing.
type LeaderboardFetcher interface {
	FetchLeaderboard(ctx context.Context, leaderboardID int) (*wel.LeaderboardSnapshot, error)
}

// StandingsStore upserts standings and reports which existing players'
// total games strictly increased.
type StandingsStore interface {
	UpsertStandings(ctx context.Context, standings []leaderboard.Standing) ([]int64, error)
}

// Enqueuer appends one batch of changed-player profile ids to the backfill
// queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, profileIDs []int64) error
}

// SyncLeaderboards runs the producer pipeline for every configured
// leaderboard: fetch, merge, upsert with change detection, batch, enqueue.
// A failure on one leaderboard is recorded and does not abort the others.
func SyncLeaderboards(
	ctx context.Context,
	fetcher LeaderboardFetcher,
	store StandingsStore,
	q Enqueuer,
	leaderboardIDs []int,
	batchSize int,
	logger *slog.Logger,
) Result {
	var result Result

	for _, lbID := range leaderboardIDs {
		result.Add(syncOne(ctx, fetcher, store, q, lbID, batchSize, logger))
	}

	logger.Info("Leaderboard sync complete", "summary", result.Summary())
	return result
}

func syncOne(
	ctx context.Context,
	fetcher LeaderboardFetcher,
	store StandingsStore,
	q Enqueuer,
	lbID int,
	batchSize int,
	logger *slog.Logger,
) Result {
	var result Result

	logger.Info("Syncing leaderboard", "leaderboard_id", lbID)

	snap, err := fetcher.FetchLeaderboard(ctx, lbID)
	if err != nil {
		result.AddErrorf("fetch leaderboard %d: %v", lbID, err)
		return result
	}

	standings, mergeErrs := leaderboard.Merge(snap)
	for _, merr := range mergeErrs {
		logger.Warn("Skipping inconsistent record", "leaderboard_id", lbID, "error", merr)
	}
	result.RecordsSkipped = len(mergeErrs)

	// A partial chunk failure still returns the change signals of the
	// chunks that committed. Those rows already carry the new total_games,
	// so a later sync cannot re-detect the increase; the signals must be
	// enqueued now even when the upsert as a whole errored.
	changed, err := store.UpsertStandings(ctx, standings)
	if err != nil {
		result.AddErrorf("persist leaderboard %d standings: %v", lbID, err)
	} else {
		result.LeaderboardsSynced = 1
		result.StandingsUpserted = len(standings)
	}
	result.PlayersChanged = len(changed)

	for _, batch := range queue.Chunk(changed, batchSize) {
		if err := q.Enqueue(ctx, batch); err != nil {
			result.AddErrorf("enqueue batch for leaderboard %d: %v", lbID, err)
			return result
		}
		result.BatchesEnqueued++
	}

	logger.Info("Leaderboard synced",
		"leaderboard_id", lbID,
		"standings", len(standings),
		"changed_players", len(changed),
		"batches", result.BatchesEnqueued)
	return result
}
