package pipeline

import (
	"context"
	"log/slog"

	"github.com/albapepper/mythstats-data/internal/match"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
	"github.com/albapepper/mythstats-data/internal/queue"
)

// Receiver claims batches from the backfill queue and deletes them once
// their batch is persisted.
type Receiver interface {
	Receive(ctx context.Context) ([]queue.Message, error)
	Delete(ctx context.Context, id int64) error
}

// HistoryFetcher retrieves raw match history for one batch of profile ids.
type HistoryFetcher interface {
	FetchMatchHistory(ctx context.Context, profileIDs []int64) (*wel.MatchHistory, error)
}

// MatchWriter stores normalized match records, skipping ids already
// present.
type MatchWriter interface {
	InsertMatches(ctx context.Context, records []match.Record) (int, error)
}

// DrainBackfillQueue runs the consumer pipeline until a poll comes back
// empty: claim messages, fetch and normalize each batch's history, persist
// it, then delete the message. A message whose batch fails anywhere before
// successful persistence is NOT deleted; it reappears after the visibility
// timeout and the whole batch is retried, which is safe because match
// inserts are idempotent.
func DrainBackfillQueue(
	ctx context.Context,
	r Receiver,
	fetcher HistoryFetcher,
	writer MatchWriter,
	logger *slog.Logger,
) Result {
	var result Result

	for {
		msgs, err := r.Receive(ctx)
		if err != nil {
			result.AddErrorf("receive messages: %v", err)
			return result
		}
		if len(msgs) == 0 {
			logger.Info("No more messages to process", "summary", result.Summary())
			return result
		}

		for _, msg := range msgs {
			if err := processMessage(ctx, msg, fetcher, writer, &result, logger); err != nil {
				result.AddErrorf("message %d: %v", msg.ID, err)
				continue
			}
			if err := r.Delete(ctx, msg.ID); err != nil {
				// The batch is persisted; redelivery will be a no-op.
				result.AddErrorf("delete message %d: %v", msg.ID, err)
				continue
			}
			result.MessagesProcessed++
		}
	}
}

func processMessage(
	ctx context.Context,
	msg queue.Message,
	fetcher HistoryFetcher,
	writer MatchWriter,
	result *Result,
	logger *slog.Logger,
) error {
	logger.Info("Processing message",
		"message_id", msg.ID, "profiles", len(msg.ProfileIDs), "attempt", msg.Attempts)

	history, err := fetcher.FetchMatchHistory(ctx, msg.ProfileIDs)
	if err != nil {
		return err
	}

	records := match.Normalize(history, logger)

	inserted, err := writer.InsertMatches(ctx, records)
	if err != nil {
		return err
	}
	result.MatchesInserted += inserted

	logger.Info("Message batch persisted",
		"message_id", msg.ID, "matches", len(records), "inserted", inserted)
	return nil
}
