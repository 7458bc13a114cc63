package pipeline

import (
	"context"
	"log/slog"
	"time"
)

// StartWorker runs fn on a fixed interval until ctx is cancelled. Blocks;
// intended to be called with `go`. A zero interval disables the worker.
func StartWorker(ctx context.Context, interval time.Duration, name string, logger *slog.Logger, fn func(context.Context)) {
	if interval <= 0 {
		return
	}

	logger.Info("Background worker started", "worker", name, "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fn(ctx)
		case <-ctx.Done():
			logger.Info("Background worker stopped", "worker", name)
			return
		}
	}
}
