package handler

import (
	"log/slog"
	"net/http"

	"github.com/albapepper/mythstats-data/internal/api/respond"
	"github.com/albapepper/mythstats-data/internal/pipeline"
)

// TriggerLeaderboardSync runs the producer pipeline inline and reports the
// outcome. The status is coarse: 200 on a clean run, 500 if any
// leaderboard failed.
func (h *Handler) TriggerLeaderboardSync(w http.ResponseWriter, r *http.Request) {
	result := pipeline.SyncLeaderboards(
		r.Context(), h.client, h.standings, h.queue,
		h.cfg.LeaderboardIDs, h.cfg.BatchSize, slog.Default(),
	)

	if len(result.Errors) > 0 {
		respond.WriteJSONObject(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Leaderboard extraction failed",
			"summary": result.Summary(),
			"errors":  result.Errors,
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"message": "Leaderboard extraction successful",
		"summary": result.Summary(),
	})
}

// TriggerMatchSync drains the backfill queue inline and reports the
// outcome.
func (h *Handler) TriggerMatchSync(w http.ResponseWriter, r *http.Request) {
	result := pipeline.DrainBackfillQueue(
		r.Context(), h.queue, h.client, h.matches, slog.Default(),
	)

	if len(result.Errors) > 0 {
		respond.WriteJSONObject(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Match extraction failed",
			"summary": result.Summary(),
			"errors":  result.Errors,
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"message": "All messages processed successfully",
		"summary": result.Summary(),
	})
}
