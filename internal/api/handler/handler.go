// Package handler provides HTTP handlers for all API endpoints.
// Read handlers query Postgres directly via pgxpool — prepared statements
// return complete JSON and handlers pass raw bytes through. Sync handlers
// run the ingestion pipelines inline and report their results.
package handler

import (
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mythstats-data/internal/api/respond"
	"github.com/albapepper/mythstats-data/internal/cache"
	"github.com/albapepper/mythstats-data/internal/config"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
	"github.com/albapepper/mythstats-data/internal/queue"
	"github.com/albapepper/mythstats-data/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool      *pgxpool.Pool
	cache     *cache.Cache
	cfg       *config.Config
	client    *wel.Client
	queue     *queue.Queue
	standings *store.Standings
	matches   *store.Matches
}

// New creates a Handler with shared dependencies.
func New(pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{
		pool:      pool,
		cache:     c,
		cfg:       cfg,
		client:    wel.NewClient(cfg.WELBaseURL, cfg.WELTitle, cfg.WELPlatform, cfg.PageSize, cfg.MatchHistoryRPS, nil),
		queue:     queue.New(pool, cfg.QueueVisibility, cfg.QueuePollWait),
		standings: store.NewStandings(pool),
		matches:   store.NewMatches(pool),
	}
}

// Root serves API info at /.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Myth Stats Data API",
		"version": "1.0.0",
		"status":  "running",
		"optimizations": []string{
			"pgxpool_connection_pooling",
			"prepared_statements",
			"postgres_json_passthrough",
			"gzip_compression",
			"in_memory_cache",
			"etag_support",
		},
	})
}

// HealthCheck returns basic health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckQueue reports the backfill queue depth.
func (h *Handler) HealthCheckQueue(w http.ResponseWriter, r *http.Request) {
	depth, err := h.queue.Depth(r.Context())
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"error":     "Queue depth check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"depth":     depth,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
