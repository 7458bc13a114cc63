package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	corslib "github.com/rs/cors"

	"github.com/albapepper/mythstats-data/internal/api/handler"
	"github.com/albapepper/mythstats-data/internal/cache"
	"github.com/albapepper/mythstats-data/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *pgxpool.Pool, appCache *cache.Cache, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, appCache, cfg)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
		r.Get("/queue", h.HealthCheckQueue)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Leaderboards
		r.Get("/leaderboards", h.GetLeaderboards)
		r.Get("/leaderboards/{leaderboardID}/players", h.GetLeaderboardPlayers)
		r.Get("/players/search", h.SearchPlayers)

		// Players
		r.Get("/players/{profileID}/standings", h.GetPlayerStandings)
		r.Get("/players/{profileID}/matches", h.GetPlayerMatches)

		// Matches
		r.Get("/matches/{matchID}", h.GetMatch)
		r.Get("/maps", h.GetMaps)
		r.Get("/modes", h.GetModes)
		r.Get("/stats/civs", h.GetCivStats)

		// Sync triggers
		r.Post("/sync/leaderboards", h.TriggerLeaderboardSync)
		r.Post("/sync/matches", h.TriggerMatchSync)
	})

	return r
}
