// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/sync.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Leaderboard registry — the ranked ladders synced from the upstream service
// --------------------------------------------------------------------------

type LeaderboardConfig struct {
	ID   int
	Name string
}

var LeaderboardRegistry = map[int]LeaderboardConfig{
	1: {ID: 1, Name: "1v1 Supremacy"},
	2: {ID: 2, Name: "Team Supremacy"},
	3: {ID: 3, Name: "Deathmatch"},
	4: {ID: 4, Name: "Team Deathmatch"},
}

// --------------------------------------------------------------------------
// Table names — single source of truth, matches schema.sql
// --------------------------------------------------------------------------

const (
	LeaderboardPlayersTable = "leaderboard_players"
	MatchesTable            = "matches"
	BackfillQueueTable      = "match_backfill_queue"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting (inbound API)
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream statistics service
	WELBaseURL      string
	WELTitle        string
	WELPlatform     string
	PageSize        int
	LeaderboardIDs  []int
	MatchHistoryRPS int

	// Backfill queue
	BatchSize        int
	QueueVisibility  time.Duration
	QueuePollWait    time.Duration
	QueueMaxAttempts int

	// Background sync
	SyncInterval time.Duration

	// Cache
	CacheEnabled bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", envOr("NEON_DATABASE_URL", ""))
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL or NEON_DATABASE_URL must be set")
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		WELBaseURL:      envOr("WEL_BASE_URL", "https://athens-live-api.worldsedgelink.com"),
		WELTitle:        envOr("WEL_TITLE", "athens"),
		WELPlatform:     envOr("WEL_PLATFORM", "PC_STEAM"),
		PageSize:        envInt("LEADERBOARD_PAGE_SIZE", 200),
		LeaderboardIDs:  envIntList("LEADERBOARD_IDS", []int{1, 2, 3, 4}),
		MatchHistoryRPS: envInt("MATCH_HISTORY_RPS", 50),

		BatchSize:        envInt("BACKFILL_BATCH_SIZE", 200),
		QueueVisibility:  time.Duration(envInt("QUEUE_VISIBILITY_SECONDS", 300)) * time.Second,
		QueuePollWait:    time.Duration(envInt("QUEUE_POLL_WAIT_SECONDS", 20)) * time.Second,
		QueueMaxAttempts: envInt("QUEUE_MAX_ATTEMPTS", 10),

		SyncInterval: time.Duration(envInt("SYNC_INTERVAL_MINUTES", 0)) * time.Minute,

		CacheEnabled: envBool("CACHE_ENABLED", true),
	}, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func envIntList(key string, fallback []int) []int {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]int, 0, len(parts))
		for _, p := range parts {
			if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				result = append(result, n)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
