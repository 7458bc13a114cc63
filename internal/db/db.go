// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mythstats-data/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// EnsureSchema applies the embedded DDL with a dedicated single connection.
// Runs before the pool exists: prepared statement registration requires the
// tables to be present already.
func EnsureSchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)

	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// registerPreparedStatements registers all statements the API layer uses.
// Prepared statements eliminate parse overhead on every request. Ingestion
// writes (upserts, queue claims) use inline SQL because their shapes vary
// per chunk.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: one leaderboard page, ordered by rank, as raw JSON
		"api_leaderboard_players": `
			SELECT json_agg(p) FROM (
				SELECT statgroup_id, leaderboard_id, wins, losses, streak,
				       disputes, drops, rank,
				       rank_total AS ranktotal, rank_level AS ranklevel, rating,
				       region_rank AS regionrank,
				       region_rank_total AS regionranktotal,
				       last_match_date AS lastmatchdate,
				       highest_rank AS highestrank,
				       highest_rank_level AS highestranklevel,
				       highest_rating AS highestrating,
				       personal_statgroup_id, profile_id, level, name,
				       profile_url AS "profileUrl", country,
				       win_percent AS "winPercent", total_games AS "totalGames"
				FROM leaderboard_players
				WHERE leaderboard_id = $1
				ORDER BY rank
				LIMIT $2 OFFSET $3
			) p`,

		"count_leaderboard_players": `
			SELECT count(*) FROM leaderboard_players WHERE leaderboard_id = $1`,

		// API: name search across all leaderboards
		"api_player_search": `
			SELECT json_agg(p) FROM (
				SELECT statgroup_id, leaderboard_id, rank, rating, wins, losses,
				       profile_id, level, name,
				       profile_url AS "profileUrl", country,
				       win_percent AS "winPercent", total_games AS "totalGames"
				FROM leaderboard_players
				WHERE name ILIKE '%' || $1 || '%'
				ORDER BY rating DESC
				LIMIT $2
			) p`,

		// API: one profile's standings on every leaderboard
		"api_player_standings": `
			SELECT json_agg(p) FROM (
				SELECT statgroup_id, leaderboard_id, wins, losses, streak, rank,
				       rank_level AS ranklevel, rating,
				       last_match_date AS lastmatchdate,
				       highest_rank AS highestrank, highest_rating AS highestrating,
				       profile_id, level, name,
				       profile_url AS "profileUrl", country,
				       win_percent AS "winPercent", total_games AS "totalGames"
				FROM leaderboard_players
				WHERE profile_id = $1
				ORDER BY leaderboard_id
			) p`,

		// API: recent match documents mentioning a profile
		"api_player_matches": `
			SELECT json_agg(doc) FROM (
				SELECT jsonb_build_object(
					'matchId', match_id,
					'gameMode', game_mode,
					'matchType', match_type,
					'mapData', map_data,
					'matchDate', match_date,
					'matchDuration', match_duration,
					'teams', teams,
					'matchHistoryMap', match_history_map
				) AS doc
				FROM matches
				WHERE match_history_map ? $1::text
				ORDER BY match_date DESC
				LIMIT $2
			) m`,

		// API: one match document by id
		"api_match_by_id": `
			SELECT jsonb_build_object(
				'matchId', match_id,
				'gameMode', game_mode,
				'matchType', match_type,
				'mapData', map_data,
				'matchDate', match_date,
				'matchDuration', match_duration,
				'teams', teams,
				'matchHistoryMap', match_history_map
			)
			FROM matches WHERE match_id = $1`,

		// API: per-civilization win rates over a game mode and date window
		"api_civ_stats": `
			SELECT json_agg(c) FROM (
				SELECT (r.value->>'civilization_id')::int AS civilization_id,
				       count(*) FILTER (WHERE (r.value->>'resulttype')::int = 1) AS wins,
				       count(*) FILTER (WHERE (r.value->>'resulttype')::int <> 1) AS losses,
				       round(count(*) FILTER (WHERE (r.value->>'resulttype')::int = 1)::numeric
				             / count(*), 4) AS win_rate
				FROM matches,
				     jsonb_array_elements(teams) AS t(team),
				     jsonb_array_elements(t.team->'results') AS r(value)
				WHERE game_mode = $1
				  AND match_date >= $2 AND match_date < $3
				GROUP BY 1
				ORDER BY 1
			) c`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
