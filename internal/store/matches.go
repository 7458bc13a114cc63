package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mythstats-data/internal/match"
)

// Matches persists normalized match documents.
type Matches struct {
	pool *pgxpool.Pool
}

// NewMatches creates a match store over the shared pool.
func NewMatches(pool *pgxpool.Pool) *Matches {
	return &Matches{pool: pool}
}

// InsertMatches stores records that are not already present. A match id
// already in the store is left untouched: stored matches are immutable.
// Returns the number of newly inserted rows.
func (m *Matches) InsertMatches(ctx context.Context, records []match.Record) (int, error) {
	inserted := 0
	for _, rec := range records {
		mapData, err := json.Marshal(rec.MapData)
		if err != nil {
			return inserted, &PersistenceError{Op: "encode map data", Err: err}
		}
		teams, err := json.Marshal(rec.Teams)
		if err != nil {
			return inserted, &PersistenceError{Op: "encode teams", Err: err}
		}
		historyMap, err := json.Marshal(rec.MatchHistoryMap)
		if err != nil {
			return inserted, &PersistenceError{Op: "encode history map", Err: err}
		}

		tag, err := m.pool.Exec(ctx, `
			INSERT INTO matches (
				match_id, game_mode, match_type, map_data,
				match_date, match_duration, teams, match_history_map
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (match_id) DO NOTHING`,
			rec.MatchID, rec.GameMode, rec.MatchType, mapData,
			rec.MatchDate, rec.MatchDuration, teams, historyMap,
		)
		if err != nil {
			return inserted, &PersistenceError{
				Op:  fmt.Sprintf("insert match %d", rec.MatchID),
				Err: err,
			}
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}
