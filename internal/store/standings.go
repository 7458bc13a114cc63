// Package store persists standings and match documents. Standings writes
// are chunked bulk upserts that double as the change detector; match writes
// are insert-if-absent only.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/mythstats-data/internal/leaderboard"
)

// standingsChunkSize bounds one bulk statement. Chunks are dispatched
// concurrently; a failing chunk leaves the others untouched.
const standingsChunkSize = 1000

// Standings persists player standings.
type Standings struct {
	pool *pgxpool.Pool
}

// NewStandings creates a standings store over the shared pool.
func NewStandings(pool *pgxpool.Pool) *Standings {
	return &Standings{pool: pool}
}

// upsertStandingsSQL upserts one chunk and detects changed players in the
// same statement. The prev CTE reads the pre-statement snapshot while the
// upsert CTE writes, so the compare-and-swap is atomic per key: a profile
// id is returned iff the row already existed and its stored total_games
// was strictly below the incoming value. First-time players produce no
// prior row and therefore no signal.
const upsertStandingsSQL = `
	WITH incoming AS (
		SELECT * FROM jsonb_to_recordset($1::jsonb) AS t(
			statgroup_id bigint, leaderboard_id int,
			wins int, losses int, streak int, disputes int, drops int,
			rank int, ranktotal int, ranklevel int, rating int,
			regionrank int, regionranktotal int, lastmatchdate bigint,
			highestrank int, highestranklevel int, highestrating int,
			personal_statgroup_id bigint, profile_id bigint, level int,
			name text, "profileUrl" text, country text,
			"winPercent" double precision, "totalGames" int
		)
	),
	prev AS (
		SELECT lp.leaderboard_id, lp.statgroup_id, lp.total_games
		FROM leaderboard_players lp
		JOIN incoming i
		  ON i.leaderboard_id = lp.leaderboard_id
		 AND i.statgroup_id = lp.statgroup_id
	),
	upserted AS (
		INSERT INTO leaderboard_players (
			leaderboard_id, statgroup_id, wins, losses, streak, disputes,
			drops, rank, rank_total, rank_level, rating, region_rank,
			region_rank_total, last_match_date, highest_rank,
			highest_rank_level, highest_rating, personal_statgroup_id,
			profile_id, level, name, profile_url, country, win_percent,
			total_games, updated_at
		)
		SELECT leaderboard_id, statgroup_id, wins, losses, streak, disputes,
		       drops, rank, ranktotal, ranklevel, rating, regionrank,
		       regionranktotal, lastmatchdate, highestrank, highestranklevel,
		       highestrating, personal_statgroup_id, profile_id, level,
		       name, "profileUrl", country, "winPercent", "totalGames", NOW()
		FROM incoming
		ON CONFLICT (leaderboard_id, statgroup_id) DO UPDATE SET
			wins = EXCLUDED.wins,
			losses = EXCLUDED.losses,
			streak = EXCLUDED.streak,
			disputes = EXCLUDED.disputes,
			drops = EXCLUDED.drops,
			rank = EXCLUDED.rank,
			rank_total = EXCLUDED.rank_total,
			rank_level = EXCLUDED.rank_level,
			rating = EXCLUDED.rating,
			region_rank = EXCLUDED.region_rank,
			region_rank_total = EXCLUDED.region_rank_total,
			last_match_date = EXCLUDED.last_match_date,
			highest_rank = EXCLUDED.highest_rank,
			highest_rank_level = EXCLUDED.highest_rank_level,
			highest_rating = EXCLUDED.highest_rating,
			personal_statgroup_id = EXCLUDED.personal_statgroup_id,
			profile_id = EXCLUDED.profile_id,
			level = EXCLUDED.level,
			name = EXCLUDED.name,
			profile_url = EXCLUDED.profile_url,
			country = EXCLUDED.country,
			win_percent = EXCLUDED.win_percent,
			total_games = EXCLUDED.total_games,
			updated_at = NOW()
	)
	SELECT i.profile_id
	FROM incoming i
	JOIN prev p
	  ON p.leaderboard_id = i.leaderboard_id
	 AND p.statgroup_id = i.statgroup_id
	WHERE i."totalGames" > p.total_games`

// UpsertStandings writes all standings in chunks dispatched concurrently
// and returns the profile ids of existing players whose total games
// strictly increased. Chunk order is not preserved in the returned ids;
// they are sorted for deterministic batching downstream. On a partial
// failure the ids from the chunks that committed are returned alongside
// the error.
func (s *Standings) UpsertStandings(ctx context.Context, standings []leaderboard.Standing) ([]int64, error) {
	if len(standings) == 0 {
		return nil, nil
	}

	chunks := make([][]leaderboard.Standing, 0, len(standings)/standingsChunkSize+1)
	for start := 0; start < len(standings); start += standingsChunkSize {
		end := start + standingsChunkSize
		if end > len(standings) {
			end = len(standings)
		}
		chunks = append(chunks, standings[start:end])
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		changed []int64
		failed  []string
	)

	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk []leaderboard.Standing) {
			defer wg.Done()
			ids, err := s.upsertChunk(ctx, chunk)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err.Error())
				return
			}
			changed = append(changed, ids...)
		}(chunk)
	}
	wg.Wait()

	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })

	if len(failed) > 0 {
		// The ids from committed chunks are still returned; the caller
		// must not drop them.
		return changed, &PersistenceError{
			Op:  "upsert standings",
			Err: fmt.Errorf("%d of %d chunks failed: %s", len(failed), len(chunks), failed[0]),
		}
	}

	return changed, nil
}

func (s *Standings) upsertChunk(ctx context.Context, chunk []leaderboard.Standing) ([]int64, error) {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return nil, fmt.Errorf("marshal standings chunk: %w", err)
	}

	rows, err := s.pool.Query(ctx, upsertStandingsSQL, payload)
	if err != nil {
		return nil, fmt.Errorf("upsert chunk of %d: %w", len(chunk), err)
	}
	defer rows.Close()

	var changed []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan changed profile: %w", err)
		}
		changed = append(changed, id)
	}
	return changed, rows.Err()
}
