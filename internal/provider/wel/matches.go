package wel

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const matchHistoryRoute = "/community/leaderboard/getRecentMatchHistory"

// MatchHistory holds the raw match and profile arrays for one batch of
// player identifiers.
type MatchHistory struct {
	Matches  []RawMatch
	Profiles []Profile
}

// FetchMatchHistory retrieves recent match records for a batch of player
// identifiers in a single rate-limited call. The shared limiter spaces
// successive calls so the aggregate outbound rate stays under the
// configured requests per second.
func (c *Client) FetchMatchHistory(ctx context.Context, profileIDs []int64) (*MatchHistory, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{
		"title":       {c.title},
		"profile_ids": {formatProfileIDs(profileIDs)},
	}

	var resp matchHistoryResponse
	if err := c.getJSON(ctx, matchHistoryRoute, params, &resp); err != nil {
		return nil, err
	}

	c.logger.Debug("Match history fetched",
		"profiles_requested", len(profileIDs), "matches", len(resp.MatchHistoryStats))
	return &MatchHistory{Matches: resp.MatchHistoryStats, Profiles: resp.Profiles}, nil
}

// formatProfileIDs renders ids as the bracketed comma-joined list the
// endpoint expects, e.g. "[123,456]".
func formatProfileIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
