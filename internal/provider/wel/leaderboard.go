package wel

import (
	"context"
	"net/url"
	"strconv"
)

const leaderboardRoute = "/community/leaderboard/getLeaderBoard2"

// LeaderboardSnapshot is one leaderboard's full listing accumulated across
// all pages: the raw stat records and the grouped profile metadata that the
// merger joins by statgroup id.
type LeaderboardSnapshot struct {
	LeaderboardID int
	Stats         []RawStat
	Groups        []StatGroup
}

// FetchLeaderboard pages through a full leaderboard listing. The offset
// starts at 1 and advances by the page size until it reaches the
// server-reported rank total; a rank total of 0 (or absent) means exactly
// one page. A non-success page response aborts the whole leaderboard: the
// partial pages fetched so far are discarded.
func (c *Client) FetchLeaderboard(ctx context.Context, leaderboardID int) (*LeaderboardSnapshot, error) {
	snap := &LeaderboardSnapshot{LeaderboardID: leaderboardID}

	start := 1
	pages := 0
	for {
		page, err := c.fetchLeaderboardPage(ctx, leaderboardID, start)
		if err != nil {
			return nil, err
		}
		snap.Stats = append(snap.Stats, page.LeaderboardStats...)
		snap.Groups = append(snap.Groups, page.StatGroups...)
		pages++

		start += c.pageSize
		if start >= page.RankTotal {
			break
		}
	}

	c.logger.Info("Leaderboard fetched",
		"leaderboard_id", leaderboardID, "pages", pages, "records", len(snap.Stats))
	return snap, nil
}

func (c *Client) fetchLeaderboardPage(ctx context.Context, leaderboardID, start int) (*leaderboardResponse, error) {
	params := url.Values{
		"platform":       {c.platform},
		"title":          {c.title},
		"sortBy":         {"1"},
		"count":          {strconv.Itoa(c.pageSize)},
		"leaderboard_id": {strconv.Itoa(leaderboardID)},
		"start":          {strconv.Itoa(start)},
	}

	var page leaderboardResponse
	if err := c.getJSON(ctx, leaderboardRoute, params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
