package wel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// leaderboardServer fakes the listing endpoint: rankTotal players served in
// rank order, page-sliced by the start/count query parameters.
func leaderboardServer(t *testing.T, rankTotal int, starts *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, leaderboardRoute, r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "athens", q.Get("title"))
		assert.Equal(t, "PC_STEAM", q.Get("platform"))

		var start, count int
		_, err := fmt.Sscan(q.Get("start"), &start)
		require.NoError(t, err)
		_, err = fmt.Sscan(q.Get("count"), &count)
		require.NoError(t, err)
		*starts = append(*starts, start)

		resp := leaderboardResponse{RankTotal: rankTotal}
		for rank := start; rank < start+count && rank <= rankTotal; rank++ {
			id := int64(rank)
			resp.LeaderboardStats = append(resp.LeaderboardStats, RawStat{StatgroupID: id, Rank: rank, Wins: 1})
			resp.StatGroups = append(resp.StatGroups, StatGroup{ID: id, Members: []Member{{ProfileID: id}}})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func newTestClient(baseURL string, pageSize int) *Client {
	return NewClient(baseURL, "athens", "PC_STEAM", pageSize, 50, nil)
}

func TestFetchLeaderboard_SinglePage(t *testing.T) {
	var starts []int
	srv := leaderboardServer(t, 150, &starts)
	defer srv.Close()

	snap, err := newTestClient(srv.URL, 200).FetchLeaderboard(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int{1}, starts)
	assert.Len(t, snap.Stats, 150)
	assert.Len(t, snap.Groups, 150)
	assert.Equal(t, 1, snap.LeaderboardID)
}

func TestFetchLeaderboard_PagesThroughRankTotal(t *testing.T) {
	var starts []int
	srv := leaderboardServer(t, 401, &starts)
	defer srv.Close()

	snap, err := newTestClient(srv.URL, 200).FetchLeaderboard(context.Background(), 2)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 201, 401}, starts)
	assert.Len(t, snap.Stats, 401)
}

func TestFetchLeaderboard_ExactMultipleStopsAtTotal(t *testing.T) {
	var starts []int
	srv := leaderboardServer(t, 400, &starts)
	defer srv.Close()

	snap, err := newTestClient(srv.URL, 200).FetchLeaderboard(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 201}, starts)
	assert.Len(t, snap.Stats, 400)
}

func TestFetchLeaderboard_ZeroRankTotalMeansOnePage(t *testing.T) {
	var starts []int
	srv := leaderboardServer(t, 0, &starts)
	defer srv.Close()

	snap, err := newTestClient(srv.URL, 200).FetchLeaderboard(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, []int{1}, starts)
	assert.Empty(t, snap.Stats)
}

func TestFetchLeaderboard_UpstreamFailureDiscardsPartialPages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			resp := leaderboardResponse{
				RankTotal:        500,
				LeaderboardStats: []RawStat{{StatgroupID: 1}},
				StatGroups:       []StatGroup{{ID: 1}},
			}
			require.NoError(t, json.NewEncoder(w).Encode(resp))
			return
		}
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	snap, err := newTestClient(srv.URL, 200).FetchLeaderboard(context.Background(), 1)

	require.Error(t, err)
	assert.Nil(t, snap)

	var ue *UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, leaderboardRoute, ue.Endpoint)
	assert.Contains(t, ue.Body, "service unavailable")
}

func TestFetchMatchHistory_SendsBracketedIDList(t *testing.T) {
	var gotTitle, gotIDs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, matchHistoryRoute, r.URL.Path)
		gotTitle = r.URL.Query().Get("title")
		gotIDs = r.URL.Query().Get("profile_ids")
		resp := matchHistoryResponse{
			MatchHistoryStats: []RawMatch{{ID: 55}},
			Profiles:          []Profile{{ProfileID: 123, Alias: "p"}},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer srv.Close()

	history, err := newTestClient(srv.URL, 200).FetchMatchHistory(context.Background(), []int64{123, 456})

	require.NoError(t, err)
	assert.Equal(t, "athens", gotTitle)
	assert.Equal(t, "[123,456]", gotIDs)
	require.Len(t, history.Matches, 1)
	assert.Equal(t, int64(55), history.Matches[0].ID)
	assert.Len(t, history.Profiles, 1)
}

func TestFetchMatchHistory_SpacesSuccessiveCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(matchHistoryResponse{}))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 200) // 50 rps, burst 1: >= 20ms between calls

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.FetchMatchHistory(context.Background(), []int64{1})
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestFetchMatchHistory_LimiterHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(matchHistoryResponse{}))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 200)
	_, err := c.FetchMatchHistory(context.Background(), []int64{1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.FetchMatchHistory(ctx, []int64{2})
	require.Error(t, err)
}

func TestFormatProfileIDs(t *testing.T) {
	assert.Equal(t, "[7]", formatProfileIDs([]int64{7}))
	assert.Equal(t, "[1,2,3]", formatProfileIDs([]int64{1, 2, 3}))
	assert.Equal(t, "[]", formatProfileIDs(nil))
}
