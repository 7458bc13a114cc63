package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/mythstats-data/internal/leaderboard"
	"github.com/albapepper/mythstats-data/internal/provider/wel"
)

// fakeFetcher serves canned snapshots per leaderboard id.
type fakeFetcher struct {
	snaps map[int]*wel.LeaderboardSnapshot
	errs  map[int]error
}

func (f *fakeFetcher) FetchLeaderboard(_ context.Context, lbID int) (*wel.LeaderboardSnapshot, error) {
	if err, ok := f.errs[lbID]; ok {
		return nil, err
	}
	return f.snaps[lbID], nil
}

type standingKey struct {
	leaderboardID int
	statgroupID   int64
}

// fakeStore mimics the change detection of the real standings store: a
// profile id is reported only when the row already existed and its total
// games strictly increased.
type fakeStore struct {
	totals map[standingKey]int
	err    error

	// errChanged mimics a partial chunk failure: ids from committed
	// chunks returned alongside the error.
	errChanged []int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{totals: make(map[standingKey]int)}
}

func (f *fakeStore) UpsertStandings(_ context.Context, standings []leaderboard.Standing) ([]int64, error) {
	if f.err != nil {
		return f.errChanged, f.err
	}
	var changed []int64
	for _, s := range standings {
		key := standingKey{s.LeaderboardID, s.StatgroupID}
		prev, existed := f.totals[key]
		f.totals[key] = s.TotalGames
		if existed && s.TotalGames > prev {
			changed = append(changed, s.ProfileID)
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i] < changed[j] })
	return changed, nil
}

type fakeEnqueuer struct {
	batches [][]int64
	err     error
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, profileIDs []int64) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, profileIDs)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func snapOf(lbID int, games map[int64]int) *wel.LeaderboardSnapshot {
	snap := &wel.LeaderboardSnapshot{LeaderboardID: lbID}
	ids := make([]int64, 0, len(games))
	for id := range games {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		snap.Stats = append(snap.Stats, wel.RawStat{StatgroupID: id, Wins: games[id]})
		snap.Groups = append(snap.Groups, wel.StatGroup{
			ID:      id,
			Members: []wel.Member{{ProfileID: id * 10, Alias: fmt.Sprintf("player%d", id)}},
		})
	}
	return snap
}

func TestSyncLeaderboards_FirstRunEnqueuesNothing(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{
		1: snapOf(1, map[int64]int{100: 5, 200: 8}),
	}}
	store := newFakeStore()
	q := &fakeEnqueuer{}

	result := SyncLeaderboards(context.Background(), fetcher, store, q, []int{1}, 200, discardLogger())

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.LeaderboardsSynced)
	assert.Equal(t, 2, result.StandingsUpserted)
	assert.Zero(t, result.PlayersChanged)
	assert.Zero(t, result.BatchesEnqueued)
	assert.Empty(t, q.batches)
}

func TestSyncLeaderboards_OnlyIncreasedTotalsAreEnqueued(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{
		1: snapOf(1, map[int64]int{100: 5, 200: 8, 300: 3}),
	}}
	store := newFakeStore()
	q := &fakeEnqueuer{}
	ctx := context.Background()

	SyncLeaderboards(ctx, fetcher, store, q, []int{1}, 200, discardLogger())

	// Second run: 100 played more games, 200 unchanged, 300 dropped,
	// 400 is a first-timer.
	fetcher.snaps[1] = snapOf(1, map[int64]int{100: 7, 200: 8, 400: 1})
	result := SyncLeaderboards(ctx, fetcher, store, q, []int{1}, 200, discardLogger())

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.PlayersChanged)
	assert.Equal(t, 1, result.BatchesEnqueued)
	require.Len(t, q.batches, 1)
	assert.Equal(t, []int64{1000}, q.batches[0])
}

func TestSyncLeaderboards_ChangedPlayersSplitIntoBatches(t *testing.T) {
	first := make(map[int64]int)
	second := make(map[int64]int)
	for i := int64(1); i <= 450; i++ {
		first[i] = 1
		second[i] = 2
	}
	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{1: snapOf(1, first)}}
	store := newFakeStore()
	q := &fakeEnqueuer{}
	ctx := context.Background()

	SyncLeaderboards(ctx, fetcher, store, q, []int{1}, 200, discardLogger())
	fetcher.snaps[1] = snapOf(1, second)
	result := SyncLeaderboards(ctx, fetcher, store, q, []int{1}, 200, discardLogger())

	assert.Equal(t, 450, result.PlayersChanged)
	assert.Equal(t, 3, result.BatchesEnqueued)
	require.Len(t, q.batches, 3)
	assert.Len(t, q.batches[0], 200)
	assert.Len(t, q.batches[1], 200)
	assert.Len(t, q.batches[2], 50)
}

func TestSyncLeaderboards_FetchFailureDoesNotAbortOthers(t *testing.T) {
	fetcher := &fakeFetcher{
		snaps: map[int]*wel.LeaderboardSnapshot{
			2: snapOf(2, map[int64]int{100: 5}),
		},
		errs: map[int]error{
			1: &wel.UpstreamError{Endpoint: "/community/leaderboard/getLeaderBoard2", StatusCode: 503},
		},
	}
	store := newFakeStore()
	q := &fakeEnqueuer{}

	result := SyncLeaderboards(context.Background(), fetcher, store, q, []int{1, 2}, 200, discardLogger())

	assert.Equal(t, 1, result.LeaderboardsSynced)
	assert.Equal(t, 1, result.StandingsUpserted)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "fetch leaderboard 1")
}

func TestSyncLeaderboards_InconsistentRecordsSkippedNotFatal(t *testing.T) {
	snap := snapOf(1, map[int64]int{100: 5})
	// A group with no matching stat record.
	snap.Groups = append(snap.Groups, wel.StatGroup{ID: 999, Members: []wel.Member{{ProfileID: 9990}}})

	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{1: snap}}
	store := newFakeStore()
	q := &fakeEnqueuer{}

	result := SyncLeaderboards(context.Background(), fetcher, store, q, []int{1}, 200, discardLogger())

	assert.Empty(t, result.Errors)
	assert.Equal(t, 1, result.RecordsSkipped)
	assert.Equal(t, 1, result.StandingsUpserted)
}

func TestSyncLeaderboards_PersistFailureRecorded(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{
		1: snapOf(1, map[int64]int{100: 5}),
	}}
	store := newFakeStore()
	store.err = errors.New("connection refused")
	q := &fakeEnqueuer{}

	result := SyncLeaderboards(context.Background(), fetcher, store, q, []int{1}, 200, discardLogger())

	assert.Zero(t, result.LeaderboardsSynced)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "persist leaderboard 1")
	assert.Empty(t, q.batches)
}

func TestSyncLeaderboards_PartialPersistFailureStillEnqueuesCommitted(t *testing.T) {
	fetcher := &fakeFetcher{snaps: map[int]*wel.LeaderboardSnapshot{
		1: snapOf(1, map[int64]int{100: 5, 200: 8}),
	}}
	// The store committed one chunk (change signals 1000, 2000) before
	// another chunk failed. Those players' rows already carry the new
	// totals, so dropping the signals would lose their backfill for good.
	store := newFakeStore()
	store.err = errors.New("1 of 2 chunks failed")
	store.errChanged = []int64{1000, 2000}
	q := &fakeEnqueuer{}

	result := SyncLeaderboards(context.Background(), fetcher, store, q, []int{1}, 200, discardLogger())

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "persist leaderboard 1")
	assert.Zero(t, result.LeaderboardsSynced)

	assert.Equal(t, 2, result.PlayersChanged)
	assert.Equal(t, 1, result.BatchesEnqueued)
	require.Len(t, q.batches, 1)
	assert.Equal(t, []int64{1000, 2000}, q.batches[0])
}
