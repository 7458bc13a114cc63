package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/mythstats-data/internal/provider/wel"
)

const validCounters = `{"mapID":3,"rankedMatch":1,"score_Total":5200,"score_Military":2100,"stat_UnitsKilled":140,"stat_UnitsLost":87}`

func TestParseMapName(t *testing.T) {
	assert.Equal(t, "oasis", ParseMapName("rm_oasis"))
	assert.Equal(t, "river_nile", ParseMapName("dm_river_nile"))
	assert.Equal(t, "oasis", ParseMapName("oasis"))
	assert.Equal(t, "", ParseMapName(""))
}

func TestResolveMap_KnownMaps(t *testing.T) {
	oasis := ResolveMap("oasis")
	assert.Equal(t, "Oasis", oasis.Name)
	assert.Equal(t, "/maps/oasis.png", oasis.ImagePath)
	assert.False(t, oasis.IsWater)

	islands := ResolveMap("islands")
	assert.Equal(t, "Islands", islands.Name)
	assert.True(t, islands.IsWater)

	air := ResolveMap("air")
	assert.Equal(t, "Aïr", air.Name)
}

func TestResolveMap_UnknownFallsBackToPlaceholder(t *testing.T) {
	got := ResolveMap("brand_new_map")

	assert.Equal(t, MapData{
		Name:      "brand_new_map",
		ImagePath: "/maps/the_unknown.png",
		IsWater:   false,
	}, got)
}

func TestGameModeName(t *testing.T) {
	assert.Equal(t, "CUSTOM", GameModeName(0))
	assert.Equal(t, "1V1_SUPREMACY", GameModeName(1))
	assert.Equal(t, UnknownGameMode, GameModeName(26))
	assert.Equal(t, UnknownGameMode, GameModeName(40))
	assert.Equal(t, UnknownGameMode, GameModeName(-1))
}

func TestNormalize_SortsByCompletionTimeDescending(t *testing.T) {
	history := &wel.MatchHistory{
		Matches: []wel.RawMatch{
			{ID: 1, CompletionTime: 100, StartGameTime: 50},
			{ID: 2, CompletionTime: 300, StartGameTime: 250},
			{ID: 3, CompletionTime: 200, StartGameTime: 150},
			{ID: 4, CompletionTime: 300, StartGameTime: 260},
		},
	}

	records := Normalize(history, nil)

	require.Len(t, records, 4)
	// Ties on completion time keep original order.
	assert.Equal(t, int64(2), records[0].MatchID)
	assert.Equal(t, int64(4), records[1].MatchID)
	assert.Equal(t, int64(3), records[2].MatchID)
	assert.Equal(t, int64(1), records[3].MatchID)

	// Input order untouched.
	assert.Equal(t, int64(1), history.Matches[0].ID)
}

func TestNormalize_BuildsCanonicalRecord(t *testing.T) {
	history := &wel.MatchHistory{
		Matches: []wel.RawMatch{{
			ID:             9001,
			MapName:        "rm_watering_hole",
			MatchTypeID:    1,
			Description:    "AUTOMATCH",
			StartGameTime:  1717000000,
			CompletionTime: 1717001830,
			ReportResults: []wel.RawReportResult{
				{MatchhistoryID: 9001, ProfileID: 10, TeamID: 0, ResultType: 1, CivilizationID: 3, XPGained: 120, Counters: validCounters},
				{MatchhistoryID: 9001, ProfileID: 20, TeamID: 1, ResultType: 0, CivilizationID: 7, Counters: validCounters},
			},
			Members: []wel.RawMember{
				{MatchhistoryID: 9001, ProfileID: 10, StatgroupID: 100, OldRating: 1650, NewRating: 1662, Outcome: 1},
				{MatchhistoryID: 9001, ProfileID: 10, StatgroupID: 101, OldRating: 1400, NewRating: 1410, Outcome: 1},
				{MatchhistoryID: 9001, ProfileID: 20, StatgroupID: 200, OldRating: 1700, NewRating: 1688, Outcome: 0},
			},
		}},
		Profiles: []wel.Profile{
			{ProfileID: 10, Alias: "PoseidonFan"},
			{ProfileID: 20, Alias: "LokiEnjoyer"},
		},
	}

	records := Normalize(history, nil)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, int64(9001), rec.MatchID)
	assert.Equal(t, "1V1_SUPREMACY", rec.GameMode)
	assert.Equal(t, "AUTOMATCH", rec.MatchType)
	assert.Equal(t, "Watering Hole", rec.MapData.Name)
	assert.Equal(t, int64(1717000000000), rec.MatchDate)
	assert.Equal(t, int64(1830), rec.MatchDuration)

	require.Len(t, rec.Teams, 2)
	assert.Equal(t, 0, rec.Teams[0].TeamID)
	assert.Equal(t, 1, rec.Teams[1].TeamID)

	winner := rec.Teams[0].Results[0]
	assert.Equal(t, "PoseidonFan", winner.PlayerName)
	assert.Equal(t, 1, winner.ResultType)
	require.NotNil(t, winner.PostgameStats)
	assert.Equal(t, 5200, winner.PostgameStats.ScoreTotal)
	assert.Equal(t, 140, winner.PostgameStats.StatUnitsKilled)
	assert.Equal(t, 1, winner.PostgameStats.RankedMatch)

	require.Len(t, rec.MatchHistoryMap, 2)
	assert.Len(t, rec.MatchHistoryMap["10"], 2)
	assert.Len(t, rec.MatchHistoryMap["20"], 1)
	assert.Equal(t, 1662, rec.MatchHistoryMap["10"][0].NewRating)
}

func TestNormalize_MalformedCountersDegradesToNilStats(t *testing.T) {
	history := &wel.MatchHistory{
		Matches: []wel.RawMatch{{
			ID:             42,
			MapName:        "rm_oasis",
			MatchTypeID:    1,
			StartGameTime:  100,
			CompletionTime: 200,
			ReportResults: []wel.RawReportResult{
				{ProfileID: 1, TeamID: 0, Counters: `{"score_Total":`},
				{ProfileID: 2, TeamID: 1, Counters: validCounters},
			},
		}},
	}

	records := Normalize(history, nil)
	require.Len(t, records, 1)
	require.Len(t, records[0].Teams, 2)

	assert.Nil(t, records[0].Teams[0].Results[0].PostgameStats)
	assert.Equal(t, int64(1), records[0].Teams[0].Results[0].ProfileID)
	assert.NotNil(t, records[0].Teams[1].Results[0].PostgameStats)
}

func TestNormalize_UnknownProfileLeavesNameEmpty(t *testing.T) {
	history := &wel.MatchHistory{
		Matches: []wel.RawMatch{{
			ID: 7, MapName: "rm_midgard", MatchTypeID: 2,
			ReportResults: []wel.RawReportResult{{ProfileID: 99, Counters: "{}"}},
		}},
	}

	records := Normalize(history, nil)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Teams[0].Results[0].PlayerName)
	assert.True(t, records[0].MapData.IsWater)
}

func TestNormalize_TeamOrderFollowsFirstAppearance(t *testing.T) {
	history := &wel.MatchHistory{
		Matches: []wel.RawMatch{{
			ID: 8, MapName: "rm_anatolia", MatchTypeID: 5,
			ReportResults: []wel.RawReportResult{
				{ProfileID: 1, TeamID: 1, Counters: "{}"},
				{ProfileID: 2, TeamID: 0, Counters: "{}"},
				{ProfileID: 3, TeamID: 1, Counters: "{}"},
				{ProfileID: 4, TeamID: 0, Counters: "{}"},
			},
		}},
	}

	records := Normalize(history, nil)
	require.Len(t, records, 1)
	teams := records[0].Teams

	require.Len(t, teams, 2)
	assert.Equal(t, 1, teams[0].TeamID)
	assert.Equal(t, 0, teams[1].TeamID)
	assert.Len(t, teams[0].Results, 2)
	assert.Len(t, teams[1].Results, 2)
}

func TestNormalize_EmptyBatch(t *testing.T) {
	records := Normalize(&wel.MatchHistory{}, nil)
	assert.Empty(t, records)
}
