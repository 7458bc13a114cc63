// Package match normalizes raw upstream match history into canonical match
// documents: map metadata, per-team per-player results with decoded
// post-game statistics, and per-player historical ranking deltas.
package match

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"

	"github.com/albapepper/mythstats-data/internal/provider/wel"
)

// PostgameStats is the decoded post-game statistics block embedded as a
// serialized counters field in each result row.
type PostgameStats struct {
	MapID                        int `json:"mapID"`
	PostGameAwardHighestScore    int `json:"postGameAward_HighestScore"`
	PostGameAwardMostDeaths      int `json:"postGameAward_MostDeaths"`
	PostGameAwardMostImprovement int `json:"postGameAward_MostImprovements"`
	PostGameAwardMostKills       int `json:"postGameAward_MostKills"`
	PostGameAwardMostResources   int `json:"postGameAward_MostResources"`
	PostGameAwardMostTitanKills  int `json:"postGameAward_MostTitanKills"`
	PostGameAwardLargestArmy     int `json:"postGameAward_largestArmy"`
	RankedMatch                  int `json:"rankedMatch"`
	ScoreEconomic                int `json:"score_Economic"`
	ScoreMilitary                int `json:"score_Military"`
	ScoreTechnology              int `json:"score_Technology"`
	ScoreTotal                   int `json:"score_Total"`
	StatBuildingsRazed           int `json:"stat_BuildingsRazed"`
	StatUnitsKilled              int `json:"stat_UnitsKilled"`
	StatUnitsLost                int `json:"stat_UnitsLost"`
}

// PlayerResult is one player's outcome within a team.
type PlayerResult struct {
	CivilizationID int   `json:"civilization_id"`
	MatchhistoryID int64 `json:"matchhistory_id"`
	MatchStartDate int64 `json:"matchstartdate"`
	ProfileID      int64 `json:"profile_id"`
	RaceID         int   `json:"race_id"`
	ResultType     int   `json:"resulttype"`
	TeamID         int   `json:"teamid"`
	XPGained       int   `json:"xpgained"`

	// PostgameStats is nil when the embedded counters payload was
	// malformed; the rest of the result row is still produced.
	PostgameStats *PostgameStats `json:"postgameStats"`
	PlayerName    string         `json:"playerName"`
}

// TeamResult groups the result rows of one team.
type TeamResult struct {
	TeamID  int            `json:"teamid"`
	Results []PlayerResult `json:"results"`
}

// Record is one canonical match document.
type Record struct {
	GameMode      string  `json:"gameMode"`
	MatchType     string  `json:"matchType"`
	MatchID       int64   `json:"matchId"`
	MapData       MapData `json:"mapData"`
	MatchDate     int64   `json:"matchDate"`
	MatchDuration int64   `json:"matchDuration"`

	Teams []TeamResult `json:"teams"`

	// MatchHistoryMap is keyed by decimal profile id: every statistics
	// group the player belongs to contributes one delta row.
	MatchHistoryMap map[string][]wel.RawMember `json:"matchHistoryMap"`
}

// Normalize transforms a raw match history batch into canonical records,
// sorted by completion time descending (stable; ties keep original order).
// A malformed counters payload degrades that player's post-game stats to
// nil instead of failing the match or the batch.
func Normalize(history *wel.MatchHistory, logger *slog.Logger) []Record {
	if logger == nil {
		logger = slog.Default()
	}

	matches := make([]wel.RawMatch, len(history.Matches))
	copy(matches, history.Matches)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CompletionTime > matches[j].CompletionTime
	})

	profileMap := make(map[int64]wel.Profile, len(history.Profiles))
	for _, p := range history.Profiles {
		profileMap[p.ProfileID] = p
	}

	records := make([]Record, 0, len(matches))
	for _, m := range matches {
		records = append(records, normalizeMatch(m, profileMap, logger))
	}
	return records
}

func normalizeMatch(m wel.RawMatch, profiles map[int64]wel.Profile, logger *slog.Logger) Record {
	mapData := ResolveMap(ParseMapName(m.MapName))

	return Record{
		GameMode:        GameModeName(m.MatchTypeID),
		MatchType:       m.Description,
		MatchID:         m.ID,
		MapData:         mapData,
		MatchDate:       m.StartGameTime * 1000,
		MatchDuration:   m.CompletionTime - m.StartGameTime,
		Teams:           groupTeams(m, profiles, logger),
		MatchHistoryMap: buildHistoryMap(m.Members),
	}
}

// groupTeams groups result rows by team id, decoding each row's counters
// and resolving the player display name. Team order follows first
// appearance in the raw rows.
func groupTeams(m wel.RawMatch, profiles map[int64]wel.Profile, logger *slog.Logger) []TeamResult {
	index := make(map[int]int)
	teams := make([]TeamResult, 0, 2)

	for _, row := range m.ReportResults {
		result := PlayerResult{
			CivilizationID: row.CivilizationID,
			MatchhistoryID: row.MatchhistoryID,
			MatchStartDate: row.MatchStartDate,
			ProfileID:      row.ProfileID,
			RaceID:         row.RaceID,
			ResultType:     row.ResultType,
			TeamID:         row.TeamID,
			XPGained:       row.XPGained,
			PostgameStats:  decodeCounters(m.ID, row, logger),
		}
		if p, ok := profiles[row.ProfileID]; ok {
			result.PlayerName = p.Alias
		}

		i, ok := index[row.TeamID]
		if !ok {
			i = len(teams)
			index[row.TeamID] = i
			teams = append(teams, TeamResult{TeamID: row.TeamID})
		}
		teams[i].Results = append(teams[i].Results, result)
	}

	return teams
}

func decodeCounters(matchID int64, row wel.RawReportResult, logger *slog.Logger) *PostgameStats {
	var stats PostgameStats
	if err := json.Unmarshal([]byte(row.Counters), &stats); err != nil {
		logger.Warn("Malformed counters payload, dropping post-game stats",
			"match_id", matchID, "profile_id", row.ProfileID, "error", err)
		return nil
	}
	return &stats
}

func buildHistoryMap(members []wel.RawMember) map[string][]wel.RawMember {
	historyMap := make(map[string][]wel.RawMember)
	for _, member := range members {
		key := strconv.FormatInt(member.ProfileID, 10)
		historyMap[key] = append(historyMap[key], member)
	}
	return historyMap
}
