package leaderboard

import (
	"fmt"

	"github.com/albapepper/mythstats-data/internal/provider/wel"
)

// DataConsistencyError reports a stat group present in one accumulated
// collection but missing its counterpart in the other. Non-retryable;
// affects only the one record.
type DataConsistencyError struct {
	StatgroupID int64
	Reason      string
}

func (e *DataConsistencyError) Error() string {
	return fmt.Sprintf("statgroup %d: %s", e.StatgroupID, e.Reason)
}

// Merge joins the raw stat records with the grouped profile metadata by
// statgroup id, producing one Standing per player group. Inconsistent
// records (a group with no stat record, or a group with no members) are
// skipped and reported; they never abort the rest of the merge.
//
// A stat group can be served twice across pages when the live leaderboard
// shifts between page fetches; the later occurrence wins. The output never
// contains two standings with the same statgroup id, which keeps a bulk
// upsert from touching one row twice in a single statement.
func Merge(snap *wel.LeaderboardSnapshot) ([]Standing, []error) {
	statsByGroup := make(map[int64]wel.RawStat, len(snap.Stats))
	for _, s := range snap.Stats {
		statsByGroup[s.StatgroupID] = s
	}

	standings := make([]Standing, 0, len(snap.Groups))
	seen := make(map[int64]int, len(snap.Groups))
	var errs []error

	for _, group := range snap.Groups {
		stat, ok := statsByGroup[group.ID]
		if !ok {
			errs = append(errs, &DataConsistencyError{
				StatgroupID: group.ID,
				Reason:      "no stat record for stat group",
			})
			continue
		}
		if len(group.Members) == 0 {
			errs = append(errs, &DataConsistencyError{
				StatgroupID: group.ID,
				Reason:      "stat group has no members",
			})
			continue
		}

		standing := newStanding(snap.LeaderboardID, stat, group.Members[0])
		if i, dup := seen[group.ID]; dup {
			standings[i] = standing
			continue
		}
		seen[group.ID] = len(standings)
		standings = append(standings, standing)
	}

	return standings, errs
}

// newStanding builds one Standing from a stat record and the group's
// primary member identity.
func newStanding(leaderboardID int, stat wel.RawStat, member wel.Member) Standing {
	totalGames := stat.Wins + stat.Losses

	var winPercent *float64
	if totalGames > 0 {
		wp := float64(stat.Wins) / float64(totalGames)
		winPercent = &wp
	}

	return Standing{
		StatgroupID:      stat.StatgroupID,
		LeaderboardID:    leaderboardID,
		Wins:             stat.Wins,
		Losses:           stat.Losses,
		Streak:           stat.Streak,
		Disputes:         stat.Disputes,
		Drops:            stat.Drops,
		Rank:             stat.Rank,
		RankTotal:        stat.RankTotal,
		RankLevel:        stat.RankLevel,
		Rating:           stat.Rating,
		RegionRank:       stat.RegionRank,
		RegionRankTotal:  stat.RegionRankTotal,
		LastMatchDate:    stat.LastMatchDate,
		HighestRank:      stat.HighestRank,
		HighestRankLevel: stat.HighestRankLevel,
		HighestRating:    stat.HighestRating,

		PersonalStatgroupID: member.PersonalStatgroupID,
		ProfileID:           member.ProfileID,
		Level:               member.Level,
		Name:                member.Alias,
		ProfileURL:          member.Name,
		Country:             member.Country,

		WinPercent: winPercent,
		TotalGames: totalGames,
	}
}
