// Package leaderboard merges raw leaderboard listings into normalized
// player standings.
package leaderboard

// Standing is one player-group's normalized rank/win-loss state for one
// leaderboard. JSON tags follow the upstream field names so stored rows and
// API responses round-trip without a second mapping layer.
type Standing struct {
	StatgroupID      int64 `json:"statgroup_id"`
	LeaderboardID    int   `json:"leaderboard_id"`
	Wins             int   `json:"wins"`
	Losses           int   `json:"losses"`
	Streak           int   `json:"streak"`
	Disputes         int   `json:"disputes"`
	Drops            int   `json:"drops"`
	Rank             int   `json:"rank"`
	RankTotal        int   `json:"ranktotal"`
	RankLevel        int   `json:"ranklevel"`
	Rating           int   `json:"rating"`
	RegionRank       int   `json:"regionrank"`
	RegionRankTotal  int   `json:"regionranktotal"`
	LastMatchDate    int64 `json:"lastmatchdate"`
	HighestRank      int   `json:"highestrank"`
	HighestRankLevel int   `json:"highestranklevel"`
	HighestRating    int   `json:"highestrating"`

	PersonalStatgroupID int64  `json:"personal_statgroup_id"`
	ProfileID           int64  `json:"profile_id"`
	Level               int    `json:"level"`
	Name                string `json:"name"`
	ProfileURL          string `json:"profileUrl"`
	Country             string `json:"country"`

	// WinPercent is nil when the player has no recorded games.
	WinPercent *float64 `json:"winPercent"`
	TotalGames int      `json:"totalGames"`
}
