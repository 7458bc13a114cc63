package wel

// RawStat is one per-player stat record from the leaderboard listing.
type RawStat struct {
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
}

// Member is one member of a stat group. Solo ladders have exactly one.
type Member struct {
	ProfileID           int64  `json:"profile_id"`
	Name                string `json:"name"`
	Alias               string `json:"alias"`
	PersonalStatgroupID int64  `json:"personal_statgroup_id"`
	XP                  int    `json:"xp"`
	Level               int    `json:"level"`
	LeaderboardRegionID int    `json:"leaderboardregion_id"`
	Country             string `json:"country"`
}

// StatGroup is the grouped player/profile metadata attached to a stat record.
type StatGroup struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Type    int      `json:"type"`
	Members []Member `json:"members"`
}

// leaderboardResponse is the listing endpoint response envelope.
type leaderboardResponse struct {
	LeaderboardStats []RawStat   `json:"leaderboardStats"`
	StatGroups       []StatGroup `json:"statGroups"`
	RankTotal        int         `json:"rankTotal"`
}

// Profile is one player profile from the match history endpoint.
type Profile struct {
	ProfileID           int64  `json:"profile_id"`
	Name                string `json:"name"`
	Alias               string `json:"alias"`
	PersonalStatgroupID int64  `json:"personal_statgroup_id"`
	XP                  int    `json:"xp"`
	Level               int    `json:"level"`
	LeaderboardRegionID int    `json:"leaderboardregion_id"`
	Country             string `json:"country"`
}

// RawReportResult is one per-player result row inside a raw match. Counters
// holds a serialized post-game statistics block decoded by the normalizer.
type RawReportResult struct {
	MatchhistoryID int64  `json:"matchhistory_id"`
	ProfileID      int64  `json:"profile_id"`
	ResultType     int    `json:"resulttype"`
	TeamID         int    `json:"teamid"`
	RaceID         int    `json:"race_id"`
	XPGained       int    `json:"xpgained"`
	Counters       string `json:"counters"`
	MatchStartDate int64  `json:"matchstartdate"`
	CivilizationID int    `json:"civilization_id"`
}

// RawMember is one per-player ranking delta row inside a raw match: the
// player's win/loss/streak counters and rating before and after the match,
// per statistics group the player belongs to.
type RawMember struct {
	MatchhistoryID int64 `json:"matchhistory_id"`
	ProfileID      int64 `json:"profile_id"`
	RaceID         int   `json:"race_id"`
	StatgroupID    int64 `json:"statgroup_id"`
	TeamID         int   `json:"teamid"`
	Wins           int   `json:"wins"`
	Losses         int   `json:"losses"`
	Streak         int   `json:"streak"`
	Arbitration    int   `json:"arbitration"`
	Outcome        int   `json:"outcome"`
	OldRating      int   `json:"oldrating"`
	NewRating      int   `json:"newrating"`
	ReportType     int   `json:"reporttype"`
	CivilizationID int   `json:"civilization_id"`
}

// RawMatch is one match record from the match history endpoint.
type RawMatch struct {
	ID             int64             `json:"id"`
	MapName        string            `json:"mapname"`
	MatchTypeID    int               `json:"matchtype_id"`
	Description    string            `json:"description"`
	StartGameTime  int64             `json:"startgametime"`
	CompletionTime int64             `json:"completiontime"`
	ReportResults  []RawReportResult `json:"matchhistoryreportresults"`
	Members        []RawMember       `json:"matchhistorymember"`
}

// matchHistoryResponse is the match history endpoint response envelope.
type matchHistoryResponse struct {
	MatchHistoryStats []RawMatch `json:"matchHistoryStats"`
	Profiles          []Profile  `json:"profiles"`
}
