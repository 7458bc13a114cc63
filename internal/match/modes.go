package match

// UnknownGameMode is the label for matchtype ids not in the table.
const UnknownGameMode = "Unknown Game Mode"

// gameModeNames maps upstream matchtype_id to a human-readable game mode
// label. Note the gap at 26: the upstream enum skips it.
var gameModeNames = map[int]string{
	0:  "CUSTOM",
	1:  "1V1_SUPREMACY",
	2:  "2V2_SUPREMACY",
	3:  "3V3_SUPREMACY",
	4:  "4V4_SUPREMACY",
	5:  "1V1_DEATHMATCH",
	6:  "2V2_DEATHMATCH",
	7:  "3V3_DEATHMATCH",
	8:  "4V4_DEATHMATCH",
	9:  "1V1_CONQUEST",
	10: "2V2_CONQUEST",
	11: "3V3_CONQUEST",
	12: "4V4_CONQUEST",
	13: "1V1_LIGHTNING",
	14: "2V2_LIGHTNING",
	15: "3V3_LIGHTNING",
	16: "4V4_LIGHTNING",
	17: "1V1_TREATY_20MIN",
	18: "2V2_TREATY_20MIN",
	19: "3V3_TREATY_20MIN",
	20: "4V4_TREATY_20MIN",
	21: "1V1_TREATY_40MIN",
	22: "2V2_TREATY_40MIN",
	23: "3V3_TREATY_40MIN",
	24: "4V4_TREATY_40MIN",
	25: "MATCHMAKING",
	27: "MATCHMAKING_QUICKMATCH",
	28: "1V1_SUPREMACY_QUICKMATCH",
	29: "2V2_SUPREMACY_QUICKMATCH",
	30: "3V3_SUPREMACY_QUICKMATCH",
	31: "4V4_SUPREMACY_QUICKMATCH",
	32: "1V1_DEATHMATCH_QUICKMATCH",
	33: "2V2_DEATHMATCH_QUICKMATCH",
	34: "3V3_DEATHMATCH_QUICKMATCH",
	35: "4V4_DEATHMATCH_QUICKMATCH",
	36: "1V1_LIGHTNING_QUICKMATCH",
	37: "2V2_LIGHTNING_QUICKMATCH",
	38: "3V3_LIGHTNING_QUICKMATCH",
	39: "4V4_LIGHTNING_QUICKMATCH",
}

// GameModeName resolves a matchtype id to its label. Unknown ids resolve to
// UnknownGameMode rather than failing.
func GameModeName(matchTypeID int) string {
	if name, ok := gameModeNames[matchTypeID]; ok {
		return name
	}
	return UnknownGameMode
}

// GameModeTable returns all known game mode labels keyed by matchtype id.
// Used by the API's mode listing endpoint.
func GameModeTable() map[int]string {
	out := make(map[int]string, len(gameModeNames))
	for k, v := range gameModeNames {
		out[k] = v
	}
	return out
}
