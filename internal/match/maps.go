package match

import "strings"

// MapData is the canonical metadata for one random map.
type MapData struct {
	Name      string `json:"name"`
	ImagePath string `json:"imagePath"`
	IsWater   bool   `json:"isWater"`
}

// randomMapData is keyed by the parsed map name, i.e. the raw key with any
// "{prefix}_" generator segment stripped.
var randomMapData = map[string]MapData{
	"acropolis":       {Name: "Acropolis", ImagePath: "/maps/acropolis.png", IsWater: false},
	"air":             {Name: "Aïr", ImagePath: "/maps/air.png", IsWater: false},
	"alfheim":         {Name: "Alfheim", ImagePath: "/maps/alfheim.png", IsWater: false},
	"anatolia":        {Name: "Anatolia", ImagePath: "/maps/anatolia.png", IsWater: true},
	"archipelago":     {Name: "Archipelago", ImagePath: "/maps/archipelago.png", IsWater: true},
	"arena":           {Name: "Arena", ImagePath: "/maps/arena.png", IsWater: false},
	"black_sea":       {Name: "Black Sea", ImagePath: "/maps/black_sea.png", IsWater: true},
	"blue_lagoon":     {Name: "Blue Lagoon", ImagePath: "/maps/blue_lagoon.png", IsWater: false},
	"elysium":         {Name: "Elysium", ImagePath: "/maps/elysium.png", IsWater: false},
	"erebus":          {Name: "Erebus", ImagePath: "/maps/erebus.png", IsWater: false},
	"ghost_lake":      {Name: "Ghost Lake", ImagePath: "/maps/ghost_lake.png", IsWater: false},
	"giza":            {Name: "Giza", ImagePath: "/maps/giza.png", IsWater: false},
	"gold_rush":       {Name: "Gold Rush", ImagePath: "/maps/gold_rush.png", IsWater: false},
	"highland":        {Name: "Highland", ImagePath: "/maps/highland.png", IsWater: true},
	"ironwood":        {Name: "Ironwood", ImagePath: "/maps/ironwood.png", IsWater: false},
	"islands":         {Name: "Islands", ImagePath: "/maps/islands.png", IsWater: true},
	"jotunheim":       {Name: "Jotunheim", ImagePath: "/maps/jotunheim.png", IsWater: false},
	"kerlaugar":       {Name: "Kerlaugar", ImagePath: "/maps/kerlaugar.png", IsWater: true},
	"land_unknown":    {Name: "Land Unknown", ImagePath: "/maps/land_unknown.png", IsWater: false},
	"marsh":           {Name: "Marsh", ImagePath: "/maps/marsh.png", IsWater: false},
	"mediterranean":   {Name: "Mediterranean", ImagePath: "/maps/mediterranean.png", IsWater: true},
	"megalopolis":     {Name: "Megalopolis", ImagePath: "/maps/megalopolis.png", IsWater: false},
	"midgard":         {Name: "Midgard", ImagePath: "/maps/midgard.png", IsWater: true},
	"mirage":          {Name: "Mirage", ImagePath: "/maps/mirage.png", IsWater: false},
	"mirkwood":        {Name: "Mirkwood", ImagePath: "/maps/mirkwood.png", IsWater: false},
	"mount_olympus":   {Name: "Mount Olympus", ImagePath: "/maps/mount_olympus.png", IsWater: false},
	"muspellheim":     {Name: "Muspellheim", ImagePath: "/maps/muspellheim.png", IsWater: false},
	"nile_shallows":   {Name: "Nile Shallows", ImagePath: "/maps/nile_shallows.png", IsWater: false},
	"nomad":           {Name: "Nomad", ImagePath: "/maps/nomad.png", IsWater: false},
	"oasis":           {Name: "Oasis", ImagePath: "/maps/oasis.png", IsWater: false},
	"river_nile":      {Name: "River Nile", ImagePath: "/maps/river_nile.png", IsWater: true},
	"river_styx":      {Name: "River Styx", ImagePath: "/maps/river_styx.png", IsWater: true},
	"savannah":        {Name: "Savannah", ImagePath: "/maps/savannah.png", IsWater: false},
	"sea_of_worms":    {Name: "Sea of Worms", ImagePath: "/maps/sea_of_worms.png", IsWater: true},
	"team_migration":  {Name: "Team Migration", ImagePath: "/maps/team_migration.png", IsWater: true},
	"the_unknown":     {Name: "The Unknown", ImagePath: "/maps/the_unknown.png", IsWater: true},
	"tiny":            {Name: "Tiny", ImagePath: "/maps/tiny.png", IsWater: false},
	"tundra":          {Name: "Tundra", ImagePath: "/maps/tundra.png", IsWater: false},
	"valley_of_kings": {Name: "Valley of Kings", ImagePath: "/maps/valley_of_kings.png", IsWater: false},
	"vinlandsaga":     {Name: "Vinlandsaga", ImagePath: "/maps/vinlandsaga.png", IsWater: true},
	"watering_hole":   {Name: "Watering Hole", ImagePath: "/maps/watering_hole.png", IsWater: false},
}

// ParseMapName strips the generator prefix from a raw map key: everything
// through the first underscore. Keys without an underscore pass through
// unchanged.
func ParseMapName(mapname string) string {
	if i := strings.Index(mapname, "_"); i != -1 {
		return mapname[i+1:]
	}
	return mapname
}

// ResolveMap returns the canonical metadata for a parsed map name, or a
// placeholder carrying the raw name when the map is not in the table.
func ResolveMap(parsedName string) MapData {
	if data, ok := randomMapData[parsedName]; ok {
		return data
	}
	return MapData{
		Name:      parsedName,
		ImagePath: "/maps/the_unknown.png",
		IsWater:   false,
	}
}

// MapTable returns all known maps keyed by parsed name. Used by the API's
// map listing endpoint.
func MapTable() map[string]MapData {
	out := make(map[string]MapData, len(randomMapData))
	for k, v := range randomMapData {
		out[k] = v
	}
	return out
}
