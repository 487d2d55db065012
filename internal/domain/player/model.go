package player

// Stats is the fixed set of counting statistics tracked per player. Every
// field accumulates across weekly snapshots; missing or unparseable source
// values are coerced to zero at load time.
type Stats struct {
	MatchesPlayed int `json:"matches_played"`
	MinutesPlayed int `json:"minutes_played"`
	Goals         int `json:"goals"`
	Assists       int `json:"assists"`
	Shots         int `json:"shots"`
	ShotsOnTarget int `json:"shots_on_target"`
	YellowCards   int `json:"yellow_cards"`
	RedCards      int `json:"red_cards"`
	Saves         int `json:"saves"`
	GoalsAgainst  int `json:"goals_against"`
	FoulsWon      int `json:"fouls_won"`
}

func (s *Stats) Add(other Stats) {
	s.MatchesPlayed += other.MatchesPlayed
	s.MinutesPlayed += other.MinutesPlayed
	s.Goals += other.Goals
	s.Assists += other.Assists
	s.Shots += other.Shots
	s.ShotsOnTarget += other.ShotsOnTarget
	s.YellowCards += other.YellowCards
	s.RedCards += other.RedCards
	s.Saves += other.Saves
	s.GoalsAgainst += other.GoalsAgainst
	s.FoulsWon += other.FoulsWon
}

// Points is the derived attacking score: two per goal plus one per assist.
func (s Stats) Points() int {
	return s.Goals*2 + s.Assists
}

// SnapshotRow is one player's line from one weekly snapshot file. Division
// and Position carry whatever the file recorded that week and may be stale
// or Unknown; reconciliation happens during aggregation.
type SnapshotRow struct {
	Name       string
	Team       string
	Gender     string
	Division   string
	Position   string
	Conference string
	Stats      Stats
	// Extra keeps columns outside the fixed schema so snapshot files may
	// grow new fields without breaking older readers.
	Extra map[string]string
}

// Aggregated is the cumulative entity served to callers: one row per
// (name, team, gender, reconciled division) with stats summed through the
// queried end week.
type Aggregated struct {
	Name             string   `json:"name"`
	Team             string   `json:"team"`
	Gender           string   `json:"gender"`
	Division         string   `json:"division"`
	Conference       string   `json:"conference,omitempty"`
	DominantPosition Position `json:"dominant_position"`
	Stats            Stats    `json:"stats"`
	Points           int      `json:"points"`
}
