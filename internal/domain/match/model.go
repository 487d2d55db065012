package match

import (
	"math"
	"strconv"
	"strings"
)

// SnapshotRow is one fixture from one weekly matches file. The scraped
// division is unreliable: overlapping division-filtered scrape passes list
// cross-division games under whichever division the pass queried.
type SnapshotRow struct {
	Gender     string `json:"gender"`
	Division   string `json:"division"`
	GameID     string `json:"game_id,omitempty"`
	BoxscoreID string `json:"boxscore_id,omitempty"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`

	HomeTeamFull   string `json:"home_team_full"`
	HomeTeamShort  string `json:"home_team_short"`
	HomeConference string `json:"home_conference"`
	HomeRecord     string `json:"home_record,omitempty"`
	AwayTeamFull   string `json:"away_team_full"`
	AwayTeamShort  string `json:"away_team_short"`
	AwayConference string `json:"away_conference"`
	AwayRecord     string `json:"away_record,omitempty"`

	// Raw score strings as scraped; nil parsed values mean the game is
	// unplayed, in progress, or the feed returned junk.
	HomeScoreRaw string   `json:"-"`
	AwayScoreRaw string   `json:"-"`
	HomeScore    *float64 `json:"home_score"`
	AwayScore    *float64 `json:"away_score"`

	HomeShots         int `json:"home_shots"`
	HomeShotsOnTarget int `json:"home_sot"`
	AwayShots         int `json:"away_shots"`
	AwayShotsOnTarget int `json:"away_sot"`

	Extra map[string]string `json:"-"`
}

// Aggregated is a snapshot row after cross-week deduplication with the
// division recomputed from both participants' conferences.
type Aggregated struct {
	SnapshotRow
}

// HasFinalScores reports whether both sides carry a usable score. Only such
// matches count toward win/draw/loss records.
func (r SnapshotRow) HasFinalScores() bool {
	return r.HomeScore != nil && r.AwayScore != nil
}

// ParseScore converts a raw scraped score into a nullable numeric value.
func ParseScore(raw string) *float64 {
	s := strings.TrimSpace(raw)
	switch s {
	case "", "-", "NA", "null", "None":
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// CleanScore formats a raw score for display. It is total: whole numbers
// render without a fraction, real fractions keep it, and anything
// missing or unparseable becomes the "-" sentinel.
func CleanScore(raw string) string {
	v := ParseScore(raw)
	if v == nil {
		return "-"
	}
	if *v == math.Trunc(*v) && !math.IsInf(*v, 0) {
		return strconv.FormatInt(int64(*v), 10)
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Record is a team's win/draw/loss tally.
type Record struct {
	Wins   int `json:"wins"`
	Draws  int `json:"draws"`
	Losses int `json:"losses"`
}

// Ratio computes for/(for+against) rounded to three decimals, zero when
// the denominator is zero. Used for TSR and shot-on-target ratio.
func Ratio(forCount, againstCount int) float64 {
	total := forCount + againstCount
	if total == 0 {
		return 0
	}
	return math.Round(float64(forCount)/float64(total)*1000) / 1000
}
