package ncaa

import (
	"strconv"
	"strings"
)

// FlexInt tolerates the feed's habit of sending numbers as strings, floats,
// or missing entirely. Anything unparsable decodes to zero.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	switch s {
	case "", "null", "NA", "-":
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(int(v))
	return nil
}

func (f FlexInt) Int() int { return int(f) }

// Scoreboard is one day's games for a gender and division.
type Scoreboard struct {
	Games []ScoreboardGameWrapper `json:"games"`
}

type ScoreboardGameWrapper struct {
	Game  ScoreboardGame   `json:"game"`
	Teams []ScoreboardTeam `json:"teams"`
}

type ScoreboardTeam struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	ShortName string `json:"shortName"`
	SeoName   string `json:"seoName"`
	NickName  string `json:"nickName"`
}

type ScoreboardGame struct {
	GameID    string          `json:"gameID"`
	URL       string          `json:"url"`
	StartDate string          `json:"startDate"`
	StartTime string          `json:"startTime"`
	GameState string          `json:"gameState"`
	Home      ScoreboardSide  `json:"home"`
	Away      ScoreboardSide  `json:"away"`
}

type ScoreboardSide struct {
	Names       TeamNames        `json:"names"`
	Score       string           `json:"score"`
	Description string           `json:"description"`
	Conferences []ConferenceInfo `json:"conferences"`
}

type TeamNames struct {
	Full  string `json:"full"`
	Short string `json:"short"`
}

type ConferenceInfo struct {
	ConferenceName string `json:"conferenceName"`
}

// Conference returns the first listed conference name.
func (s ScoreboardSide) Conference() string {
	if len(s.Conferences) == 0 {
		return ""
	}
	return s.Conferences[0].ConferenceName
}

// BoxscoreID extracts the contest identifier from the game's URL path.
func (g ScoreboardGame) BoxscoreID() string {
	trimmed := strings.Trim(g.URL, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	return parts[len(parts)-1]
}

// Boxscore is the per-game player statistics document.
type Boxscore struct {
	Meta  BoxscoreMeta   `json:"meta"`
	Teams []BoxscoreTeam `json:"teams"`
}

type BoxscoreMeta struct {
	Teams []BoxscoreMetaTeam `json:"teams"`
}

type BoxscoreMetaTeam struct {
	ID        string `json:"id"`
	HomeTeam  string `json:"homeTeam"`
	ShortName string `json:"shortName"`
}

func (t BoxscoreMetaTeam) IsHome() bool { return t.HomeTeam == "true" }

type BoxscoreTeam struct {
	TeamID       string        `json:"teamId"`
	PlayerStats  []PlayerStat  `json:"playerStats"`
	GoalieStats  []GoalieStat  `json:"goalieStats"`
	GoalieTotals GoalieTotals  `json:"goalieTotals"`
	PlayerTotals PlayerTotals  `json:"playerTotals"`
}

type PlayerStat struct {
	FirstName     string  `json:"firstName"`
	LastName      string  `json:"lastName"`
	Position      string  `json:"position"`
	JerseyNum     string  `json:"jerseyNum"`
	MinutesPlayed FlexInt `json:"minutesPlayed"`
	Minutes       FlexInt `json:"minutes"`
	Goals         FlexInt `json:"goals"`
	Assists       FlexInt `json:"assists"`
	Shots         FlexInt `json:"shots"`
	ShotsOnGoal   FlexInt `json:"shotsOnGoal"`
	ShotsOnTarget FlexInt `json:"shotsOnTarget"`
	YellowCards   FlexInt `json:"yellowCards"`
	RedCards      FlexInt `json:"redCards"`
}

// MinutesValue prefers minutesPlayed over the legacy minutes field.
func (p PlayerStat) MinutesValue() int {
	if p.MinutesPlayed != 0 {
		return p.MinutesPlayed.Int()
	}
	return p.Minutes.Int()
}

// ShotsOnTargetValue tolerates both spellings the feed has used.
func (p PlayerStat) ShotsOnTargetValue() int {
	if p.ShotsOnGoal != 0 {
		return p.ShotsOnGoal.Int()
	}
	return p.ShotsOnTarget.Int()
}

type GoalieStat struct {
	Name            string  `json:"name"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	JerseyNum       string  `json:"jerseyNum"`
	Saves           FlexInt `json:"saves"`
	GoalsAllowed    FlexInt `json:"goalsAllowed"`
	GoalsAgainst    FlexInt `json:"goalsAgainst"`
	GA              FlexInt `json:"ga"`
	MinutesAtGoalie FlexInt `json:"minutesAtGoalie"`
	Minutes         FlexInt `json:"minutes"`
}

// GoalsAgainstValue tolerates the three field names the feed has used.
func (g GoalieStat) GoalsAgainstValue() int {
	if g.GoalsAllowed != 0 {
		return g.GoalsAllowed.Int()
	}
	if g.GoalsAgainst != 0 {
		return g.GoalsAgainst.Int()
	}
	return g.GA.Int()
}

type GoalieTotals struct {
	Saves        FlexInt `json:"saves"`
	GoalsAllowed FlexInt `json:"goalsAllowed"`
	GoalsAgainst FlexInt `json:"goalsAgainst"`
}

func (g GoalieTotals) GoalsAgainstValue() int {
	if g.GoalsAllowed != 0 {
		return g.GoalsAllowed.Int()
	}
	return g.GoalsAgainst.Int()
}

type PlayerTotals struct {
	Goals FlexInt `json:"goals"`
}

// PlayByPlay is the per-game event stream.
type PlayByPlay struct {
	Meta    BoxscoreMeta `json:"meta"`
	Periods []PBPPeriod  `json:"periods"`
}

type PBPPeriod struct {
	PlayStats []PBPPlay `json:"playStats"`
}

type PBPPlay struct {
	Score       string `json:"score"`
	Time        string `json:"time"`
	VisitorText string `json:"visitorText"`
	HomeText    string `json:"homeText"`
}
