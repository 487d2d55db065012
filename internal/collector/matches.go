package collector

import (
	"strconv"
	"strings"

	"github.com/americascouted/ncaa-stats/external/ncaa"
	"github.com/americascouted/ncaa-stats/internal/domain/match"
)

// matchRow is one fixture as collected, keyed within a period by game ID.
type matchRow struct {
	match.SnapshotRow
}

// buildMatchRow lifts one scoreboard entry into a fixture row. The division
// recorded here is the scrape pass's, which the serving side later recomputes.
func buildMatchRow(game ncaa.ScoreboardGame, gender, division string) matchRow {
	row := matchRow{SnapshotRow: match.SnapshotRow{
		Gender:         gender,
		Division:       division,
		GameID:         game.GameID,
		BoxscoreID:     game.BoxscoreID(),
		Date:           game.StartDate,
		Status:         game.GameState,
		StartTime:      game.StartTime,
		HomeTeamFull:   game.Home.Names.Full,
		HomeTeamShort:  game.Home.Names.Short,
		HomeConference: game.Home.Conference(),
		HomeRecord:     game.Home.Description,
		AwayTeamFull:   game.Away.Names.Full,
		AwayTeamShort:  game.Away.Names.Short,
		AwayConference: game.Away.Conference(),
		AwayRecord:     game.Away.Description,
		HomeScoreRaw:   strings.TrimSpace(game.Home.Score),
		AwayScoreRaw:   strings.TrimSpace(game.Away.Score),
	}}
	row.HomeScore = match.ParseScore(row.HomeScoreRaw)
	row.AwayScore = match.ParseScore(row.AwayScoreRaw)
	return row
}

// applyBoxscore folds shot counts into the row and, when the scoreboard
// left the score blank, falls back to the boxscore's goal totals.
func applyBoxscore(row *matchRow, summary boxscoreSummary) {
	row.HomeShots = summary.HomeShots
	row.HomeShotsOnTarget = summary.HomeSOT
	row.AwayShots = summary.AwayShots
	row.AwayShotsOnTarget = summary.AwaySOT

	if row.HomeScoreRaw == "" && summary.HomeGoals != nil {
		row.HomeScoreRaw = strconv.Itoa(*summary.HomeGoals)
		row.HomeScore = match.ParseScore(row.HomeScoreRaw)
	}
	if row.AwayScoreRaw == "" && summary.AwayGoals != nil {
		row.AwayScoreRaw = strconv.Itoa(*summary.AwayGoals)
		row.AwayScore = match.ParseScore(row.AwayScoreRaw)
	}
}
