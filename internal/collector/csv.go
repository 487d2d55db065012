package collector

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/americascouted/ncaa-stats/internal/domain/player"
)

var playerHeader = []string{
	"Name", "Team", "Gender", "Division", "Dominant Position",
	"Matches Played", "Minutes Played", "Goals", "Assists", "Shots",
	"Shots On Target", "Yellow Cards", "Red Cards", "Saves",
	"Goals Against", "Fouls Won",
}

var matchHeader = []string{
	"gender", "division", "game_id", "boxscore_id", "date", "status",
	"start_time",
	"home_team_full", "home_team_short", "home_team_score", "home_record",
	"home_conference",
	"away_team_full", "away_team_short", "away_team_score", "away_record",
	"away_conference",
	"home_shots", "home_sot", "away_shots", "away_sot",
}

// writePlayersCSV writes one gender's weekly player snapshot. Gender tokens
// in file names are plural ("mens", "womens") to match the snapshot layout.
func writePlayersCSV(dir, gender, weekCode string, rows []player.SnapshotRow) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%ss_players_%s.csv", gender, weekCode))

	records := make([][]string, 0, len(rows)+1)
	records = append(records, playerHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.Name, r.Team, r.Gender, r.Division, r.Position,
			strconv.Itoa(r.Stats.MatchesPlayed),
			strconv.Itoa(r.Stats.MinutesPlayed),
			strconv.Itoa(r.Stats.Goals),
			strconv.Itoa(r.Stats.Assists),
			strconv.Itoa(r.Stats.Shots),
			strconv.Itoa(r.Stats.ShotsOnTarget),
			strconv.Itoa(r.Stats.YellowCards),
			strconv.Itoa(r.Stats.RedCards),
			strconv.Itoa(r.Stats.Saves),
			strconv.Itoa(r.Stats.GoalsAgainst),
			strconv.Itoa(r.Stats.FoulsWon),
		})
	}
	return path, writeCSVFile(path, records)
}

// writeMatchesCSV writes the period's fixtures, both genders in one file.
func writeMatchesCSV(dir, weekCode string, rows []matchRow) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("matches_%s.csv", weekCode))

	records := make([][]string, 0, len(rows)+1)
	records = append(records, matchHeader)
	for _, r := range rows {
		records = append(records, []string{
			r.Gender, r.Division, r.GameID, r.BoxscoreID, r.Date,
			r.Status, r.StartTime,
			r.HomeTeamFull, r.HomeTeamShort, r.HomeScoreRaw, r.HomeRecord,
			r.HomeConference,
			r.AwayTeamFull, r.AwayTeamShort, r.AwayScoreRaw, r.AwayRecord,
			r.AwayConference,
			strconv.Itoa(r.HomeShots), strconv.Itoa(r.HomeShotsOnTarget),
			strconv.Itoa(r.AwayShots), strconv.Itoa(r.AwayShotsOnTarget),
		})
	}
	return path, writeCSVFile(path, records)
}

func writeCSVFile(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create snapshot directory")
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.WriteAll(records); err != nil {
		return errors.Wrapf(err, "encode %s", filepath.Base(path))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", filepath.Base(path))
	}
	return nil
}
