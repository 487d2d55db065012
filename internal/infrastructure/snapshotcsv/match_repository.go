package snapshotcsv

import (
	"context"
	"fmt"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/match"
)

// Match column headers as written by the collector (scoreboard field names).
const (
	mcolGender         = "gender"
	mcolDivision       = "division"
	mcolGameID         = "game_id"
	mcolBoxscoreID     = "boxscore_id"
	mcolDate           = "date"
	mcolStatus         = "status"
	mcolStartTime      = "start_time"
	mcolHomeTeamFull   = "home_team_full"
	mcolHomeTeamShort  = "home_team_short"
	mcolHomeScore      = "home_team_score"
	mcolHomeRecord     = "home_record"
	mcolHomeConference = "home_conference"
	mcolAwayTeamFull   = "away_team_full"
	mcolAwayTeamShort  = "away_team_short"
	mcolAwayScore      = "away_team_score"
	mcolAwayRecord     = "away_record"
	mcolAwayConference = "away_conference"
	mcolHomeShots      = "home_shots"
	mcolHomeSOT        = "home_sot"
	mcolAwayShots      = "away_shots"
	mcolAwaySOT        = "away_sot"
)

// MatchRepository reads weekly match snapshots.
type MatchRepository struct {
	store *Store
}

func NewMatchRepository(store *Store) *MatchRepository {
	return &MatchRepository{store: store}
}

func (r *MatchRepository) ListRows(ctx context.Context, gender string, weekCodes []string) ([]match.SnapshotRow, error) {
	gender = strings.ToLower(strings.TrimSpace(gender))

	var rows []match.SnapshotRow
	for _, code := range weekCodes {
		path := fmt.Sprintf("%s/matches_%s.csv", r.store.matchesDir(), code)
		tbl, exists, err := readTable(path)
		if err != nil {
			r.store.logger.WarnContext(ctx, "match snapshot unreadable", "path", path, "error", err)
			continue
		}
		if !exists {
			continue
		}

		// Batch-level capability check: older files lack the gender column
		// and are taken whole.
		filterGender := tbl.hasColumn(mcolGender) && gender != ""

		for _, record := range tbl.rows {
			if filterGender && !strings.EqualFold(tbl.cell(record, mcolGender), gender) {
				continue
			}

			row := match.SnapshotRow{
				Gender:         strings.ToLower(tbl.cell(record, mcolGender)),
				Division:       tbl.cell(record, mcolDivision),
				GameID:         tbl.cell(record, mcolGameID),
				BoxscoreID:     tbl.cell(record, mcolBoxscoreID),
				Date:           tbl.cell(record, mcolDate),
				Status:         tbl.cell(record, mcolStatus),
				StartTime:      tbl.cell(record, mcolStartTime),
				HomeTeamFull:   tbl.cell(record, mcolHomeTeamFull),
				HomeTeamShort:  tbl.cell(record, mcolHomeTeamShort),
				HomeRecord:     tbl.cell(record, mcolHomeRecord),
				HomeConference: tbl.cell(record, mcolHomeConference),
				AwayTeamFull:   tbl.cell(record, mcolAwayTeamFull),
				AwayTeamShort:  tbl.cell(record, mcolAwayTeamShort),
				AwayRecord:     tbl.cell(record, mcolAwayRecord),
				AwayConference: tbl.cell(record, mcolAwayConference),
				HomeScoreRaw:   tbl.cell(record, mcolHomeScore),
				AwayScoreRaw:   tbl.cell(record, mcolAwayScore),

				HomeShots:         tbl.intCell(record, mcolHomeShots),
				HomeShotsOnTarget: tbl.intCell(record, mcolHomeSOT),
				AwayShots:         tbl.intCell(record, mcolAwayShots),
				AwayShotsOnTarget: tbl.intCell(record, mcolAwaySOT),
			}
			row.HomeScore = match.ParseScore(row.HomeScoreRaw)
			row.AwayScore = match.ParseScore(row.AwayScoreRaw)
			rows = append(rows, row)
		}
	}

	return rows, nil
}
