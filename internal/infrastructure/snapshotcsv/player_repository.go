package snapshotcsv

import (
	"context"
	"fmt"

	"github.com/americascouted/ncaa-stats/internal/domain/player"
)

// Player column headers as written by the collector.
const (
	colName             = "Name"
	colTeam             = "Team"
	colGender           = "Gender"
	colDivision         = "Division"
	colConference       = "Conference"
	colDominantPosition = "Dominant Position"
	colPosition         = "Position"
	colMatchesPlayed    = "Matches Played"
	colMinutesPlayed    = "Minutes Played"
	colGoals            = "Goals"
	colAssists          = "Assists"
	colShots            = "Shots"
	colShotsOnTarget    = "Shots On Target"
	colYellowCards      = "Yellow Cards"
	colRedCards         = "Red Cards"
	colSaves            = "Saves"
	colGoalsAgainst     = "Goals Against"
	colFoulsWon         = "Fouls Won"
)

var playerFixedColumns = map[string]struct{}{
	colName: {}, colTeam: {}, colGender: {}, colDivision: {},
	colConference: {}, colDominantPosition: {}, colPosition: {},
	colMatchesPlayed: {}, colMinutesPlayed: {}, colGoals: {}, colAssists: {},
	colShots: {}, colShotsOnTarget: {}, colYellowCards: {}, colRedCards: {},
	colSaves: {}, colGoalsAgainst: {}, colFoulsWon: {},
}

// PlayerRepository reads weekly player snapshots.
type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) ListRows(ctx context.Context, gender, weekCode string) ([]player.SnapshotRow, bool, error) {
	path := fmt.Sprintf("%s/%s_players_%s.csv", r.store.playersDir(), genderFileToken(gender), weekCode)

	tbl, exists, err := readTable(path)
	if err != nil {
		// A corrupt snapshot is logged and skipped, never propagated.
		r.store.logger.WarnContext(ctx, "player snapshot unreadable", "path", path, "error", err)
		return nil, false, nil
	}
	if !exists {
		return nil, false, nil
	}

	// Position tag column drifted across collector versions.
	positionColumn := colDominantPosition
	if !tbl.hasColumn(positionColumn) {
		positionColumn = colPosition
	}
	hasConference := tbl.hasColumn(colConference)

	rows := make([]player.SnapshotRow, 0, len(tbl.rows))
	for _, record := range tbl.rows {
		row := player.SnapshotRow{
			Name:     tbl.cell(record, colName),
			Team:     tbl.cell(record, colTeam),
			Gender:   tbl.cell(record, colGender),
			Division: tbl.cell(record, colDivision),
			Position: tbl.cell(record, positionColumn),
			Stats: player.Stats{
				MatchesPlayed: tbl.intCell(record, colMatchesPlayed),
				MinutesPlayed: tbl.intCell(record, colMinutesPlayed),
				Goals:         tbl.intCell(record, colGoals),
				Assists:       tbl.intCell(record, colAssists),
				Shots:         tbl.intCell(record, colShots),
				ShotsOnTarget: tbl.intCell(record, colShotsOnTarget),
				YellowCards:   tbl.intCell(record, colYellowCards),
				RedCards:      tbl.intCell(record, colRedCards),
				Saves:         tbl.intCell(record, colSaves),
				GoalsAgainst:  tbl.intCell(record, colGoalsAgainst),
				FoulsWon:      tbl.intCell(record, colFoulsWon),
			},
		}
		if hasConference {
			row.Conference = tbl.cell(record, colConference)
		}
		if row.Name == "" {
			continue
		}
		for column := range tbl.columns {
			if _, fixed := playerFixedColumns[column]; fixed {
				continue
			}
			if row.Extra == nil {
				row.Extra = make(map[string]string)
			}
			row.Extra[column] = tbl.cell(record, column)
		}
		rows = append(rows, row)
	}

	return rows, true, nil
}
