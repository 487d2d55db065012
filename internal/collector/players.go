package collector

import (
	"regexp"
	"sort"
	"strings"

	"github.com/americascouted/ncaa-stats/external/ncaa"
	"github.com/americascouted/ncaa-stats/internal/domain/player"
)

// playerGameRow is one player's line from one boxscore before weekly
// aggregation. Division holds the scrape pass it arrived from until the
// team vote replaces it.
type playerGameRow struct {
	GameID   string
	TeamID   string
	Name     string
	Team     string
	Position string
	Division string
	Stats    player.Stats
}

// boxscoreSummary carries the team-level numbers a match row needs from a
// boxscore: shot counts always, goals only when the feed filled in
// playerTotals.
type boxscoreSummary struct {
	HomeShots int
	HomeSOT   int
	AwayShots int
	AwaySOT   int
	HomeGoals *int
	AwayGoals *int
}

// parseBoxscore flattens one boxscore document into per-player rows and a
// team-level summary. Teams absent from the meta block are skipped; the
// document is too damaged to attribute their rows.
func parseBoxscore(box ncaa.Boxscore, gameID string) ([]playerGameRow, boxscoreSummary) {
	type sideInfo struct {
		isHome bool
		name   string
	}
	sides := make(map[string]sideInfo, len(box.Meta.Teams))
	for _, t := range box.Meta.Teams {
		sides[t.ID] = sideInfo{isHome: t.IsHome(), name: t.ShortName}
	}

	var rows []playerGameRow
	var summary boxscoreSummary
	for _, team := range box.Teams {
		side, ok := sides[team.TeamID]
		if !ok || side.name == "" {
			continue
		}

		gk := goalieStatsByName(team)

		teamShots, teamSOT := 0, 0
		for _, p := range team.PlayerStats {
			name := CleanName(strings.TrimSpace(p.FirstName + " " + p.LastName))
			minutes := p.MinutesValue()

			row := playerGameRow{
				GameID:   gameID,
				TeamID:   team.TeamID,
				Name:     name,
				Team:     side.name,
				Position: strings.TrimSpace(p.Position),
				Stats: player.Stats{
					MinutesPlayed: minutes,
					Goals:         p.Goals.Int(),
					Assists:       p.Assists.Int(),
					Shots:         p.Shots.Int(),
					ShotsOnTarget: p.ShotsOnTargetValue(),
					YellowCards:   p.YellowCards.Int(),
					RedCards:      p.RedCards.Int(),
				},
			}
			if minutes > 0 {
				row.Stats.MatchesPlayed = 1
			}
			if g, ok := gk[name]; ok {
				row.Stats.Saves = g.saves
				row.Stats.GoalsAgainst = g.goalsAgainst
			}

			teamShots += row.Stats.Shots
			teamSOT += row.Stats.ShotsOnTarget
			rows = append(rows, row)
		}

		var goals *int
		if team.PlayerTotals.Goals != 0 {
			g := team.PlayerTotals.Goals.Int()
			goals = &g
		}
		if side.isHome {
			summary.HomeShots += teamShots
			summary.HomeSOT += teamSOT
			summary.HomeGoals = goals
		} else {
			summary.AwayShots += teamShots
			summary.AwaySOT += teamSOT
			summary.AwayGoals = goals
		}
	}

	return rows, summary
}

type goalieLine struct {
	saves        int
	goalsAgainst int
}

// goalieStatsByName maps cleaned goalkeeper names to their keeper line.
// When the goalieStats block is missing, goalieTotals are attributed to the
// team's sole keeper in playerStats, if there is exactly one.
func goalieStatsByName(team ncaa.BoxscoreTeam) map[string]goalieLine {
	out := make(map[string]goalieLine)
	for _, g := range team.GoalieStats {
		raw := g.Name
		if raw == "" {
			raw = strings.TrimSpace(g.FirstName + " " + g.LastName)
		}
		out[CleanName(raw)] = goalieLine{
			saves:        g.Saves.Int(),
			goalsAgainst: g.GoalsAgainstValue(),
		}
	}
	if len(out) > 0 {
		return out
	}

	var keepers []ncaa.PlayerStat
	for _, p := range team.PlayerStats {
		if player.VoteDominant([]string{p.Position}) == player.PositionGoalkeeper {
			keepers = append(keepers, p)
		}
	}
	if len(keepers) == 1 {
		name := CleanName(strings.TrimSpace(keepers[0].FirstName + " " + keepers[0].LastName))
		out[name] = goalieLine{
			saves:        team.GoalieTotals.Saves.Int(),
			goalsAgainst: team.GoalieTotals.GoalsAgainstValue(),
		}
	}
	return out
}

var pbpNameRe = regexp.MustCompile(`\b[A-Z][a-z]+,?\s*[A-Z][a-z]+`)

type foulKey struct {
	gameID string
	team   string
	name   string
}

// countFouls tallies fouls won per player per game from the play-by-play
// text stream. Event text names the player free-form, so extraction is
// best effort and misses stay at zero.
func countFouls(pbp ncaa.PlayByPlay, gameID string) map[foulKey]int {
	var home, away string
	for _, t := range pbp.Meta.Teams {
		if t.IsHome() {
			home = t.ShortName
		} else {
			away = t.ShortName
		}
	}
	if home == "" && away == "" {
		return nil
	}

	out := make(map[foulKey]int)
	for _, period := range pbp.Periods {
		for _, play := range period.PlayStats {
			team, text := home, play.HomeText
			if play.VisitorText != "" {
				team, text = away, play.VisitorText
			}
			if text == "" || !strings.Contains(strings.ToLower(text), "foul") {
				continue
			}
			raw := pbpNameRe.FindString(text)
			if raw == "" {
				continue
			}
			out[foulKey{gameID: gameID, team: team, name: NormalizeName(raw)}]++
		}
	}
	return out
}

// aggregatePlayers reduces per-game rows to one weekly row per (name,
// team, gender, division) with the dominant position voted across every
// raw tag seen.
func aggregatePlayers(rows []playerGameRow, gender string) []player.SnapshotRow {
	type key struct{ name, team, division string }

	order := make([]key, 0, len(rows))
	stats := make(map[key]*player.Stats)
	tags := make(map[key][]string)
	for _, row := range rows {
		k := key{row.Name, row.Team, row.Division}
		s, ok := stats[k]
		if !ok {
			s = &player.Stats{}
			stats[k] = s
			order = append(order, k)
		}
		s.Add(row.Stats)
		tags[k] = append(tags[k], row.Position)
	}

	out := make([]player.SnapshotRow, 0, len(order))
	for _, k := range order {
		out = append(out, player.SnapshotRow{
			Name:     k.name,
			Team:     k.team,
			Gender:   gender,
			Division: k.division,
			Position: string(player.VoteDominant(tags[k])),
			Stats:    *stats[k],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Team < out[j].Team
	})
	return out
}

// resolveDivisionVotes picks each team's division by appearance plurality
// across scrape passes, breaking ties in favor of the higher division.
func resolveDivisionVotes(votes map[string]map[string]int) map[string]string {
	rank := map[string]int{"d1": 0, "d2": 1, "d3": 2}

	out := make(map[string]string, len(votes))
	for teamID, counts := range votes {
		best := ""
		bestCount := -1
		for div, count := range counts {
			if count > bestCount ||
				(count == bestCount && rankOf(rank, div) < rankOf(rank, best)) {
				best = div
				bestCount = count
			}
		}
		if best != "" {
			out[teamID] = best
		}
	}
	return out
}

func rankOf(rank map[string]int, div string) int {
	if r, ok := rank[div]; ok {
		return r
	}
	return 9
}
