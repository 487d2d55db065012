package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/match"
)

// TeamSummary is the aggregate view of one team's season so far.
type TeamSummary struct {
	Team       string `json:"team"`
	Gender     string `json:"gender"`
	Division   string `json:"division,omitempty"`
	Conference string `json:"conference,omitempty"`

	Record       match.Record `json:"record"`
	GoalsFor     int          `json:"goals_for"`
	GoalsAgainst int          `json:"goals_against"`

	ShotsFor             int `json:"shots_for"`
	ShotsAgainst         int `json:"shots_against"`
	ShotsOnTargetFor     int `json:"shots_on_target_for"`
	ShotsOnTargetAgainst int `json:"shots_on_target_against"`

	// Possession proxies over aggregated shot counts.
	TSR  float64 `json:"tsr"`
	SOTR float64 `json:"sotr"`

	Matches []match.Aggregated `json:"matches"`
}

type TeamService struct {
	matchSvc *MatchService
}

func NewTeamService(matchSvc *MatchService) *TeamService {
	return &TeamService{matchSvc: matchSvc}
}

// TeamSlug is the canonical URL form of a team name.
func TeamSlug(name string) string {
	var b strings.Builder
	prevHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// Summary aggregates every match the slugged team appears in for the
// gender.
func (s *TeamService) Summary(ctx context.Context, teamSlug, gender string) (TeamSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Summary")
	defer span.End()

	teamSlug = strings.ToLower(strings.TrimSpace(teamSlug))
	if teamSlug == "" {
		return TeamSummary{}, fmt.Errorf("%w: team slug is required", ErrInvalidInput)
	}

	all, err := s.matchSvc.Aggregate(ctx, gender)
	if err != nil {
		return TeamSummary{}, err
	}

	summary := TeamSummary{Gender: strings.ToLower(strings.TrimSpace(gender))}
	for _, m := range all {
		side, ok := teamSide(m, teamSlug)
		if !ok {
			continue
		}

		if summary.Team == "" {
			if side == sideHome {
				summary.Team = displayName(m.HomeTeamShort, m.HomeTeamFull)
				summary.Conference = m.HomeConference
			} else {
				summary.Team = displayName(m.AwayTeamShort, m.AwayTeamFull)
				summary.Conference = m.AwayConference
			}
			summary.Division = m.Division
		}

		if side == sideHome {
			summary.ShotsFor += m.HomeShots
			summary.ShotsAgainst += m.AwayShots
			summary.ShotsOnTargetFor += m.HomeShotsOnTarget
			summary.ShotsOnTargetAgainst += m.AwayShotsOnTarget
		} else {
			summary.ShotsFor += m.AwayShots
			summary.ShotsAgainst += m.HomeShots
			summary.ShotsOnTargetFor += m.AwayShotsOnTarget
			summary.ShotsOnTargetAgainst += m.HomeShotsOnTarget
		}

		if m.HasFinalScores() {
			var goalsFor, goalsAgainst float64
			if side == sideHome {
				goalsFor, goalsAgainst = *m.HomeScore, *m.AwayScore
			} else {
				goalsFor, goalsAgainst = *m.AwayScore, *m.HomeScore
			}
			summary.GoalsFor += int(goalsFor)
			summary.GoalsAgainst += int(goalsAgainst)
			switch {
			case goalsFor > goalsAgainst:
				summary.Record.Wins++
			case goalsFor < goalsAgainst:
				summary.Record.Losses++
			default:
				summary.Record.Draws++
			}
		}

		summary.Matches = append(summary.Matches, m)
	}

	if summary.Team == "" {
		return TeamSummary{}, fmt.Errorf("%w: team=%s gender=%s", ErrNotFound, teamSlug, gender)
	}

	summary.TSR = match.Ratio(summary.ShotsFor, summary.ShotsAgainst)
	summary.SOTR = match.Ratio(summary.ShotsOnTargetFor, summary.ShotsOnTargetAgainst)
	return summary, nil
}

type matchTeamSide int

const (
	sideHome matchTeamSide = iota
	sideAway
)

func teamSide(m match.Aggregated, slug string) (matchTeamSide, bool) {
	if TeamSlug(m.HomeTeamShort) == slug || TeamSlug(m.HomeTeamFull) == slug {
		return sideHome, true
	}
	if TeamSlug(m.AwayTeamShort) == slug || TeamSlug(m.AwayTeamFull) == slug {
		return sideAway, true
	}
	return sideHome, false
}

func displayName(short, full string) string {
	if full != "" {
		return full
	}
	return short
}
