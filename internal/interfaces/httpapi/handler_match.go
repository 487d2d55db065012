package httpapi

import (
	"net/http"

	"github.com/americascouted/ncaa-stats/internal/domain/match"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

type matchDTO struct {
	match.Aggregated
	HomeScoreDisplay string `json:"home_score_display"`
	AwayScoreDisplay string `json:"away_score_display"`
	HomeTeamSlug     string `json:"home_team_slug"`
	AwayTeamSlug     string `json:"away_team_slug"`
}

type matchGroupDTO struct {
	Date    string     `json:"date"`
	Matches []matchDTO `json:"matches"`
}

type listMatchesResponse struct {
	Groups     []matchGroupDTO     `json:"groups"`
	TotalCount int                 `json:"total_count"`
	Facets     usecase.MatchFacets `json:"facets"`
}

func (h *Handler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatches")
	defer span.End()

	q := r.URL.Query()
	gender := genderOrDefault(q.Get("gender"))
	if err := h.validateRequest(ctx, listPlayersRequest{Gender: gender}); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.List(ctx, usecase.MatchQuery{
		Gender:     gender,
		Division:   q.Get("division"),
		Conference: q.Get("conference"),
		Day:        q.Get("day"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "gender", gender, "error", err)
		writeError(ctx, w, err)
		return
	}

	groups := make([]matchGroupDTO, 0, len(result.Groups))
	for _, g := range result.Groups {
		groups = append(groups, matchGroupDTO{
			Date:    g.Date,
			Matches: matchesToDTO(g.Matches),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, listMatchesResponse{
		Groups:     groups,
		TotalCount: result.TotalCount,
		Facets:     result.Facets,
	})
}

func matchesToDTO(items []match.Aggregated) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, m := range items {
		out = append(out, matchDTO{
			Aggregated:       m,
			HomeScoreDisplay: match.CleanScore(m.HomeScoreRaw),
			AwayScoreDisplay: match.CleanScore(m.AwayScoreRaw),
			HomeTeamSlug:     usecase.TeamSlug(teamName(m.HomeTeamShort, m.HomeTeamFull)),
			AwayTeamSlug:     usecase.TeamSlug(teamName(m.AwayTeamShort, m.AwayTeamFull)),
		})
	}
	return out
}

func teamName(short, full string) string {
	if short != "" {
		return short
	}
	return full
}
