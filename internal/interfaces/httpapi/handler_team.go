package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/infrastructure/logos"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

type teamSummaryDTO struct {
	usecase.TeamSummary
	TeamSlug string     `json:"team_slug"`
	LogoURL  string     `json:"logo_url,omitempty"`
	Matches  []matchDTO `json:"matches"`
}

func (h *Handler) GetTeamSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamSummary")
	defer span.End()

	teamSlug := strings.TrimSpace(r.PathValue("teamSlug"))
	gender := genderOrDefault(r.URL.Query().Get("gender"))
	if err := h.validateRequest(ctx, listPlayersRequest{Gender: gender}); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.teamService.Summary(ctx, teamSlug, gender)
	if err != nil {
		h.logger.WarnContext(ctx, "get team summary failed", "team", teamSlug, "gender", gender, "error", err)
		writeError(ctx, w, err)
		return
	}

	dto := teamSummaryDTO{
		TeamSummary: summary,
		TeamSlug:    teamSlug,
		Matches:     matchesToDTO(summary.Matches),
	}
	dto.TeamSummary.Matches = nil
	if h.logoIndex != nil && h.logoIndex.Has(summary.Team) {
		dto.LogoURL = "/v1/teams/" + teamSlug + "/logo"
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

func (h *Handler) GetTeamLogo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamLogo")
	defer span.End()

	teamSlug := strings.TrimSpace(r.PathValue("teamSlug"))
	path, err := h.logoIndex.Lookup(teamSlug)
	if err != nil {
		if errors.Is(err, logos.ErrNotFound) {
			writeError(ctx, w, fmt.Errorf("%w: logo for team=%s", usecase.ErrNotFound, teamSlug))
			return
		}
		h.logger.WarnContext(ctx, "logo lookup failed", "team", teamSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
