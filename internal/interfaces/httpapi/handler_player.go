package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/player"
	"github.com/americascouted/ncaa-stats/internal/domain/week"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

type listPlayersRequest struct {
	Gender    string `validate:"required,oneof=men women"`
	SortOrder string `validate:"omitempty,oneof=asc desc"`
}

type playerDTO struct {
	player.Aggregated
	TeamSlug    string `json:"team_slug"`
	TeamLogoURL string `json:"team_logo_url,omitempty"`
}

type listPlayersResponse struct {
	Players    []playerDTO          `json:"players"`
	TotalCount int                  `json:"total_count"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	Week       week.Marker          `json:"week"`
	Facets     usecase.PlayerFacets `json:"facets"`
}

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	q := r.URL.Query()
	gender := genderOrDefault(q.Get("gender"))
	if err := h.validateRequest(ctx, listPlayersRequest{
		Gender:    gender,
		SortOrder: strings.TrimSpace(q.Get("sort_order")),
	}); err != nil {
		writeError(ctx, w, err)
		return
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("page_size"))

	result, err := h.playerService.List(ctx, usecase.PlayerQuery{
		EndWeek:    q.Get("week"),
		Gender:     gender,
		Position:   q.Get("position"),
		Team:       q.Get("team"),
		Division:   q.Get("division"),
		Conference: q.Get("conference"),
		Search:     q.Get("search"),
		SortBy:     q.Get("sort_by"),
		SortOrder:  q.Get("sort_order"),
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "gender", gender, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, listPlayersResponse{
		Players:    h.playersToDTO(result.Players),
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
		Week:       result.Week,
		Facets:     result.Facets,
	})
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	name := strings.TrimSpace(r.PathValue("playerName"))
	gender := genderOrDefault(r.URL.Query().Get("gender"))
	if err := h.validateRequest(ctx, listPlayersRequest{Gender: gender}); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.playerService.Get(ctx, name, gender, r.URL.Query().Get("week"))
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player", name, "gender", gender, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.playersToDTO(items))
}

func (h *Handler) playersToDTO(items []player.Aggregated) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		slug := usecase.TeamSlug(p.Team)
		dto := playerDTO{Aggregated: p, TeamSlug: slug}
		if h.logoIndex != nil && h.logoIndex.Has(p.Team) {
			dto.TeamLogoURL = "/v1/teams/" + slug + "/logo"
		}
		out = append(out, dto)
	}
	return out
}

func genderOrDefault(raw string) string {
	gender := strings.ToLower(strings.TrimSpace(raw))
	if gender == "" {
		return "men"
	}
	return gender
}
