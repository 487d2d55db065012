package httpapi

import (
	"net/http"
)

func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListWeeks")
	defer span.End()

	weeks, err := h.weekService.ListWeeks(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list weeks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, weeks)
}

// Refresh drops the cached week index and every cached aggregate, then
// rescans the logo directory, so new snapshot files show up without a
// restart.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Refresh")
	defer span.End()

	h.weekService.Refresh(ctx)
	h.playerService.Refresh(ctx)
	h.matchService.Refresh(ctx)
	if err := h.logoIndex.Rebuild(ctx); err != nil {
		h.logger.WarnContext(ctx, "logo index rebuild failed", "error", err)
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "refreshed"})
}
