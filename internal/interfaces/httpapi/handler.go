package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/americascouted/ncaa-stats/internal/infrastructure/logos"
	"github.com/americascouted/ncaa-stats/internal/platform/logging"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

type Handler struct {
	weekService   *usecase.WeekService
	playerService *usecase.PlayerService
	matchService  *usecase.MatchService
	teamService   *usecase.TeamService
	logoIndex     *logos.Index
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(
	weekService *usecase.WeekService,
	playerService *usecase.PlayerService,
	matchService *usecase.MatchService,
	teamService *usecase.TeamService,
	logoIndex *logos.Index,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		weekService:   weekService,
		playerService: playerService,
		matchService:  matchService,
		teamService:   teamService,
		logoIndex:     logoIndex,
		logger:        logger,
		validator:     validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}
