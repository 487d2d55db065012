package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/americascouted/ncaa-stats/internal/config"
	"github.com/americascouted/ncaa-stats/internal/domain/division"
	"github.com/americascouted/ncaa-stats/internal/infrastructure/logos"
	"github.com/americascouted/ncaa-stats/internal/infrastructure/snapshotcsv"
	"github.com/americascouted/ncaa-stats/internal/interfaces/httpapi"
	"github.com/americascouted/ncaa-stats/internal/platform/cache"
	"github.com/americascouted/ncaa-stats/internal/platform/logging"
	"github.com/americascouted/ncaa-stats/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var store *cache.Store
	if cfg.CacheEnabled {
		store = cache.NewStore(cfg.CacheTTL)
	}

	table := division.DefaultTable()
	if cfg.DivisionTablePath != "" {
		loaded, err := division.LoadTable(cfg.DivisionTablePath)
		if err != nil {
			return nil, fmt.Errorf("load division table: %w", err)
		}
		table = loaded
	}

	snapshots := snapshotcsv.NewStore(cfg.DataDir, logger)
	weekRepo := snapshotcsv.NewWeekIndex(snapshots, store)
	playerRepo := snapshotcsv.NewPlayerRepository(snapshots)
	matchRepo := snapshotcsv.NewMatchRepository(snapshots)

	logoIndex := logos.NewIndex(cfg.LogosDir, logger)
	if err := logoIndex.Rebuild(context.Background()); err != nil {
		return nil, fmt.Errorf("build logo index: %w", err)
	}

	weekSvc := usecase.NewWeekService(weekRepo)
	matchSvc := usecase.NewMatchService(weekRepo, matchRepo, table, store)
	playerSvc := usecase.NewPlayerService(weekRepo, playerRepo, matchRepo, table, division.DefaultOverrides(), store)
	teamSvc := usecase.NewTeamService(matchSvc)

	handler := httpapi.NewHandler(weekSvc, playerSvc, matchSvc, teamSvc, logoIndex, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
