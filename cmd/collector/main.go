package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/americascouted/ncaa-stats/external/ncaa"
	"github.com/americascouted/ncaa-stats/internal/collector"
	"github.com/americascouted/ncaa-stats/internal/config"
	"github.com/americascouted/ncaa-stats/internal/platform/logging"
	"github.com/americascouted/ncaa-stats/internal/platform/resilience"
)

func main() {
	var (
		startFlag = flag.String("start", "", "first day to collect (YYYY-MM-DD)")
		endFlag   = flag.String("end", "", "last day to collect (YYYY-MM-DD), defaults to yesterday")
		outFlag   = flag.String("out", "", "snapshot output directory, defaults to DATA_DIR")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	if *startFlag == "" {
		logger.Error("missing required -start flag")
		os.Exit(2)
	}
	start, err := time.Parse("2006-01-02", *startFlag)
	if err != nil {
		logger.Error("parse -start", "error", err)
		os.Exit(2)
	}
	end := time.Now().AddDate(0, 0, -1)
	if *endFlag != "" {
		if end, err = time.Parse("2006-01-02", *endFlag); err != nil {
			logger.Error("parse -end", "error", err)
			os.Exit(2)
		}
	}
	outDir := cfg.DataDir
	if *outFlag != "" {
		outDir = *outFlag
	}

	client := ncaa.NewClient(ncaa.ClientConfig{
		BaseURL:    cfg.NCAABaseURL,
		Timeout:    cfg.NCAATimeout,
		MaxRetries: cfg.NCAAMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.NCAACircuitEnabled,
			FailureThreshold: cfg.NCAACircuitFailureCount,
			OpenTimeout:      cfg.NCAACircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.NCAACircuitHalfOpenMaxReq,
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := collector.New(client, logger, collector.Config{
		Start:   start,
		End:     end,
		OutDir:  outDir,
		Workers: cfg.CollectorWorkers,
	})

	logger.Info("collector starting",
		"start", start.Format("2006-01-02"),
		"end", end.Format("2006-01-02"),
		"out", outDir)
	if err := c.Run(ctx); err != nil {
		logger.Error("collection failed", "error", err)
		os.Exit(1)
	}
	logger.Info("collection complete")
}
