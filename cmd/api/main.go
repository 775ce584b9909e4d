package main

import (
	"context"
	"log"
	"macrobacktest/api"
	"macrobacktest/cmd"
	"macrobacktest/internal/config"
	"macrobacktest/internal/logger"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	deps, err := cmd.InitializeDependencies(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(deps)

	deps.Logger.Infof("starting api, commit %s", os.Getenv("commit_hash"))

	scheduler := cron.New(cron.WithLocation(time.UTC))
	_, err = scheduler.AddFunc(cfg.Ingest.Cron, func() {
		ctx := logger.WithLogger(context.Background(), deps.Logger.With("job", "ingest"))
		in := api.DefaultIngestInput(cfg.Ingest.LookbackDays)
		in.Symbols = cfg.Ingest.Symbols
		if err := deps.SeriesService.IngestPrices(ctx, in); err != nil {
			deps.Logger.Errorf("scheduled ingest failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("failed to schedule ingest: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	err = deps.ApiHandler.StartApi(cfg.Api.Port)
	if err != nil {
		log.Fatal(err)
	}
}
