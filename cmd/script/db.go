package main

import (
	"context"
	"fmt"
	"macrobacktest/api"
	"macrobacktest/cmd"
	"macrobacktest/internal/config"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
)

func withDependencies(fn func(ctx context.Context, deps *cmd.Dependencies) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	deps, err := cmd.InitializeDependencies(cfg)
	if err != nil {
		return err
	}
	defer cmd.CloseDependencies(deps)

	ctx := logger.WithLogger(context.Background(), deps.Logger)
	return fn(ctx, deps)
}

func newIngestCmd() *cobra.Command {
	var (
		symbols []string
		start   string
		end     string
	)
	c := &cobra.Command{
		Use:   "ingest",
		Short: "fetch daily closes from yahoo into the price table",
		RunE: func(_ *cobra.Command, args []string) error {
			return withDependencies(func(ctx context.Context, deps *cmd.Dependencies) error {
				in := api.DefaultIngestInput(deps.Config.Ingest.LookbackDays)
				in.Symbols = deps.Config.Ingest.Symbols
				if len(symbols) > 0 {
					in.Symbols = symbols
				}
				if start != "" {
					d, err := time.Parse(time.DateOnly, start)
					if err != nil {
						return fmt.Errorf("failed to parse start: %w", err)
					}
					in.Start = d
				}
				if end != "" {
					d, err := time.Parse(time.DateOnly, end)
					if err != nil {
						return fmt.Errorf("failed to parse end: %w", err)
					}
					in.End = d
				}
				return deps.SeriesService.IngestPrices(ctx, in)
			})
		},
	}
	c.Flags().StringSliceVar(&symbols, "symbol", nil, "symbols to fetch, defaults to the configured list")
	c.Flags().StringVar(&start, "start", "", "first date, yyyy-mm-dd")
	c.Flags().StringVar(&end, "end", "", "last date, yyyy-mm-dd")
	return c
}

func newImportScoresCmd() *cobra.Command {
	var (
		file   string
		source string
	)
	c := &cobra.Command{
		Use:   "import-scores",
		Short: "load a date,score csv into the macro score table",
		RunE: func(_ *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open scores: %w", err)
			}
			defer f.Close()

			scores, err := repository.NewCsvSeriesRepository().ReadScores(f)
			if err != nil {
				return err
			}
			if source == "" {
				source = filepath.Base(file)
			}

			return withDependencies(func(ctx context.Context, deps *cmd.Dependencies) error {
				return deps.SeriesService.ImportScores(ctx, l1_service.ImportScoresInput{
					Scores: scores,
					Source: source,
				})
			})
		},
	}
	c.Flags().StringVar(&file, "file", "", "csv with date,score columns")
	c.Flags().StringVar(&source, "source", "", "label stored with each score, defaults to the file name")
	_ = c.MarkFlagRequired("file")
	return c
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	c := &cobra.Command{
		Use:   "token",
		Short: "mint a bearer token for /updatePrices",
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Api.JwtSecret == "" {
				return fmt.Errorf("no jwt secret configured, set %sJWT_SECRET", config.EnvPrefix)
			}
			token, err := api.NewApiJWT(cfg.Api.JwtSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().StringVar(&subject, "subject", "ops", "who the token is for")
	c.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "how long the token is valid")
	return c
}
