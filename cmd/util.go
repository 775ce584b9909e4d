package cmd

import (
	"database/sql"
	"fmt"
	"macrobacktest/api"
	"macrobacktest/internal/config"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	l3_service "macrobacktest/internal/service/l3"
	treasury_client "macrobacktest/pkg/treasury"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

type Dependencies struct {
	Config *config.AppConfig
	Db     *sql.DB
	Logger *zap.SugaredLogger

	SeriesService       l1_service.SeriesService
	BacktestService     l3_service.BacktestService
	CsvSeriesRepository repository.CsvSeriesRepository

	ApiHandler *api.ApiHandler
}

func CloseDependencies(deps *Dependencies) {
	if deps.Db == nil {
		return
	}
	if err := deps.Db.Close(); err != nil {
		deps.Logger.Errorf("failed to close db: %v", err)
	}
}

// InitializeDependencies wires every repository and service off the app
// config. the db handle is lazy, so nothing here dials postgres
func InitializeDependencies(cfg *config.AppConfig) (*Dependencies, error) {
	log := logger.New()

	dbConn, err := sql.Open("postgres", cfg.Db.ToConnectionStr())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to db: %w", err)
	}

	treasuryClient := treasury_client.New(
		&http.Client{Timeout: time.Duration(cfg.Treasury.TimeoutSeconds) * time.Second},
		cfg.Treasury.BaseURL,
	)

	priceRepository := repository.NewPriceRepository()
	macroScoreRepository := repository.NewMacroScoreRepository()
	yahooPriceRepository := repository.NewYahooPriceRepository()
	backtestRunRepository := repository.NewBacktestRunRepository(dbConn)
	interestRateRepository := repository.NewInterestRateRepository(treasuryClient)

	seriesService := l1_service.NewSeriesService(
		dbConn,
		priceRepository,
		macroScoreRepository,
		yahooPriceRepository,
	)
	backtestService := l3_service.NewBacktestService(
		dbConn,
		seriesService,
		backtestRunRepository,
		interestRateRepository,
	)

	apiHandler := &api.ApiHandler{
		BacktestService:    backtestService,
		SeriesService:      seriesService,
		JwtSecret:          cfg.Api.JwtSecret,
		AllowedOrigins:     cfg.Api.AllowedOrigins,
		IngestLookbackDays: cfg.Ingest.LookbackDays,
		Logger:             log,
	}

	return &Dependencies{
		Config:              cfg,
		Db:                  dbConn,
		Logger:              log,
		SeriesService:       seriesService,
		BacktestService:     backtestService,
		CsvSeriesRepository: repository.NewCsvSeriesRepository(),
		ApiHandler:          apiHandler,
	}, nil
}
