package l3_service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"macrobacktest/internal/calculator"
	"macrobacktest/internal/db/models/postgres/public/model"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrMissingSeries = errors.New("either an inline series or a symbol with a date range is required")

type BacktestService interface {
	Backtest(ctx context.Context, in BacktestInput) (*BacktestResponse, error)
	Diagnose(ctx context.Context, in DiagnosticsInput) (*DiagnosticsResult, error)
	GetRun(ctx context.Context, id uuid.UUID) (*model.BacktestRun, error)
	ListRuns(ctx context.Context, symbol string, limit int64) ([]model.BacktestRun, error)
}

type BacktestInput struct {
	Symbol string
	// Series wins over Start/End when set
	Series *domain.AlignedSeries
	Start  time.Time
	End    time.Time

	Preset string
	Config domain.StrategyConfig
	// replace the configured risk free rate with the 3 month treasury
	// yield on the first day of the run
	UseTreasuryRate bool
	Persist         bool
}

type BacktestResponse struct {
	RunID  *uuid.UUID
	Result *domain.BacktestResult
}

type DiagnosticsInput struct {
	Symbol         string
	Series         *domain.AlignedSeries
	Start          time.Time
	End            time.Time
	ShockThreshold float64
}

type DiagnosticsResult struct {
	ShockForward []calculator.ShockForwardStat `json:"shockForward"`
	LeadLag      []calculator.LeadLagStat      `json:"leadLag"`
}

type backtestServiceHandler struct {
	Db                     *sql.DB
	SeriesService          l1_service.SeriesService
	BacktestRunRepository  repository.BacktestRunRepository
	InterestRateRepository repository.InterestRateRepository
}

func NewBacktestService(
	db *sql.DB,
	seriesService l1_service.SeriesService,
	backtestRunRepository repository.BacktestRunRepository,
	interestRateRepository repository.InterestRateRepository,
) BacktestService {
	return &backtestServiceHandler{
		Db:                     db,
		SeriesService:          seriesService,
		BacktestRunRepository:  backtestRunRepository,
		InterestRateRepository: interestRateRepository,
	}
}

func (h backtestServiceHandler) loadSeries(ctx context.Context, symbol string, series *domain.AlignedSeries, start, end time.Time) (*domain.AlignedSeries, error) {
	if series != nil {
		sliced := series.Slice(start, end)
		return &sliced, nil
	}
	if symbol == "" || start.IsZero() || end.IsZero() {
		return nil, ErrMissingSeries
	}
	out, err := h.SeriesService.LoadAligned(ctx, l1_service.LoadAlignedInput{
		Symbol: symbol,
		Start:  start,
		End:    end,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load series: %w", err)
	}
	return out, nil
}

func (h backtestServiceHandler) treasuryRate(ctx context.Context, date time.Time) (float64, error) {
	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	curve, err := h.InterestRateRepository.GetRatesOnDate(ctx, tx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to get rates on %s: %w", date.Format(time.DateOnly), err)
	}
	rate, err := curve.RiskFreeRate()
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit rates: %w", err)
	}
	return rate, nil
}

func (h backtestServiceHandler) Backtest(ctx context.Context, in BacktestInput) (*BacktestResponse, error) {
	profile := domain.GetProfile(ctx)

	_, endSpan := profile.StartNewSpan("load series")
	series, err := h.loadSeries(ctx, in.Symbol, in.Series, in.Start, in.End)
	if err != nil {
		return nil, err
	}
	endSpan()

	cfg := in.Config
	if in.UseTreasuryRate && series.Len() > 0 {
		_, endSpan = profile.StartNewSpan("risk free rate")
		rate, err := h.treasuryRate(ctx, series.Dates[0])
		if err != nil {
			return nil, fmt.Errorf("failed to get treasury rate: %w", err)
		}
		endSpan()
		cfg.RiskFreeRate = rate
	}

	_, endSpan = profile.StartNewSpan("run engine")
	result, err := RunBacktest(ctx, RunBacktestInput{
		Symbol: in.Symbol,
		Series: *series,
		Config: cfg,
	})
	if err != nil {
		return nil, err
	}
	endSpan()

	out := &BacktestResponse{Result: result}
	if !in.Persist {
		return out, nil
	}

	_, endSpan = profile.StartNewSpan("persist run")
	run, err := newRunModel(in, result)
	if err != nil {
		return nil, err
	}
	inserted, err := h.BacktestRunRepository.Add(nil, *run)
	if err != nil {
		return nil, fmt.Errorf("failed to persist backtest run: %w", err)
	}
	endSpan()
	out.RunID = &inserted.BacktestRunID

	return out, nil
}

func finitePtr(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func newRunModel(in BacktestInput, result *domain.BacktestResult) (*model.BacktestRun, error) {
	configJson, err := json.Marshal(result.Params.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	var preset *string
	if in.Preset != "" {
		preset = &in.Preset
	}

	positions := result.Positions
	perf := result.Performance
	return &model.BacktestRun{
		Symbol:        result.Symbol,
		Preset:        preset,
		Config:        string(configJson),
		StartDate:     positions[0].Date,
		EndDate:       positions[len(positions)-1].Date,
		NumRows:       int32(len(positions)),
		NumTrades:     int32(len(result.Trades)),
		FinalNav:      decimal.NewFromFloat(perf.FinalNav),
		BenchmarkNav:  decimal.NewFromFloat(perf.BenchmarkNav),
		Cagr:          finitePtr(perf.Cagr),
		MaxDrawdown:   finitePtr(perf.MaxDrawdown),
		SharpeMonthly: finitePtr(perf.SharpeMonthly),
		Calmar:        finitePtr(perf.Calmar),
		TotalCost:     perf.Costs.Total,
	}, nil
}

func (h backtestServiceHandler) Diagnose(ctx context.Context, in DiagnosticsInput) (*DiagnosticsResult, error) {
	series, err := h.loadSeries(ctx, in.Symbol, in.Series, in.Start, in.End)
	if err != nil {
		return nil, err
	}

	threshold := in.ShockThreshold
	if threshold == 0 {
		threshold = domain.DefaultStrategyConfig().ShockDropPct
	}
	out := &DiagnosticsResult{
		ShockForward: calculator.ShockForwardStats(series.Prices, threshold, calculator.DefaultShockHorizons),
		LeadLag:      calculator.LeadLag(series.Scores, series.Prices, calculator.DefaultLeadLagHorizons),
	}
	if len(out.LeadLag) == 0 {
		logger.FromContext(ctx).Infof("lead-lag skipped for %s: only %d rows", in.Symbol, series.Len())
	}

	return out, nil
}

func (h backtestServiceHandler) GetRun(ctx context.Context, id uuid.UUID) (*model.BacktestRun, error) {
	run, err := h.BacktestRunRepository.Get(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id.String(), err)
	}
	return run, nil
}

const maxListedRuns = 100

func (h backtestServiceHandler) ListRuns(ctx context.Context, symbol string, limit int64) ([]model.BacktestRun, error) {
	if limit <= 0 || limit > maxListedRuns {
		limit = maxListedRuns
	}
	runs, err := h.BacktestRunRepository.ListRecent(symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs for %s: %w", symbol, err)
	}
	return runs, nil
}
