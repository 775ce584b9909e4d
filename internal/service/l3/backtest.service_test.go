package l3_service

import (
	"context"
	"database/sql"
	"errors"
	"macrobacktest/internal/db/models/postgres/public/model"
	"macrobacktest/internal/domain"
	mock_repository "macrobacktest/internal/repository/mocks"
	l1_service "macrobacktest/internal/service/l1"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func Test_backtestServiceHandler_Backtest(t *testing.T) {
	ctrl := gomock.NewController(t)
	priceRepository := mock_repository.NewMockPriceRepository(ctrl)
	macroScoreRepository := mock_repository.NewMockMacroScoreRepository(ctrl)
	backtestRunRepository := mock_repository.NewMockBacktestRunRepository(ctrl)

	h := backtestServiceHandler{
		SeriesService: l1_service.NewSeriesService(
			nil,
			priceRepository,
			macroScoreRepository,
			mock_repository.NewMockYahooPriceRepository(ctrl),
		),
		BacktestRunRepository: backtestRunRepository,
	}
	ctx := context.Background()
	series := newSeries(260, wave, func(i int) float64 { return 50 + 30*math.Sin(float64(i)/29) })

	t.Run("inline series", func(t *testing.T) {
		cfg, err := domain.PresetConfig(domain.PresetDefensive)
		require.NoError(t, err)

		out, err := h.Backtest(ctx, BacktestInput{
			Symbol: "SPY",
			Series: &series,
			Config: cfg,
		})
		require.NoError(t, err)
		require.Nil(t, out.RunID)
		require.Len(t, out.Result.Positions, 260)
		require.Equal(t, domain.HedgeModeRiskCount, out.Result.Params.HedgeMode)
	})

	t.Run("inline series is sliced to the range", func(t *testing.T) {
		out, err := h.Backtest(ctx, BacktestInput{
			Symbol: "SPY",
			Series: &series,
			Start:  series.Dates[50],
			Config: domain.DefaultStrategyConfig(),
		})
		require.NoError(t, err)
		require.Len(t, out.Result.Positions, 210)
		require.Equal(t, series.Dates[50], out.Result.Positions[0].Date)
	})

	t.Run("stored series and persisted run", func(t *testing.T) {
		start, end := series.Dates[0], series.Dates[len(series.Dates)-1]
		prices := []domain.SeriesPoint{}
		scores := []domain.SeriesPoint{}
		for i, d := range series.Dates {
			prices = append(prices, domain.SeriesPoint{Date: d, Value: series.Prices[i]})
			scores = append(scores, domain.SeriesPoint{Date: d, Value: series.Scores[i]})
		}
		priceRepository.EXPECT().
			List(gomock.Any(), "SPY", start, end).
			Return(prices, nil)
		macroScoreRepository.EXPECT().
			List(gomock.Any(), start.AddDate(0, 0, -14), end).
			Return(scores, nil)

		runID := uuid.New()
		backtestRunRepository.EXPECT().
			Add(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ *sql.Tx, run model.BacktestRun) (*model.BacktestRun, error) {
				require.Equal(t, "SPY", run.Symbol)
				require.Equal(t, domain.PresetDefensive, *run.Preset)
				require.Equal(t, int32(260), run.NumRows)
				require.Equal(t, start, run.StartDate)
				require.NotEmpty(t, run.Config)
				run.BacktestRunID = runID
				return &run, nil
			})

		cfg, err := domain.PresetConfig(domain.PresetDefensive)
		require.NoError(t, err)
		out, err := h.Backtest(ctx, BacktestInput{
			Symbol:  "SPY",
			Start:   start,
			End:     end,
			Preset:  domain.PresetDefensive,
			Config:  cfg,
			Persist: true,
		})
		require.NoError(t, err)
		require.Equal(t, runID, *out.RunID)
	})

	t.Run("missing series", func(t *testing.T) {
		_, err := h.Backtest(ctx, BacktestInput{Symbol: "SPY", Config: domain.DefaultStrategyConfig()})
		require.ErrorIs(t, err, ErrMissingSeries)
	})

	t.Run("short series", func(t *testing.T) {
		short := newSeries(40, wave, func(int) float64 { return 50 })
		_, err := h.Backtest(ctx, BacktestInput{Symbol: "SPY", Series: &short, Config: domain.DefaultStrategyConfig()})
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})
}

func Test_backtestServiceHandler_Diagnose(t *testing.T) {
	h := backtestServiceHandler{}
	series := newSeries(260, wave, func(i int) float64 { return 50 + 30*math.Sin(float64(i)/29) })

	out, err := h.Diagnose(context.Background(), DiagnosticsInput{Symbol: "SPY", Series: &series})
	require.NoError(t, err)
	require.Len(t, out.ShockForward, 8)
	require.Len(t, out.LeadLag, 3)
}

func Test_backtestServiceHandler_GetRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	backtestRunRepository := mock_repository.NewMockBacktestRunRepository(ctrl)
	h := backtestServiceHandler{BacktestRunRepository: backtestRunRepository}

	id := uuid.New()
	backtestRunRepository.EXPECT().Get(id).Return(nil, errors.New("boom"))

	_, err := h.GetRun(context.Background(), id)
	require.ErrorContains(t, err, "boom")
}

func Test_backtestServiceHandler_ListRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	backtestRunRepository := mock_repository.NewMockBacktestRunRepository(ctrl)
	h := backtestServiceHandler{BacktestRunRepository: backtestRunRepository}

	t.Run("caps the limit", func(t *testing.T) {
		backtestRunRepository.EXPECT().ListRecent("SPY", int64(maxListedRuns)).Return([]model.BacktestRun{{Symbol: "SPY"}}, nil)

		runs, err := h.ListRuns(context.Background(), "SPY", 0)
		require.NoError(t, err)
		require.Len(t, runs, 1)
	})

	t.Run("passes through a small limit", func(t *testing.T) {
		backtestRunRepository.EXPECT().ListRecent("GLD", int64(5)).Return([]model.BacktestRun{}, nil)

		runs, err := h.ListRuns(context.Background(), "GLD", 5)
		require.NoError(t, err)
		require.Empty(t, runs)
	})
}
