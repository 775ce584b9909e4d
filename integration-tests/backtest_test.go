package integration_tests

import (
	"bytes"
	"context"
	"encoding/json"
	"macrobacktest/api"
	"macrobacktest/internal/config"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	l3_service "macrobacktest/internal/service/l3"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadFixture(t *testing.T) domain.AlignedSeries {
	t.Helper()
	f, err := os.Open("testdata/series.csv")
	require.NoError(t, err)
	defer f.Close()

	prices, scores, err := repository.NewCsvSeriesRepository().ReadSeries(f)
	require.NoError(t, err)
	require.Len(t, prices, 420)
	// scores are only published on mondays
	require.Less(t, len(scores), 100)

	return l1_service.AlignSeries(prices, scores)
}

type positionCsvRow struct {
	Date      string  `csv:"date"`
	Position  float64 `csv:"position"`
	LongLeg   float64 `csv:"long_leg"`
	HedgeLeg  float64 `csv:"hedge_leg"`
	Fee       float64 `csv:"fee"`
	Slippage  float64 `csv:"slippage"`
	Funding   float64 `csv:"funding"`
	NetReturn float64 `csv:"net_return"`
	Nav       float64 `csv:"nav"`
}

func TestBacktest_csvRoundTrip(t *testing.T) {
	series := loadFixture(t)
	require.Equal(t, 420, series.Len())

	cfg, err := config.LoadStrategyConfig("testdata/strategy.yaml", "")
	require.NoError(t, err)
	require.Equal(t, domain.RebalanceWeekly, cfg.RebalanceMode)
	require.Equal(t, 1.3, cfg.MaxLeverage)

	result, err := l3_service.RunBacktest(context.Background(), l3_service.RunBacktestInput{
		Symbol: "SPY",
		Series: series,
		Config: cfg,
	})
	require.NoError(t, err)
	require.Len(t, result.Positions, 420)

	buf := &bytes.Buffer{}
	csvRepository := repository.NewCsvSeriesRepository()
	require.NoError(t, csvRepository.WritePositions(buf, result.Positions))

	rows := []positionCsvRow{}
	require.NoError(t, gocsv.Unmarshal(bytes.NewReader(buf.Bytes()), &rows))
	require.Len(t, rows, 420)
	require.Equal(t, "2021-01-04", rows[0].Date)

	for i, r := range rows {
		require.GreaterOrEqual(t, r.Fee, 0.0)
		require.GreaterOrEqual(t, r.Slippage, 0.0)
		require.GreaterOrEqual(t, r.Funding, 0.0)
		require.InDelta(t, r.LongLeg+r.HedgeLeg, r.Position, 1e-9)
		require.LessOrEqual(t, r.Position, cfg.MaxLeverage+1e-9)
		if i == 0 {
			continue
		}
		require.InDelta(t, rows[i-1].Nav*(1+r.NetReturn), r.Nav, 1e-9, "nav on %s", r.Date)
	}
	require.InDelta(t, result.Performance.FinalNav, rows[len(rows)-1].Nav, 1e-9)

	tradesBuf := &bytes.Buffer{}
	require.NoError(t, csvRepository.WriteTrades(tradesBuf, result.Trades))
	tradeRows := []struct {
		Side     int    `csv:"side"`
		ExitDate string `csv:"exit_date"`
	}{}
	require.NoError(t, gocsv.Unmarshal(bytes.NewReader(tradesBuf.Bytes()), &tradeRows))
	require.Len(t, tradeRows, len(result.Trades))
	for i, tr := range tradeRows {
		// only the last trade can still be open
		if i < len(tradeRows)-1 {
			require.NotEmpty(t, tr.ExitDate)
		}
		require.Contains(t, []int{-1, 1}, tr.Side)
	}
}

func TestBacktest_apiMatchesEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	series := loadFixture(t)

	cfg, err := domain.PresetConfig(domain.PresetDefensive)
	require.NoError(t, err)
	direct, err := l3_service.RunBacktest(context.Background(), l3_service.RunBacktestInput{
		Symbol: "SPY",
		Series: series,
		Config: cfg,
	})
	require.NoError(t, err)

	rows := []map[string]any{}
	for i := range series.Dates {
		rows = append(rows, map[string]any{
			"date":  series.Dates[i].Format(time.DateOnly),
			"price": series.Prices[i],
			"score": series.Scores[i],
		})
	}
	body, err := json.Marshal(map[string]any{
		"symbol": "SPY",
		"preset": domain.PresetDefensive,
		"series": rows,
	})
	require.NoError(t, err)

	handler := api.ApiHandler{
		BacktestService: l3_service.NewBacktestService(nil, nil, nil, nil),
		Logger:          zap.NewNop().Sugar(),
	}
	engine := handler.InitializeRouterEngine()
	req := httptest.NewRequest(http.MethodPost, "/backtest", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(t, 200, w.Code, w.Body.String())

	out := struct {
		Performance struct {
			FinalNav     float64  `json:"finalNav"`
			BenchmarkNav float64  `json:"benchmarkNav"`
			Calmar       *float64 `json:"calmar"`
		} `json:"performance"`
		Trades          []map[string]any `json:"trades"`
		RebalanceEvents []map[string]any `json:"rebalanceEvents"`
	}{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))

	// json floats survive a round trip exactly
	require.Equal(t, direct.Performance.FinalNav, out.Performance.FinalNav)
	require.Equal(t, direct.Performance.BenchmarkNav, out.Performance.BenchmarkNav)
	require.Len(t, out.Trades, len(direct.Trades))
	require.Len(t, out.RebalanceEvents, len(direct.RebalanceEvents))
	if math.IsNaN(direct.Performance.Calmar) {
		require.Nil(t, out.Performance.Calmar)
	}
}
