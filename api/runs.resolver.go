package api

import (
	"fmt"
	"macrobacktest/internal/db/models/postgres/public/model"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type runResponse struct {
	RunID         string   `json:"runID"`
	Symbol        string   `json:"symbol"`
	Preset        *string  `json:"preset"`
	StartDate     string   `json:"startDate"`
	EndDate       string   `json:"endDate"`
	NumRows       int32    `json:"numRows"`
	NumTrades     int32    `json:"numTrades"`
	FinalNav      string   `json:"finalNav"`
	BenchmarkNav  string   `json:"benchmarkNav"`
	Cagr          *float64 `json:"cagr"`
	MaxDrawdown   *float64 `json:"maxDrawdown"`
	SharpeMonthly *float64 `json:"sharpeMonthly"`
	Calmar        *float64 `json:"calmar"`
	TotalCost     float64  `json:"totalCost"`
	CreatedAt     string   `json:"createdAt"`
	// raw json of the normalized StrategyConfig the run used
	Config string `json:"config"`
}

func newRunResponse(run model.BacktestRun) runResponse {
	return runResponse{
		RunID:         run.BacktestRunID.String(),
		Symbol:        run.Symbol,
		Preset:        run.Preset,
		StartDate:     run.StartDate.Format("2006-01-02"),
		EndDate:       run.EndDate.Format("2006-01-02"),
		NumRows:       run.NumRows,
		NumTrades:     run.NumTrades,
		FinalNav:      run.FinalNav.StringFixed(6),
		BenchmarkNav:  run.BenchmarkNav.StringFixed(6),
		Cagr:          run.Cagr,
		MaxDrawdown:   run.MaxDrawdown,
		SharpeMonthly: run.SharpeMonthly,
		Calmar:        run.Calmar,
		TotalCost:     run.TotalCost,
		CreatedAt:     run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		Config:        run.Config,
	}
}

func (m ApiHandler) getRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid run id: %w", err), c, 400)
		return
	}

	run, err := m.BacktestService.GetRun(c, id)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, newRunResponse(*run))
}

func (m ApiHandler) listRuns(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		returnErrorJsonCode(fmt.Errorf("symbol is required"), c, 400)
		return
	}
	var limit int64
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.ParseInt(l, 10, 64)
		if err != nil {
			returnErrorJsonCode(fmt.Errorf("invalid limit: %w", err), c, 400)
			return
		}
		limit = parsed
	}

	runs, err := m.BacktestService.ListRuns(c, symbol, limit)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]runResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, newRunResponse(r))
	}
	c.JSON(200, out)
}
