package api

import (
	"encoding/json"
	"fmt"
	"macrobacktest/internal/domain"
	l3_service "macrobacktest/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type BacktestRequest struct {
	Symbol string `json:"symbol"`
	// either inline rows or a stored symbol with start and end
	Series []seriesRowDto `json:"series"`
	Start  string         `json:"start"`
	End    string         `json:"end"`

	Preset string `json:"preset"`
	// any StrategyConfig field, applied on top of the preset
	Overrides       json.RawMessage `json:"overrides"`
	UseTreasuryRate bool            `json:"useTreasuryRate"`
	Persist         bool            `json:"persist"`
}

type BacktestResponse struct {
	RunID           *string                 `json:"runID"`
	Symbol          string                  `json:"symbol"`
	Params          domain.StrategyParams   `json:"params"`
	Positions       []positionDto           `json:"positions"`
	Trades          []tradeDto              `json:"trades"`
	Performance     performanceDto          `json:"performance"`
	TradeStats      tradeStatsDto           `json:"tradeStats"`
	RebalanceEvents []domain.RebalanceEvent `json:"rebalanceEvents"`
	Warnings        []string                `json:"warnings"`
	Profile         *domain.Profile         `json:"profile"`
}

func strategyConfigFromRequest(preset string, overrides json.RawMessage) (domain.StrategyConfig, error) {
	cfg, err := domain.PresetConfig(preset)
	if err != nil {
		return domain.StrategyConfig{}, err
	}
	if len(overrides) > 0 && string(overrides) != "null" {
		if err := json.Unmarshal(overrides, &cfg); err != nil {
			return domain.StrategyConfig{}, fmt.Errorf("%w: failed to parse overrides: %v", domain.ErrInvalidConfig, err)
		}
	}
	return cfg, nil
}

func (m ApiHandler) backtest(c *gin.Context) {
	profile, endProfile := domain.NewProfile()
	ctx := domain.NewCtxWithProfile(c, profile)

	var requestBody BacktestRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	in := l3_service.BacktestInput{
		Symbol:          requestBody.Symbol,
		Preset:          requestBody.Preset,
		UseTreasuryRate: requestBody.UseTreasuryRate,
		Persist:         requestBody.Persist,
	}

	var err error
	if in.Start, err = parseOptionalDate(requestBody.Start); err != nil {
		returnErrorJson(err, c)
		return
	}
	if in.End, err = parseOptionalDate(requestBody.End); err != nil {
		returnErrorJson(err, c)
		return
	}
	if !in.Start.IsZero() && !in.End.IsZero() && in.End.Before(in.Start) {
		returnErrorJsonCode(fmt.Errorf("end date cannot be before start date"), c, 400)
		return
	}
	if len(requestBody.Series) > 0 {
		if in.Series, err = seriesFromRows(requestBody.Series); err != nil {
			returnErrorJson(err, c)
			return
		}
	}
	if in.Config, err = strategyConfigFromRequest(requestBody.Preset, requestBody.Overrides); err != nil {
		returnErrorJson(err, c)
		return
	}

	result, err := m.BacktestService.Backtest(ctx, in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	endProfile()

	c.JSON(200, newBacktestResponse(result, profile))
}

func newBacktestResponse(resp *l3_service.BacktestResponse, profile *domain.Profile) BacktestResponse {
	result := resp.Result
	out := BacktestResponse{
		Symbol:          result.Symbol,
		Params:          result.Params,
		Positions:       make([]positionDto, 0, len(result.Positions)),
		Trades:          make([]tradeDto, 0, len(result.Trades)),
		Performance:     newPerformanceDto(result.Performance),
		TradeStats:      newTradeStatsDto(result.TradeStats),
		RebalanceEvents: result.RebalanceEvents,
		Warnings:        result.Warnings,
		Profile:         profile,
	}
	if resp.RunID != nil {
		id := resp.RunID.String()
		out.RunID = &id
	}
	for _, p := range result.Positions {
		out.Positions = append(out.Positions, newPositionDto(p))
	}
	for _, t := range result.Trades {
		out.Trades = append(out.Trades, newTradeDto(t))
	}
	return out
}
