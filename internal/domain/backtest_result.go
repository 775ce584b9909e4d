package domain

import (
	"time"
)

// PositionRecord is everything the engine derived for one trading day
type PositionRecord struct {
	Date       time.Time  `json:"date"`
	Price      float64    `json:"price"`
	Score      float64    `json:"score"`
	Regime     float64    `json:"regime"`
	Slope      float64    `json:"slope"`
	FastSlope  float64    `json:"fastSlope"`
	FastMA     float64    `json:"fastMa"`
	MidMA      float64    `json:"midMa"`
	LongMA     float64    `json:"longMa"`
	TrendState TrendState `json:"trendState"`

	MacroTarget   float64    `json:"macroTarget"`
	LongTarget    float64    `json:"longTarget"`
	HedgeNotional float64    `json:"hedgeNotional"`
	BearSignal    BearSignal `json:"bearSignal"`
	RiskCount     int        `json:"riskCount"`
	EventHedge    float64    `json:"eventHedge"`

	// pre-quantization target handed to the state machine
	DesiredTarget   float64     `json:"desiredTarget"`
	QuantizedTarget float64     `json:"quantizedTarget"`
	CycleState      int         `json:"cycleState"`
	ForceSwitch     bool        `json:"forceSwitch"`
	RebalanceDay    bool        `json:"rebalanceDay"`
	AdoptReason     string      `json:"adoptReason,omitempty"`
	AdoptedLong     float64     `json:"adoptedLong"`
	AdoptedHedge    float64     `json:"adoptedHedge"`
	Signal          SignalLabel `json:"signal"`

	// realized legs earn the day's return, lagged one row behind adoption
	LongLeg          float64 `json:"longLeg"`
	HedgeLeg         float64 `json:"hedgeLeg"`
	RealizedPosition float64 `json:"realizedPosition"`

	PriceReturn  float64 `json:"priceReturn"`
	Turnover     float64 `json:"turnover"`
	Fee          float64 `json:"fee"`
	Slippage     float64 `json:"slippage"`
	Funding      float64 `json:"funding"`
	GrossReturn  float64 `json:"grossReturn"`
	NetReturn    float64 `json:"netReturn"`
	Nav          float64 `json:"nav"`
	BenchmarkNav float64 `json:"benchmarkNav"`
}

type TradeResult string

const (
	TradeWin      TradeResult = "win"
	TradeLoss     TradeResult = "loss"
	TradeFloating TradeResult = "floating"
)

type Trade struct {
	Side       int         `json:"side"`
	Mode       string      `json:"mode"`
	EntryIndex int         `json:"entryIndex"`
	ExitIndex  int         `json:"exitIndex"`
	EntryDate  time.Time   `json:"entryDate"`
	ExitDate   *time.Time  `json:"exitDate"`
	EntryScore float64     `json:"entryScore"`
	EntryPrice float64     `json:"entryPrice"`
	ExitPrice  float64     `json:"exitPrice"`
	PnL        float64     `json:"pnl"`
	Result     TradeResult `json:"result"`
}

// Bars is the number of rows the trade was active for
func (t Trade) Bars() int {
	return t.ExitIndex - t.EntryIndex
}

type CostBreakdown struct {
	Fee      float64 `json:"fee"`
	Slippage float64 `json:"slippage"`
	Funding  float64 `json:"funding"`
	Total    float64 `json:"total"`
}

// PerformanceSummary uses NaN for statistics that are undefined over
// the given run, and +Inf where a ratio has a zero denominator
type PerformanceSummary struct {
	Cagr            float64       `json:"cagr"`
	MaxDrawdown     float64       `json:"maxDrawdown"`
	RecoveryDays    float64       `json:"recoveryDays"`
	SharpeMonthly   float64       `json:"sharpeMonthly"`
	SortinoMonthly  float64       `json:"sortinoMonthly"`
	Calmar          float64       `json:"calmar"`
	Cvar5           float64       `json:"cvar5"`
	DownsideCapture float64       `json:"downsideCapture"`
	AvgTurnover     float64       `json:"avgTurnover"`
	Costs           CostBreakdown `json:"costs"`
	FinalNav        float64       `json:"finalNav"`
	BenchmarkNav    float64       `json:"benchmarkNav"`
	Alpha           float64       `json:"alpha"`
}

type TradeGroupStats struct {
	Group     string  `json:"group"`
	Trades    int     `json:"trades"`
	PnLRatio  float64 `json:"pnlRatio"`
	AvgReturn float64 `json:"avgReturn"`
}

type TradeStats struct {
	Trades   int               `json:"trades"`
	PnLRatio float64           `json:"pnlRatio"`
	ByMode   []TradeGroupStats `json:"byMode"`
	ByScore  []TradeGroupStats `json:"byScore"`
}

type RebalanceEvent struct {
	Date         time.Time   `json:"date"`
	PrevPosition float64     `json:"prevPosition"`
	NewPosition  float64     `json:"newPosition"`
	Delta        float64     `json:"delta"`
	Regime       float64     `json:"regime"`
	Signal       SignalLabel `json:"signal"`
}

type BacktestResult struct {
	Symbol          string             `json:"symbol"`
	Params          StrategyParams     `json:"params"`
	Positions       []PositionRecord   `json:"positions"`
	Trades          []Trade            `json:"trades"`
	Performance     PerformanceSummary `json:"performance"`
	TradeStats      TradeStats         `json:"tradeStats"`
	RebalanceEvents []RebalanceEvent   `json:"rebalanceEvents"`
	Warnings        []string           `json:"warnings"`
}
