package api

import (
	"fmt"
	"macrobacktest/internal/calculator"
	"macrobacktest/internal/domain"
	"math"
	"time"
)

// json cannot carry NaN or Inf, and the engine uses both for "undefined"
// (warmup averages, ratios with a zero denominator). the dtos below send
// those as null instead

func finiteOrNil(f float64) *float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

type seriesRowDto struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
	Score float64 `json:"score"`
}

func seriesFromRows(rows []seriesRowDto) (*domain.AlignedSeries, error) {
	out := &domain.AlignedSeries{
		Dates:  make([]time.Time, 0, len(rows)),
		Prices: make([]float64, 0, len(rows)),
		Scores: make([]float64, 0, len(rows)),
	}
	for i, r := range rows {
		d, err := time.Parse(time.DateOnly, r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d has bad date %q", domain.ErrInvalidSeries, i, r.Date)
		}
		out.Dates = append(out.Dates, d)
		out.Prices = append(out.Prices, r.Price)
		out.Scores = append(out.Scores, r.Score)
	}
	return out, nil
}

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad date %q", domain.ErrInvalidSeries, s)
	}
	return d, nil
}

type positionDto struct {
	Date       string            `json:"date"`
	Price      float64           `json:"price"`
	Score      float64           `json:"score"`
	Regime     float64           `json:"regime"`
	Slope      float64           `json:"slope"`
	FastSlope  float64           `json:"fastSlope"`
	FastMA     *float64          `json:"fastMa"`
	MidMA      *float64          `json:"midMa"`
	LongMA     *float64          `json:"longMa"`
	TrendState domain.TrendState `json:"trendState"`

	MacroTarget   float64           `json:"macroTarget"`
	LongTarget    float64           `json:"longTarget"`
	HedgeNotional float64           `json:"hedgeNotional"`
	BearSignal    domain.BearSignal `json:"bearSignal"`
	RiskCount     int               `json:"riskCount"`
	EventHedge    float64           `json:"eventHedge"`

	DesiredTarget   float64            `json:"desiredTarget"`
	QuantizedTarget float64            `json:"quantizedTarget"`
	ForceSwitch     bool               `json:"forceSwitch"`
	RebalanceDay    bool               `json:"rebalanceDay"`
	AdoptReason     string             `json:"adoptReason,omitempty"`
	AdoptedLong     float64            `json:"adoptedLong"`
	AdoptedHedge    float64            `json:"adoptedHedge"`
	Signal          domain.SignalLabel `json:"signal"`

	LongLeg          float64  `json:"longLeg"`
	HedgeLeg         float64  `json:"hedgeLeg"`
	RealizedPosition float64  `json:"realizedPosition"`
	PriceReturn      *float64 `json:"priceReturn"`
	Turnover         float64  `json:"turnover"`
	Fee              float64  `json:"fee"`
	Slippage         float64  `json:"slippage"`
	Funding          float64  `json:"funding"`
	NetReturn        float64  `json:"netReturn"`
	Nav              float64  `json:"nav"`
	BenchmarkNav     float64  `json:"benchmarkNav"`
}

func newPositionDto(p domain.PositionRecord) positionDto {
	return positionDto{
		Date:             p.Date.Format(time.DateOnly),
		Price:            p.Price,
		Score:            p.Score,
		Regime:           p.Regime,
		Slope:            p.Slope,
		FastSlope:        p.FastSlope,
		FastMA:           finiteOrNil(p.FastMA),
		MidMA:            finiteOrNil(p.MidMA),
		LongMA:           finiteOrNil(p.LongMA),
		TrendState:       p.TrendState,
		MacroTarget:      p.MacroTarget,
		LongTarget:       p.LongTarget,
		HedgeNotional:    p.HedgeNotional,
		BearSignal:       p.BearSignal,
		RiskCount:        p.RiskCount,
		EventHedge:       p.EventHedge,
		DesiredTarget:    p.DesiredTarget,
		QuantizedTarget:  p.QuantizedTarget,
		ForceSwitch:      p.ForceSwitch,
		RebalanceDay:     p.RebalanceDay,
		AdoptReason:      p.AdoptReason,
		AdoptedLong:      p.AdoptedLong,
		AdoptedHedge:     p.AdoptedHedge,
		Signal:           p.Signal,
		LongLeg:          p.LongLeg,
		HedgeLeg:         p.HedgeLeg,
		RealizedPosition: p.RealizedPosition,
		PriceReturn:      finiteOrNil(p.PriceReturn),
		Turnover:         p.Turnover,
		Fee:              p.Fee,
		Slippage:         p.Slippage,
		Funding:          p.Funding,
		NetReturn:        p.NetReturn,
		Nav:              p.Nav,
		BenchmarkNav:     p.BenchmarkNav,
	}
}

type tradeDto struct {
	Side       int      `json:"side"`
	Mode       string   `json:"mode"`
	EntryDate  string   `json:"entryDate"`
	ExitDate   *string  `json:"exitDate"`
	Bars       int      `json:"bars"`
	EntryScore float64  `json:"entryScore"`
	EntryPrice float64  `json:"entryPrice"`
	ExitPrice  float64  `json:"exitPrice"`
	PnL        *float64 `json:"pnl"`
	Result     string   `json:"result"`
}

func newTradeDto(t domain.Trade) tradeDto {
	var exit *string
	if t.ExitDate != nil {
		s := t.ExitDate.Format(time.DateOnly)
		exit = &s
	}
	return tradeDto{
		Side:       t.Side,
		Mode:       t.Mode,
		EntryDate:  t.EntryDate.Format(time.DateOnly),
		ExitDate:   exit,
		Bars:       t.Bars(),
		EntryScore: t.EntryScore,
		EntryPrice: t.EntryPrice,
		ExitPrice:  t.ExitPrice,
		PnL:        finiteOrNil(t.PnL),
		Result:     string(t.Result),
	}
}

type performanceDto struct {
	Cagr            *float64             `json:"cagr"`
	MaxDrawdown     *float64             `json:"maxDrawdown"`
	RecoveryDays    *float64             `json:"recoveryDays"`
	SharpeMonthly   *float64             `json:"sharpeMonthly"`
	SortinoMonthly  *float64             `json:"sortinoMonthly"`
	Calmar          *float64             `json:"calmar"`
	Cvar5           *float64             `json:"cvar5"`
	DownsideCapture *float64             `json:"downsideCapture"`
	AvgTurnover     *float64             `json:"avgTurnover"`
	Costs           domain.CostBreakdown `json:"costs"`
	FinalNav        float64              `json:"finalNav"`
	BenchmarkNav    float64              `json:"benchmarkNav"`
	Alpha           float64              `json:"alpha"`
}

func newPerformanceDto(p domain.PerformanceSummary) performanceDto {
	return performanceDto{
		Cagr:            finiteOrNil(p.Cagr),
		MaxDrawdown:     finiteOrNil(p.MaxDrawdown),
		RecoveryDays:    finiteOrNil(p.RecoveryDays),
		SharpeMonthly:   finiteOrNil(p.SharpeMonthly),
		SortinoMonthly:  finiteOrNil(p.SortinoMonthly),
		Calmar:          finiteOrNil(p.Calmar),
		Cvar5:           finiteOrNil(p.Cvar5),
		DownsideCapture: finiteOrNil(p.DownsideCapture),
		AvgTurnover:     finiteOrNil(p.AvgTurnover),
		Costs:           p.Costs,
		FinalNav:        p.FinalNav,
		BenchmarkNav:    p.BenchmarkNav,
		Alpha:           p.Alpha,
	}
}

type tradeGroupDto struct {
	Group     string   `json:"group"`
	Trades    int      `json:"trades"`
	PnLRatio  *float64 `json:"pnlRatio"`
	AvgReturn *float64 `json:"avgReturn"`
	// no losing trades in the group
	NoLosses bool `json:"noLosses,omitempty"`
}

func newTradeGroupDtos(groups []domain.TradeGroupStats) []tradeGroupDto {
	out := make([]tradeGroupDto, 0, len(groups))
	for _, g := range groups {
		out = append(out, tradeGroupDto{
			Group:     g.Group,
			Trades:    g.Trades,
			PnLRatio:  finiteOrNil(g.PnLRatio),
			AvgReturn: finiteOrNil(g.AvgReturn),
			NoLosses:  math.IsInf(g.PnLRatio, 1),
		})
	}
	return out
}

type tradeStatsDto struct {
	Trades   int             `json:"trades"`
	PnLRatio *float64        `json:"pnlRatio"`
	NoLosses bool            `json:"noLosses,omitempty"`
	ByMode   []tradeGroupDto `json:"byMode"`
	ByScore  []tradeGroupDto `json:"byScore"`
}

func newTradeStatsDto(s domain.TradeStats) tradeStatsDto {
	return tradeStatsDto{
		Trades:   s.Trades,
		PnLRatio: finiteOrNil(s.PnLRatio),
		NoLosses: math.IsInf(s.PnLRatio, 1),
		ByMode:   newTradeGroupDtos(s.ByMode),
		ByScore:  newTradeGroupDtos(s.ByScore),
	}
}

type shockForwardDto struct {
	Direction calculator.ShockDirection `json:"direction"`
	Horizon   int                       `json:"horizon"`
	Count     int                       `json:"count"`
	WinRate   *float64                  `json:"winRate"`
	Mean      *float64                  `json:"mean"`
	Median    *float64                  `json:"median"`
	Q25       *float64                  `json:"q25"`
	Q75       *float64                  `json:"q75"`
}

type leadLagDto struct {
	Horizon  int      `json:"horizon"`
	CorrFwd  *float64 `json:"corrFwd"`
	CorrPast *float64 `json:"corrPast"`
	LeadEdge *float64 `json:"leadEdge"`
}

type diagnosticsDto struct {
	ShockForward []shockForwardDto `json:"shockForward"`
	LeadLag      []leadLagDto      `json:"leadLag"`
}

func newShockForwardDtos(stats []calculator.ShockForwardStat) []shockForwardDto {
	out := make([]shockForwardDto, 0, len(stats))
	for _, s := range stats {
		out = append(out, shockForwardDto{
			Direction: s.Direction,
			Horizon:   s.Horizon,
			Count:     s.Count,
			WinRate:   finiteOrNil(s.WinRate),
			Mean:      finiteOrNil(s.Mean),
			Median:    finiteOrNil(s.Median),
			Q25:       finiteOrNil(s.Q25),
			Q75:       finiteOrNil(s.Q75),
		})
	}
	return out
}

func newLeadLagDtos(stats []calculator.LeadLagStat) []leadLagDto {
	out := make([]leadLagDto, 0, len(stats))
	for _, s := range stats {
		out = append(out, leadLagDto{
			Horizon:  s.Horizon,
			CorrFwd:  finiteOrNil(s.CorrFwd),
			CorrPast: finiteOrNil(s.CorrPast),
			LeadEdge: finiteOrNil(s.LeadEdge),
		})
	}
	return out
}
