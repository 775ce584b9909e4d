package l3_service

import (
	"context"
	"fmt"
	"macrobacktest/internal/calculator"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/logger"
	l1_service "macrobacktest/internal/service/l1"
	l2_service "macrobacktest/internal/service/l2"
	"math"
)

/**

RunBacktest is the whole engine: a pure function of one aligned series
and one config. every stage before the rebalance state machine is a
bulk per-row transform; only the state machine carries anything from
one row to the next

*/

type RunBacktestInput struct {
	Symbol string
	Series domain.AlignedSeries
	Config domain.StrategyConfig
}

// desiredBounds is the range the quantized target may take
func desiredBounds(p *domain.StrategyParams) (float64, float64) {
	return p.ShortFloor(), p.Config.MaxLeverage
}

func forceSwitches(p *domain.StrategyParams, regime l1_service.RegimeSeries, trend l1_service.TrendSeries) []bool {
	out := make([]bool, len(regime.Regime))
	for i := range out {
		emergency := regime.Regime[i] < p.Config.Th1 && trend.State[i] == domain.TrendBreak
		out[i] = trend.CrossUp[i] || trend.CrossDown[i] || emergency
	}
	return out
}

// splitLegs turns adopted targets into long and hedge legs for the
// active hedge mode
func splitLegs(p *domain.StrategyParams, adopted, eventHedge []float64) ([]float64, []float64) {
	long := make([]float64, len(adopted))
	hedge := make([]float64, len(adopted))
	for i, a := range adopted {
		switch p.HedgeMode {
		case domain.HedgeModeRiskCount:
			long[i] = math.Max(a, 0)
			hedge[i] = math.Min(a, 0)
		case domain.HedgeModeEvent:
			long[i] = a
			hedge[i] = -math.Min(eventHedge[i], a)
		default:
			long[i] = a
		}
	}
	return long, hedge
}

func RunBacktest(ctx context.Context, in RunBacktestInput) (*domain.BacktestResult, error) {
	log := logger.FromContext(ctx)

	if err := in.Series.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate series for %s: %w", in.Symbol, err)
	}
	p, notes, err := domain.NewStrategyParams(in.Config, domain.LookupAsset(in.Symbol))
	if err != nil {
		return nil, fmt.Errorf("failed to build strategy params: %w", err)
	}
	for _, note := range notes {
		log.Warnf("config normalized: %s", note)
	}
	c := p.Config
	s := in.Series
	n := s.Len()

	scores := l1_service.LagScores(s.Scores, c.MacroLagDays)
	regime := l1_service.SmoothRegime(scores, c.MacroSmoothSpan, c.MacroTrendWindow)
	trend := l1_service.ClassifyTrend(s.Prices, p.Trend)

	alloc := l2_service.Allocate(l2_service.AllocationInput{
		Prices: s.Prices,
		Regime: regime,
		Trend:  trend,
		Params: p,
	})
	hedge := l2_service.ApplyHedge(l2_service.HedgeInput{
		Prices:       s.Prices,
		Regime:       regime,
		Trend:        trend,
		LongTarget:   alloc.LongTarget,
		ShockTrigger: alloc.ShockTrigger,
		Params:       p,
	})

	lo, hi := desiredBounds(p)
	force := forceSwitches(p, regime, trend)
	rebalanceDays := RebalanceDays(s.Dates, c.RebalanceMode)

	steps := make([]RebalanceStep, n)
	for i := 0; i < n; i++ {
		steps[i] = RebalanceStep{
			Index:        i,
			Desired:      Quantize(hedge.Desired[i], c.PositionStep, lo, hi),
			CycleState:   p.CycleState(regime.Regime[i], trend.State[i]),
			ForceSwitch:  force[i],
			RebalanceDay: rebalanceDays[i],
		}
	}
	rules := RebalanceRules{
		MinHoldDays: c.MinHoldDays,
		TradeBuffer: c.TradeBuffer,
	}
	adopted, reasons := rules.Run(steps)

	adoptedLong, adoptedHedge := splitLegs(p, adopted, hedge.EventHedge)
	longLeg := ShiftLegs(adoptedLong)
	hedgeLeg := ShiftLegs(adoptedHedge)
	costs := ApplyCosts(CostInput{
		Prices:   s.Prices,
		LongLeg:  longLeg,
		HedgeLeg: hedgeLeg,
		Params:   p,
	})

	positions := make([]domain.PositionRecord, n)
	for i := 0; i < n; i++ {
		positions[i] = domain.PositionRecord{
			Date:       s.Dates[i],
			Price:      s.Prices[i],
			Score:      scores[i],
			Regime:     regime.Regime[i],
			Slope:      regime.Slope[i],
			FastSlope:  regime.FastSlope[i],
			FastMA:     trend.Fast[i],
			MidMA:      trend.Mid[i],
			LongMA:     trend.Long[i],
			TrendState: trend.State[i],

			MacroTarget:   alloc.MacroTarget[i],
			LongTarget:    alloc.LongTarget[i],
			HedgeNotional: hedge.HedgeNotional[i],
			BearSignal:    hedge.BearSignal[i],
			RiskCount:     hedge.RiskCount[i],
			EventHedge:    hedge.EventHedge[i],

			DesiredTarget:   hedge.Desired[i],
			QuantizedTarget: steps[i].Desired,
			CycleState:      steps[i].CycleState,
			ForceSwitch:     steps[i].ForceSwitch,
			RebalanceDay:    steps[i].RebalanceDay,
			AdoptReason:     string(reasons[i]),
			AdoptedLong:     adoptedLong[i],
			AdoptedHedge:    adoptedHedge[i],
			Signal:          domain.LabelSignal(adoptedLong[i], adoptedHedge[i], c.MaxLeverage),

			LongLeg:          longLeg[i],
			HedgeLeg:         hedgeLeg[i],
			RealizedPosition: costs.Position[i],

			PriceReturn:  costs.PriceReturn[i],
			Turnover:     costs.Turnover[i],
			Fee:          costs.Fee[i],
			Slippage:     costs.Slippage[i],
			Funding:      costs.Funding[i],
			GrossReturn:  costs.GrossReturn[i],
			NetReturn:    costs.NetReturn[i],
			Nav:          costs.Nav[i],
			BenchmarkNav: costs.BenchmarkNav[i],
		}
	}

	trades := calculator.ExtractTrades(positions)
	result := &domain.BacktestResult{
		Symbol:          in.Symbol,
		Params:          *p,
		Positions:       positions,
		Trades:          trades,
		Performance:     calculator.ComputePerformance(positions, c.RiskFreeRate),
		TradeStats:      calculator.SummarizeTrades(trades),
		RebalanceEvents: calculator.RebalanceEvents(positions),
		Warnings:        append([]string{}, notes...),
	}

	log.Debugf(
		"backtest %s: %d rows, %d trades, final nav %.4f vs benchmark %.4f",
		in.Symbol,
		n,
		len(trades),
		result.Performance.FinalNav,
		result.Performance.BenchmarkNav,
	)

	return result, nil
}
