package l2_service

import (
	"macrobacktest/internal/domain"
	l1_service "macrobacktest/internal/service/l1"
	"math"
)

type HedgeInput struct {
	Prices       []float64
	Regime       l1_service.RegimeSeries
	Trend        l1_service.TrendSeries
	LongTarget   []float64
	ShockTrigger []bool
	Params       *domain.StrategyParams
}

type HedgeResult struct {
	RiskCount     []int
	BearSignal    []domain.BearSignal
	HedgeNotional []float64
	// size of the time boxed event hedge per day, event mode only
	EventHedge []float64
	// continuous target handed to the rebalance state machine
	Desired []float64
}

type bearDay struct {
	price     float64
	fastMA    float64
	regime    float64
	slope     float64
	fastSlope float64
	broken    bool
}

// ClassifyBear counts the active risk conditions of a day and returns
// the strongest matching bear signal
func ClassifyBear(p *domain.StrategyParams, d bearDay) (int, domain.BearSignal) {
	riskCount := 0
	if d.regime < p.ShortTriggerScore {
		riskCount++
	}
	if d.broken {
		riskCount++
	}
	if d.fastSlope <= 0 {
		riskCount++
	}

	bearWeak := riskCount >= p.Config.ShortMinRiskCount && d.broken && d.regime < p.ShortTriggerScore
	bearStrong := bearWeak && d.regime < p.ShortScoreThreshold && d.slope <= p.Config.MacroDownTh
	bearEarly := d.regime <= p.Config.Th2 && d.price < d.fastMA && d.fastSlope <= 0

	switch {
	case bearStrong:
		return riskCount, domain.BearStrong
	case bearWeak:
		return riskCount, domain.BearWeak
	case bearEarly:
		return riskCount, domain.BearEarly
	}
	return riskCount, domain.BearNone
}

func HedgeNotional(p *domain.StrategyParams, signal domain.BearSignal) float64 {
	c := p.Config
	switch signal {
	case domain.BearStrong:
		return p.ShortNotional * c.HedgeSizeStrong
	case domain.BearWeak:
		return p.ShortNotional * c.HedgeSizeWeak
	case domain.BearEarly:
		return p.ShortNotional * c.HedgeSizeEarly
	}
	return 0
}

// RiskCountTarget nets the hedge against the long target. the long
// bias floor holds unless a strong bear signal meets an already small
// long target, in which case a small net short is allowed
func RiskCountTarget(p *domain.StrategyParams, longTarget, hedge float64, signal domain.BearSignal) float64 {
	if signal == domain.BearStrong && longTarget <= p.LongBiasMin*0.6 {
		return -math.Min(p.ShortNotional, hedge*0.6)
	}
	return math.Max(longTarget-hedge, p.LongBiasMin)
}

// EventHedgeSchedule opens a hedge the day after each shock trigger and
// holds it for the configured number of days, closing early once price
// has fallen the take profit distance from the trigger close.
// overlapping windows keep the larger size
func EventHedgeSchedule(prices []float64, triggers []bool, longTarget []float64, p *domain.StrategyParams) []float64 {
	c := p.Config
	n := len(prices)
	out := make([]float64, n)

	baseSize := c.EventHedgeFraction * c.EventHedgeLeverage
	levCap := math.Max(0, c.MaxLeverage*c.EventHedgeCapRatio)

	for i := 0; i < n; i++ {
		if !triggers[i] {
			continue
		}
		openIdx := i + 1
		if openIdx >= n {
			continue
		}
		longRef := longTarget[openIdx]
		if math.IsNaN(longRef) || longRef <= 0 {
			continue
		}
		size := math.Min(baseSize, math.Min(levCap, c.EventHedgeCapRatio*longRef))
		if size <= 0 {
			continue
		}

		closeIdx := min(n-1, openIdx+c.EventHedgeHoldDays-1)
		takeProfit := prices[i] * (1 - c.EventHedgeTakeProfitDrop)
		for j := openIdx; j <= closeIdx; j++ {
			if prices[j] <= takeProfit {
				closeIdx = j
				break
			}
		}
		for j := openIdx; j <= closeIdx; j++ {
			out[j] = math.Max(out[j], size)
		}
	}

	return out
}

func ApplyHedge(in HedgeInput) HedgeResult {
	p := in.Params
	n := len(in.Prices)

	out := HedgeResult{
		RiskCount:     make([]int, n),
		BearSignal:    make([]domain.BearSignal, n),
		HedgeNotional: make([]float64, n),
		EventHedge:    make([]float64, n),
		Desired:       make([]float64, n),
	}

	for i := 0; i < n; i++ {
		rc, signal := ClassifyBear(p, bearDay{
			price:     in.Prices[i],
			fastMA:    in.Trend.Fast[i],
			regime:    in.Regime.Regime[i],
			slope:     in.Regime.Slope[i],
			fastSlope: in.Regime.FastSlope[i],
			broken:    in.Trend.State[i] == domain.TrendBreak && !in.Trend.Neutral[i],
		})
		out.RiskCount[i] = rc
		out.Desired[i] = in.LongTarget[i]

		if p.HedgeMode != domain.HedgeModeRiskCount {
			continue
		}
		out.BearSignal[i] = signal
		out.HedgeNotional[i] = HedgeNotional(p, signal)
		out.Desired[i] = RiskCountTarget(p, in.LongTarget[i], out.HedgeNotional[i], signal)
	}

	if p.HedgeMode == domain.HedgeModeEvent {
		out.EventHedge = EventHedgeSchedule(in.Prices, in.ShockTrigger, in.LongTarget, p)
	}

	return out
}
