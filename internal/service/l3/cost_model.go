package l3_service

import (
	"macrobacktest/internal/domain"
	l1_service "macrobacktest/internal/service/l1"
	"math"

	"github.com/montanaflynn/stats"
)

// slippage volatility needs at least this many returns in its window
const minVolObservations = 5

type CostInput struct {
	Prices   []float64
	LongLeg  []float64
	HedgeLeg []float64
	Params   *domain.StrategyParams
}

type CostResult struct {
	Position     []float64
	PriceReturn  []float64
	Turnover     []float64
	Fee          []float64
	Slippage     []float64
	Funding      []float64
	GrossReturn  []float64
	NetReturn    []float64
	Nav          []float64
	BenchmarkNav []float64
}

// RollingVolatility is the sample standard deviation of the trailing
// window of returns. undefined leading values take the median of the
// defined ones, or 0 when nothing is defined
func RollingVolatility(returns []float64, window int) []float64 {
	n := len(returns)
	out := make([]float64, n)
	defined := stats.Float64Data{}
	known := make([]bool, n)

	for i := 0; i < n; i++ {
		sample := stats.Float64Data{}
		for j := max(0, i-window+1); j <= i; j++ {
			if !math.IsNaN(returns[j]) {
				sample = append(sample, returns[j])
			}
		}
		if len(sample) < minVolObservations {
			continue
		}
		sd, err := stats.StandardDeviationSample(sample)
		if err != nil || math.IsNaN(sd) {
			continue
		}
		out[i] = sd
		known[i] = true
		defined = append(defined, sd)
	}

	fill := 0.0
	if len(defined) > 0 {
		if m, err := defined.Median(); err == nil {
			fill = m
		}
	}
	for i := range out {
		if !known[i] {
			out[i] = fill
		}
	}
	return out
}

func ApplyCosts(in CostInput) CostResult {
	p := in.Params
	c := p.Config
	n := len(in.Prices)

	out := CostResult{
		Position:     make([]float64, n),
		PriceReturn:  make([]float64, n),
		Turnover:     make([]float64, n),
		Fee:          make([]float64, n),
		Slippage:     make([]float64, n),
		Funding:      make([]float64, n),
		GrossReturn:  make([]float64, n),
		NetReturn:    make([]float64, n),
		Nav:          make([]float64, n),
		BenchmarkNav: make([]float64, n),
	}
	if n == 0 {
		return out
	}

	rawReturns := l1_service.PctChange(in.Prices)
	vol := RollingVolatility(rawReturns, c.SlippageVolWindow)

	nav, bench := 1.0, 1.0
	for i := 0; i < n; i++ {
		out.Position[i] = clip(in.LongLeg[i]+in.HedgeLeg[i], p.ShortFloor(), c.MaxLeverage)

		if i == 0 {
			out.Nav[i] = nav
			out.BenchmarkNav[i] = bench
			continue
		}

		r := rawReturns[i]
		pos := out.Position[i]
		out.PriceReturn[i] = r
		out.Turnover[i] = math.Abs(in.LongLeg[i]-in.LongLeg[i-1]) + math.Abs(in.HedgeLeg[i]-in.HedgeLeg[i-1])
		out.Fee[i] = out.Turnover[i] * p.FeeRate
		out.Slippage[i] = math.Max(0, out.Turnover[i]*vol[i]*c.SlippageMult)
		out.Funding[i] = math.Max(0, math.Abs(pos)-1) * p.FundingRate
		out.GrossReturn[i] = pos*r + (1-math.Abs(pos))*p.RiskFreeDaily
		out.NetReturn[i] = out.GrossReturn[i] - out.Fee[i] - out.Slippage[i] - out.Funding[i]

		nav *= 1 + out.NetReturn[i]
		bench *= 1 + r
		out.Nav[i] = nav
		out.BenchmarkNav[i] = bench
	}

	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
