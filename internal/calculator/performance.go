package calculator

import (
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

const daysPerYear = 365.25

// QuantileLinear interpolates between the closest ranks of the sorted
// sample, the same estimator pandas uses by default
func QuantileLinear(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return math.NaN()
	}
	return m
}

func sum(values []float64) float64 {
	s, err := stats.Sum(values)
	if err != nil {
		return 0
	}
	return s
}

func populationStd(values []float64) float64 {
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return math.NaN()
	}
	return sd
}

type drawdown struct {
	max          float64
	recoveryDays float64
}

// maxDrawdown finds the deepest peak to trough decline and the number
// of calendar days from the trough until value regains the prior peak
func maxDrawdown(positions []domain.PositionRecord) drawdown {
	peak := math.Inf(-1)
	out := drawdown{}
	trough := 0
	for i, p := range positions {
		peak = math.Max(peak, p.Nav)
		dd := p.Nav/peak - 1
		if dd < out.max {
			out.max = dd
			trough = i
		}
	}

	peakBefore := math.Inf(-1)
	for _, p := range positions[:trough+1] {
		peakBefore = math.Max(peakBefore, p.Nav)
	}
	out.recoveryDays = math.NaN()
	for _, p := range positions[trough:] {
		if p.Nav >= peakBefore {
			out.recoveryDays = p.Date.Sub(positions[trough].Date).Hours() / 24
			break
		}
	}
	return out
}

// MonthlyReturns compounds daily returns within each calendar month.
// the first row carries no return and is skipped
func MonthlyReturns(positions []domain.PositionRecord) []float64 {
	out := []float64{}
	currentKey := -1
	growth := 1.0
	for _, p := range positions[1:] {
		key := util.MonthKey(p.Date)
		if key != currentKey {
			if currentKey >= 0 {
				out = append(out, growth-1)
			}
			currentKey = key
			growth = 1
		}
		growth *= 1 + p.NetReturn
	}
	if currentKey >= 0 {
		out = append(out, growth-1)
	}
	return out
}

func sharpeSortino(monthly []float64, riskFreeRate float64) (float64, float64) {
	rfMonthly := math.Pow(1+riskFreeRate, 1.0/12) - 1
	excess := make([]float64, len(monthly))
	downside := []float64{}
	for i, m := range monthly {
		excess[i] = m - rfMonthly
		if excess[i] < 0 {
			downside = append(downside, excess[i])
		}
	}

	sharpe, sortino := math.NaN(), math.NaN()
	avg := mean(excess)
	if sd := populationStd(excess); sd > 0 {
		sharpe = avg / sd * math.Sqrt(12)
	}
	if len(downside) > 0 {
		if sd := populationStd(downside); sd > 0 {
			sortino = avg / sd * math.Sqrt(12)
		}
	}
	return sharpe, sortino
}

func conditionalVaR(returns []float64, q float64) float64 {
	threshold := QuantileLinear(returns, q)
	tail := []float64{}
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return math.NaN()
	}
	return mean(tail)
}

func downsideCapture(positions []domain.PositionRecord) float64 {
	strat, bench := []float64{}, []float64{}
	for _, p := range positions[1:] {
		if p.PriceReturn < 0 {
			strat = append(strat, p.NetReturn)
			bench = append(bench, p.PriceReturn)
		}
	}
	if len(bench) == 0 {
		return math.NaN()
	}
	benchMean := mean(bench)
	if benchMean == 0 {
		return math.NaN()
	}
	return mean(strat) / benchMean
}

// ComputePerformance reduces a finished run to its summary statistics.
// positions must hold at least two rows
func ComputePerformance(positions []domain.PositionRecord, riskFreeRate float64) domain.PerformanceSummary {
	n := len(positions)
	first, last := positions[0], positions[n-1]

	returns := make([]float64, 0, n-1)
	for _, p := range positions[1:] {
		returns = append(returns, p.NetReturn)
	}

	days := math.Max(math.Round(last.Date.Sub(first.Date).Hours()/24), 1)
	years := days / daysPerYear
	cagr := math.Pow(last.Nav, 1/years) - 1

	dd := maxDrawdown(positions)
	calmar := math.NaN()
	if dd.max != 0 {
		calmar = cagr / math.Abs(dd.max)
	}

	sharpe, sortino := sharpeSortino(MonthlyReturns(positions), riskFreeRate)

	turnover := make([]float64, n)
	fees := make([]float64, n)
	slippage := make([]float64, n)
	funding := make([]float64, n)
	for i, p := range positions {
		turnover[i] = p.Turnover
		fees[i] = p.Fee
		slippage[i] = p.Slippage
		funding[i] = p.Funding
	}
	costs := domain.CostBreakdown{
		Fee:      sum(fees),
		Slippage: sum(slippage),
		Funding:  sum(funding),
	}
	costs.Total = costs.Fee + costs.Slippage + costs.Funding

	return domain.PerformanceSummary{
		Cagr:            cagr,
		MaxDrawdown:     dd.max,
		RecoveryDays:    dd.recoveryDays,
		SharpeMonthly:   sharpe,
		SortinoMonthly:  sortino,
		Calmar:          calmar,
		Cvar5:           conditionalVaR(returns, 0.05),
		DownsideCapture: downsideCapture(positions),
		AvgTurnover:     mean(turnover),
		Costs:           costs,
		FinalNav:        last.Nav,
		BenchmarkNav:    last.BenchmarkNav,
		Alpha:           last.Nav - last.BenchmarkNav,
	}
}
