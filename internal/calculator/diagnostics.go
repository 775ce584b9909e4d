package calculator

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// diagnostics are offline views over a series. nothing here feeds back
// into targets or trades

type ShockDirection string

const (
	ShockUp   ShockDirection = "up"
	ShockDown ShockDirection = "down"
)

type ShockForwardStat struct {
	Direction ShockDirection `json:"direction"`
	Horizon   int            `json:"horizon"`
	Count     int            `json:"count"`
	WinRate   float64        `json:"winRate"`
	Mean      float64        `json:"mean"`
	Median    float64        `json:"median"`
	Q25       float64        `json:"q25"`
	Q75       float64        `json:"q75"`
}

type LeadLagStat struct {
	Horizon  int     `json:"horizon"`
	CorrFwd  float64 `json:"corrFwd"`
	CorrPast float64 `json:"corrPast"`
	LeadEdge float64 `json:"leadEdge"`
}

var (
	DefaultShockHorizons   = []int{3, 5, 21, 63}
	DefaultLeadLagHorizons = []int{20, 40, 60}
)

// pastReturns[t] = p[t]/p[t-h] - 1, NaN for t < h
func pastReturns(prices []float64, h int) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		if i < h {
			out[i] = math.NaN()
			continue
		}
		out[i] = prices[i]/prices[i-h] - 1
	}
	return out
}

// forwardReturns[t] = p[t+h]/p[t] - 1, NaN where t+h runs off the end
func forwardReturns(prices []float64, h int) []float64 {
	out := make([]float64, len(prices))
	for i := range prices {
		if i+h >= len(prices) {
			out[i] = math.NaN()
			continue
		}
		out[i] = prices[i+h]/prices[i] - 1
	}
	return out
}

func forwardStat(direction ShockDirection, h int, vals []float64) ShockForwardStat {
	out := ShockForwardStat{
		Direction: direction,
		Horizon:   h,
		Count:     len(vals),
		WinRate:   math.NaN(),
		Mean:      math.NaN(),
		Median:    math.NaN(),
		Q25:       math.NaN(),
		Q75:       math.NaN(),
	}
	if len(vals) == 0 {
		return out
	}
	wins := 0
	for _, v := range vals {
		if v > 0 {
			wins++
		}
	}
	out.WinRate = float64(wins) / float64(len(vals))
	out.Mean = mean(vals)
	if median, err := stats.Median(vals); err == nil {
		out.Median = median
	}
	out.Q25 = QuantileLinear(vals, 0.25)
	out.Q75 = QuantileLinear(vals, 0.75)
	return out
}

// ShockForwardStats summarizes forward returns after single day moves of
// at least threshold in either direction
func ShockForwardStats(prices []float64, threshold float64, horizons []int) []ShockForwardStat {
	out := []ShockForwardStat{}
	if len(prices) == 0 {
		return out
	}
	threshold = math.Abs(threshold)
	daily := pastReturns(prices, 1)

	events := []struct {
		direction ShockDirection
		match     func(r float64) bool
	}{
		{ShockUp, func(r float64) bool { return r >= threshold }},
		{ShockDown, func(r float64) bool { return r <= -threshold }},
	}
	for _, e := range events {
		for _, h := range horizons {
			fwd := forwardReturns(prices, h)
			vals := []float64{}
			for i, r := range daily {
				if math.IsNaN(r) || !e.match(r) || math.IsNaN(fwd[i]) {
					continue
				}
				vals = append(vals, fwd[i])
			}
			out = append(out, forwardStat(e.direction, h, vals))
		}
	}
	return out
}

// correlation is Pearson over the rows where both sides are defined.
// NaN when fewer than two pairs remain or either side is constant
func correlation(x, y []float64) float64 {
	xs, ys := []float64{}, []float64{}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if _, sx := stat.MeanStdDev(xs, nil); sx == 0 {
		return math.NaN()
	}
	if _, sy := stat.MeanStdDev(ys, nil); sy == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}

// LeadLag compares how the score correlates with returns that follow it
// against returns that precede it. a score that leads price shows a
// positive edge
func LeadLag(scores, prices []float64, horizons []int) []LeadLagStat {
	out := []LeadLagStat{}
	maxHorizon := 0
	for _, h := range horizons {
		maxHorizon = max(maxHorizon, h)
	}
	if len(prices) != len(scores) || len(prices) < maxHorizon+30 {
		return out
	}

	for _, h := range horizons {
		corrFwd := correlation(scores, forwardReturns(prices, h))
		corrPast := correlation(scores, pastReturns(prices, h))
		out = append(out, LeadLagStat{
			Horizon:  h,
			CorrFwd:  corrFwd,
			CorrPast: corrPast,
			LeadEdge: corrFwd - corrPast,
		})
	}
	return out
}
