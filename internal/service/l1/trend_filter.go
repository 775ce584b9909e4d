package l1_service

import (
	"macrobacktest/internal/domain"
	"math"
)

// TrendSeries is the moving average structure of a price series.
// Neutral marks days where the long average is not usable yet, or
// where price sits exactly on it. those days classify as flat-bullish
// but execute with the neutral multiplier
type TrendSeries struct {
	Fast []float64
	Mid  []float64
	Long []float64

	State   []domain.TrendState
	Neutral []bool

	CrossUp       []bool
	CrossDown     []bool
	FastReclaim   []bool
	BullStackFull []bool
	FastRising    []bool
}

func movingAverage(prices []float64, window int, exponential bool) []float64 {
	if exponential {
		return ewma(prices, window)
	}
	return sma(prices, window)
}

func valid(v float64) bool {
	return !math.IsNaN(v)
}

// ClassifyTrendDay maps one day's price structure to a trend state.
// longPrev is the previous long average, NaN when unknown
func ClassifyTrendDay(price, fast, mid, long, longPrev float64) (domain.TrendState, bool) {
	if !valid(long) {
		return domain.TrendFlatBullish, true
	}
	stacked := fast > mid && mid > long
	inverted := fast < mid && mid < long
	longDiff := long - longPrev

	switch {
	case price > long && stacked && longDiff > 0:
		return domain.TrendStrong, false
	case price > long && stacked:
		return domain.TrendUp, false
	case price > long:
		return domain.TrendFlatBullish, false
	case price < long && inverted && longDiff < 0:
		return domain.TrendBreak, false
	case price < long:
		return domain.TrendWeak, false
	}
	return domain.TrendFlatBullish, true
}

// ClassifyTrend derives fast/mid/long averages and the per day trend
// state and crossover events
func ClassifyTrend(prices []float64, params domain.TrendParams) TrendSeries {
	n := len(prices)
	fast := movingAverage(prices, params.FastWindow, params.Exponential)
	mid := movingAverage(prices, params.MidWindow, params.Exponential)
	long := movingAverage(prices, params.LongWindow, params.Exponential)

	out := TrendSeries{
		Fast:          fast,
		Mid:           mid,
		Long:          long,
		State:         make([]domain.TrendState, n),
		Neutral:       make([]bool, n),
		CrossUp:       make([]bool, n),
		CrossDown:     make([]bool, n),
		FastReclaim:   make([]bool, n),
		BullStackFull: make([]bool, n),
		FastRising:    make([]bool, n),
	}

	for i := 0; i < n; i++ {
		p := prices[i]
		longPrev := math.NaN()
		if i > 0 {
			longPrev = long[i-1]
		}
		out.State[i], out.Neutral[i] = ClassifyTrendDay(p, fast[i], mid[i], long[i], longPrev)

		// NaN comparisons are false, which keeps every event off
		// until its averages exist
		if valid(long[i]) {
			out.BullStackFull[i] = p > fast[i] && fast[i] > mid[i] && mid[i] > long[i]
		}
		if i > 0 && valid(long[i]) {
			out.CrossUp[i] = p > long[i] && prices[i-1] <= long[i-1]
			out.CrossDown[i] = p < long[i] && prices[i-1] >= long[i-1]
		}
		if i > 0 {
			out.FastReclaim[i] = p > fast[i] && prices[i-1] <= fast[i-1]
		}
		if i >= 3 {
			out.FastRising[i] = fast[i] > fast[i-3]
		}
	}

	return out
}
