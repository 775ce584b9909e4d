package l1_service

import (
	"math"

	"github.com/markcheno/go-talib"
)

// ewma is a recursive exponential average seeded with the first value,
// alpha = 2/(span+1)
func ewma(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// sma is a simple rolling mean that is NaN until the window is full
func sma(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window < 1 || len(values) < window {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	// talib zero-fills the lookback period
	copy(out, talib.Sma(values, window))
	for i := 0; i < window-1; i++ {
		out[i] = math.NaN()
	}
	return out
}

// diff returns values[t] - values[t-lag], NaN where t-lag is undefined
func diff(values []float64, lag int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < lag {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i] - values[i-lag]
	}
	return out
}

func fillNaN(values []float64, fill float64) []float64 {
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = fill
		}
	}
	return values
}

// RollingMin over the trailing window, using whatever history exists
// at the start of the series
func RollingMin(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	if len(values) >= window {
		copy(out, talib.Min(values, window))
	}
	// talib zero-fills the lookback period, which here is a running minimum
	m := math.Inf(1)
	for i := 0; i < min(window-1, len(values)); i++ {
		m = math.Min(m, values[i])
		out[i] = m
	}
	return out
}

// PctChange is the simple one step return. the first element is NaN
func PctChange(values []float64) []float64 {
	return PctChangeN(values, 1)
}

func PctChangeN(values []float64, n int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < n {
			out[i] = math.NaN()
			continue
		}
		out[i] = values[i]/values[i-n] - 1
	}
	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
