package l1_service

// RegimeSeries is the smoothed macro score and its momentum
type RegimeSeries struct {
	Regime    []float64
	Slope     []float64
	FastSlope []float64
}

// FastSlopeWindow is the lag used for the fast slope
func FastSlopeWindow(window int) int {
	return max(3, window/4)
}

// SmoothRegime applies an exponential smoother to the raw score and
// measures how far it moved over the trend window. slopes are 0 until
// enough history exists
func SmoothRegime(scores []float64, span, window int) RegimeSeries {
	smooth := ewma(scores, span)

	regime := make([]float64, len(smooth))
	for i, v := range smooth {
		regime[i] = clip(v, 0, 100)
	}

	return RegimeSeries{
		Regime:    regime,
		Slope:     fillNaN(diff(smooth, window), 0),
		FastSlope: fillNaN(diff(smooth, FastSlopeWindow(window)), 0),
	}
}

// LagScores delays the score series by n rows. the leading rows take
// the first observed score so every day has a defined value
func LagScores(scores []float64, n int) []float64 {
	out := make([]float64, len(scores))
	if n <= 0 {
		copy(out, scores)
		return out
	}
	for i := range scores {
		out[i] = scores[max(0, i-n)]
	}
	return out
}
