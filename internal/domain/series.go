package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// MinBacktestRows is the shortest aligned history the engine accepts
const MinBacktestRows = 150

var (
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidSeries    = errors.New("invalid series")
)

type SeriesPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// AlignedSeries holds a price and a macro score per trading day. every
// row is already forward-filled by whoever built it
type AlignedSeries struct {
	Dates  []time.Time `json:"dates"`
	Prices []float64   `json:"prices"`
	Scores []float64   `json:"scores"`
}

func (s AlignedSeries) Len() int {
	return len(s.Dates)
}

func (s AlignedSeries) Validate() error {
	if len(s.Prices) != len(s.Dates) || len(s.Scores) != len(s.Dates) {
		return fmt.Errorf("%w: got %d dates, %d prices, %d scores", ErrInvalidSeries, len(s.Dates), len(s.Prices), len(s.Scores))
	}
	for i := range s.Dates {
		if i > 0 && !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("%w: dates must be strictly increasing at %s", ErrInvalidSeries, s.Dates[i].Format(time.DateOnly))
		}
		if p := s.Prices[i]; math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
			return fmt.Errorf("%w: price %v on %s must be positive", ErrInvalidSeries, p, s.Dates[i].Format(time.DateOnly))
		}
		if sc := s.Scores[i]; math.IsNaN(sc) || math.IsInf(sc, 0) {
			return fmt.Errorf("%w: score on %s is not a number", ErrInvalidSeries, s.Dates[i].Format(time.DateOnly))
		}
	}
	if len(s.Dates) < MinBacktestRows {
		return fmt.Errorf("%w: need at least %d rows, got %d", ErrInsufficientData, MinBacktestRows, len(s.Dates))
	}
	return nil
}

// Slice returns the rows in [start, end]. zero times are unbounded
func (s AlignedSeries) Slice(start, end time.Time) AlignedSeries {
	out := AlignedSeries{
		Dates:  []time.Time{},
		Prices: []float64{},
		Scores: []float64{},
	}
	for i, d := range s.Dates {
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out.Dates = append(out.Dates, d)
		out.Prices = append(out.Prices, s.Prices[i])
		out.Scores = append(out.Scores, s.Scores[i])
	}
	return out
}
