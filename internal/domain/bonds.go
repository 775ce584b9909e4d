package domain

import (
	"fmt"
	"sort"
)

// YieldCurve contains treasury yields keyed by duration in months,
// as decimals (0.04 == 4%)
type YieldCurve struct {
	Rates map[int]float64
}

// RateAt returns the yield for the given duration, linearly
// interpolating between the closest known points and flattening
// beyond the ends of the curve
func (yc YieldCurve) RateAt(months int) (float64, error) {
	if v, ok := yc.Rates[months]; ok {
		return v, nil
	}

	keys := []int{}
	for k := range yc.Rates {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return 0, fmt.Errorf("no rates in yield curve")
	}
	sort.Ints(keys)

	if months < keys[0] {
		return yc.Rates[keys[0]], nil
	}
	if months > keys[len(keys)-1] {
		return yc.Rates[keys[len(keys)-1]], nil
	}

	for i := 0; i < len(keys)-1; i++ {
		lo, hi := keys[i], keys[i+1]
		if months > lo && months < hi {
			w := float64(months-lo) / float64(hi-lo)
			return yc.Rates[lo] + w*(yc.Rates[hi]-yc.Rates[lo]), nil
		}
	}

	return 0, fmt.Errorf("unable to compute rate for %d months", months)
}

// RiskFreeRate is the annualized 3 month bill yield
func (yc YieldCurve) RiskFreeRate() (float64, error) {
	return yc.RateAt(3)
}
