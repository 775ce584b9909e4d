package l3_service

import (
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"math"
	"time"
)

type AdoptReason string

const (
	AdoptNone      AdoptReason = ""
	AdoptInitial   AdoptReason = "initial"
	AdoptForced    AdoptReason = "forced"
	AdoptCycle     AdoptReason = "cycle-change"
	AdoptScheduled AdoptReason = "scheduled"
)

// forced switches only need a non-trivial move
const forceEpsilon = 1e-8

// RebalanceState is carried from one row to the next
type RebalanceState struct {
	LastAdopted    float64
	LastTradeIndex int
	PrevCycle      int
}

// RebalanceStep holds one row's inputs to the state machine. Desired
// must already be quantized and clipped
type RebalanceStep struct {
	Index        int
	Desired      float64
	CycleState   int
	ForceSwitch  bool
	RebalanceDay bool
}

type RebalanceRules struct {
	MinHoldDays int
	TradeBuffer float64
}

// Next is the transition function. rules are checked in order and the
// first match adopts the desired target
func (r RebalanceRules) Next(s RebalanceState, step RebalanceStep) (RebalanceState, AdoptReason) {
	if step.Index == 0 {
		return RebalanceState{
			LastAdopted:    step.Desired,
			LastTradeIndex: 0,
			PrevCycle:      step.CycleState,
		}, AdoptInitial
	}

	delta := math.Abs(step.Desired - s.LastAdopted)
	holdOk := step.Index-s.LastTradeIndex >= r.MinHoldDays
	deltaOk := delta >= r.TradeBuffer
	cycleChanged := step.CycleState != s.PrevCycle

	reason := AdoptNone
	switch {
	case step.ForceSwitch && delta > forceEpsilon:
		reason = AdoptForced
	case cycleChanged && holdOk && deltaOk:
		reason = AdoptCycle
	case step.RebalanceDay && holdOk && deltaOk:
		reason = AdoptScheduled
	}

	next := s
	next.PrevCycle = step.CycleState
	if reason != AdoptNone {
		next.LastAdopted = step.Desired
		next.LastTradeIndex = step.Index
	}
	return next, reason
}

// Run folds the rules over every step and returns the adopted target
// and the adoption reason of each row
func (r RebalanceRules) Run(steps []RebalanceStep) ([]float64, []AdoptReason) {
	adopted := make([]float64, len(steps))
	reasons := make([]AdoptReason, len(steps))
	state := RebalanceState{}
	for i, step := range steps {
		state, reasons[i] = r.Next(state, step)
		adopted[i] = state.LastAdopted
	}
	return adopted, reasons
}

// Quantize snaps target to the position grid, rounding half to even,
// then clips it to [lo, hi]
func Quantize(target, step, lo, hi float64) float64 {
	q := math.RoundToEven(target/step) * step
	return math.Min(hi, math.Max(lo, q))
}

// RebalanceDays marks the rows on which a scheduled rebalance may
// happen. weekly and monthly schedules fire on the last row of each
// period; the final row always fires
func RebalanceDays(dates []time.Time, mode domain.RebalanceMode) []bool {
	n := len(dates)
	out := make([]bool, n)
	for i := range dates {
		if i == n-1 || mode == domain.RebalanceDaily {
			out[i] = true
			continue
		}
		switch mode {
		case domain.RebalanceMonthly:
			out[i] = util.MonthKey(dates[i]) != util.MonthKey(dates[i+1])
		default:
			out[i] = !util.WeekEndingFriday(dates[i]).Equal(util.WeekEndingFriday(dates[i+1]))
		}
	}
	return out
}

// ShiftLegs delays adopted legs by one row. what is decided at t earns
// returns from t+1
func ShiftLegs(adopted []float64) []float64 {
	out := make([]float64, len(adopted))
	for i := 1; i < len(adopted); i++ {
		out[i] = adopted[i-1]
	}
	return out
}
