package l3_service

import (
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		name   string
		target float64
		want   float64
	}{
		{"rounds down", 0.34, 0.3},
		{"rounds up", 0.36, 0.4},
		{"half rounds to even", 0.25, 0.2},
		{"clipped above", 1.74, 1.5},
		{"clipped below", -0.74, -0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, Quantize(tt.target, 0.1, -0.5, 1.5), 1e-12)
		})
	}

	t.Run("within half a step of the target", func(t *testing.T) {
		step := 0.2
		for target := -1.0; target <= 2.0; target += 0.013 {
			q := Quantize(target, step, -5, 5)
			require.LessOrEqual(t, math.Abs(q-target), step/2+1e-12)
			require.InDelta(t, 0, math.Remainder(q, step), 1e-9)
		}
	})
}

func TestRebalanceRules_Next(t *testing.T) {
	rules := RebalanceRules{MinHoldDays: 5, TradeBuffer: 0.2}
	held := RebalanceState{LastAdopted: 0.5, LastTradeIndex: 10, PrevCycle: 22}

	t.Run("first row adopts", func(t *testing.T) {
		next, reason := rules.Next(RebalanceState{}, RebalanceStep{Index: 0, Desired: 0.7, CycleState: 31})
		require.Equal(t, AdoptInitial, reason)
		require.Equal(t, RebalanceState{LastAdopted: 0.7, LastTradeIndex: 0, PrevCycle: 31}, next)
	})

	t.Run("buffer blocks a scheduled change", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 20, Desired: 0.6, CycleState: 22, RebalanceDay: true})
		require.Equal(t, AdoptNone, reason)
		require.Equal(t, 0.5, next.LastAdopted)
	})

	t.Run("hold time blocks a scheduled change", func(t *testing.T) {
		_, reason := rules.Next(held, RebalanceStep{Index: 13, Desired: 1.0, CycleState: 22, RebalanceDay: true})
		require.Equal(t, AdoptNone, reason)
	})

	t.Run("scheduled change", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 15, Desired: 1.0, CycleState: 22, RebalanceDay: true})
		require.Equal(t, AdoptScheduled, reason)
		require.Equal(t, RebalanceState{LastAdopted: 1.0, LastTradeIndex: 15, PrevCycle: 22}, next)
	})

	t.Run("cycle change outside the schedule", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 16, Desired: 0.1, CycleState: 12})
		require.Equal(t, AdoptCycle, reason)
		require.Equal(t, 12, next.PrevCycle)
	})

	t.Run("cycle change still respects the buffer", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 16, Desired: 0.6, CycleState: 12})
		require.Equal(t, AdoptNone, reason)
		// the cycle is tracked even when nothing is adopted
		require.Equal(t, 12, next.PrevCycle)
		require.Equal(t, 10, next.LastTradeIndex)
	})

	t.Run("force bypasses hold time and buffer", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 11, Desired: 0.6, CycleState: 22, ForceSwitch: true})
		require.Equal(t, AdoptForced, reason)
		require.Equal(t, 0.6, next.LastAdopted)
		require.Equal(t, 11, next.LastTradeIndex)
	})

	t.Run("force without a move is a no-op", func(t *testing.T) {
		next, reason := rules.Next(held, RebalanceStep{Index: 11, Desired: 0.5, CycleState: 22, ForceSwitch: true})
		require.Equal(t, AdoptNone, reason)
		require.Equal(t, held, next)
	})
}

func TestRebalanceRules_Run(t *testing.T) {
	rules := RebalanceRules{MinHoldDays: 2, TradeBuffer: 0.3}
	steps := []RebalanceStep{
		{Index: 0, Desired: 0.5, CycleState: 1},
		{Index: 1, Desired: 0.6, CycleState: 1, RebalanceDay: true},
		{Index: 2, Desired: 0.9, CycleState: 1, RebalanceDay: true},
		{Index: 3, Desired: 0.8, CycleState: 1, RebalanceDay: true},
		{Index: 4, Desired: 0.2, CycleState: 1, ForceSwitch: true},
	}

	adopted, reasons := rules.Run(steps)
	require.Equal(t, "", cmp.Diff([]float64{0.5, 0.5, 0.9, 0.9, 0.2}, adopted))
	require.Equal(t, []AdoptReason{AdoptInitial, AdoptNone, AdoptScheduled, AdoptNone, AdoptForced}, reasons)
}

func TestRebalanceDays(t *testing.T) {
	t.Run("weekly fires on the last row of each week", func(t *testing.T) {
		dates := []time.Time{
			util.NewDate(2024, 1, 4),
			util.NewDate(2024, 1, 5),
			util.NewDate(2024, 1, 8),
			util.NewDate(2024, 1, 9),
		}
		require.Equal(t, []bool{false, true, false, true}, RebalanceDays(dates, domain.RebalanceWeekly))
	})

	t.Run("saturday belongs to the following week", func(t *testing.T) {
		dates := []time.Time{
			util.NewDate(2024, 1, 5),
			util.NewDate(2024, 1, 6),
			util.NewDate(2024, 1, 7),
			util.NewDate(2024, 1, 8),
		}
		require.Equal(t, []bool{true, false, false, true}, RebalanceDays(dates, domain.RebalanceWeekly))
	})

	t.Run("monthly", func(t *testing.T) {
		dates := []time.Time{
			util.NewDate(2024, 1, 30),
			util.NewDate(2024, 1, 31),
			util.NewDate(2024, 2, 1),
			util.NewDate(2024, 2, 2),
		}
		require.Equal(t, []bool{false, true, false, true}, RebalanceDays(dates, domain.RebalanceMonthly))
	})

	t.Run("daily", func(t *testing.T) {
		dates := []time.Time{
			util.NewDate(2024, 1, 30),
			util.NewDate(2024, 1, 31),
		}
		require.Equal(t, []bool{true, true}, RebalanceDays(dates, domain.RebalanceDaily))
	})
}

func TestShiftLegs(t *testing.T) {
	require.Equal(t, []float64{0, 1, 2}, ShiftLegs([]float64{1, 2, 3}))
	require.Empty(t, ShiftLegs([]float64{}))
}
