package calculator

import (
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type row struct {
	position float64
	price    float64
	score    float64
	signal   domain.SignalLabel
}

func newPositions(start time.Time, rows []row) []domain.PositionRecord {
	out := make([]domain.PositionRecord, len(rows))
	for i, r := range rows {
		out[i] = domain.PositionRecord{
			Date:             start.AddDate(0, 0, i),
			Price:            r.price,
			Score:            r.score,
			Signal:           r.signal,
			RealizedPosition: r.position,
		}
	}
	return out
}

func TestExtractTrades(t *testing.T) {
	start := util.NewDate(2024, 1, 1)

	t.Run("close, flip and floating", func(t *testing.T) {
		positions := newPositions(start, []row{
			{0, 10, 50, domain.SignalAttack},
			{1, 10, 55, domain.SignalAttack},
			{1, 11, 60, domain.SignalAttack},
			{0, 12, 20, domain.SignalHedgeShort},
			{-1, 12, 15, domain.SignalHedgeShort},
			{1, 10, 70, domain.SignalAttack},
			{1, 9, 72, domain.SignalAttack},
		})

		exit3 := start.AddDate(0, 0, 3)
		exit5 := start.AddDate(0, 0, 5)
		expected := []domain.Trade{
			{
				Side:       1,
				Mode:       "attack",
				EntryIndex: 1,
				ExitIndex:  3,
				EntryDate:  start.AddDate(0, 0, 1),
				ExitDate:   &exit3,
				EntryScore: 50,
				EntryPrice: 10,
				ExitPrice:  12,
				PnL:        0.2,
				Result:     domain.TradeWin,
			},
			{
				Side:       -1,
				Mode:       "hedge-short",
				EntryIndex: 4,
				ExitIndex:  5,
				EntryDate:  start.AddDate(0, 0, 4),
				ExitDate:   &exit5,
				EntryScore: 20,
				EntryPrice: 12,
				ExitPrice:  10,
				PnL:        2.0 / 12.0,
				Result:     domain.TradeWin,
			},
			{
				Side:       1,
				Mode:       "hedge-short (hold)",
				EntryIndex: 5,
				ExitIndex:  7,
				EntryDate:  start.AddDate(0, 0, 5),
				ExitDate:   nil,
				EntryScore: 15,
				EntryPrice: 10,
				ExitPrice:  9,
				PnL:        -0.1,
				Result:     domain.TradeFloating,
			},
		}

		trades := ExtractTrades(positions)
		require.Equal(t, "", cmp.Diff(expected, trades, floatOpts...))
		require.Equal(t, 2, trades[2].Bars())
	})

	t.Run("never invested", func(t *testing.T) {
		positions := newPositions(start, []row{
			{0, 10, 50, domain.SignalCash},
			{0, 11, 50, domain.SignalCash},
		})
		require.Empty(t, ExtractTrades(positions))
	})

	t.Run("size changes do not split a trade", func(t *testing.T) {
		positions := newPositions(start, []row{
			{0, 10, 50, domain.SignalCash},
			{0.5, 10, 50, domain.SignalDefend},
			{1.5, 8, 50, domain.SignalLeveragedAttack},
			{0, 9, 50, domain.SignalCash},
		})
		trades := ExtractTrades(positions)
		require.Len(t, trades, 1)
		require.InDelta(t, -0.1, trades[0].PnL, 1e-12)
		require.Equal(t, domain.TradeLoss, trades[0].Result)
	})
}
