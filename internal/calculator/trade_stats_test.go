package calculator

import (
	"macrobacktest/internal/domain"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestPnLRatio(t *testing.T) {
	t.Run("no losses", func(t *testing.T) {
		require.True(t, math.IsInf(PnLRatio([]domain.Trade{{PnL: 0.1}}), 1))
	})

	t.Run("no wins", func(t *testing.T) {
		require.Equal(t, 0.0, PnLRatio([]domain.Trade{{PnL: -0.1}}))
	})

	t.Run("no trades", func(t *testing.T) {
		require.True(t, math.IsNaN(PnLRatio(nil)))
	})
}

func TestSummarizeTrades(t *testing.T) {
	trades := []domain.Trade{
		{Mode: "attack", EntryScore: 70, PnL: 0.2},
		{Mode: "defend", EntryScore: 30, PnL: -0.1},
		{Mode: "attack (hold)", EntryScore: 65, PnL: 0.1},
	}

	nan := math.NaN()
	expected := domain.TradeStats{
		Trades:   3,
		PnLRatio: 1.5,
		ByMode: []domain.TradeGroupStats{
			{Group: "attack", Trades: 2, PnLRatio: math.Inf(1), AvgReturn: 0.15},
			{Group: "defend", Trades: 1, PnLRatio: 0, AvgReturn: -0.1},
		},
		ByScore: []domain.TradeGroupStats{
			{Group: "<20", Trades: 0, PnLRatio: nan, AvgReturn: nan},
			{Group: "20-40", Trades: 1, PnLRatio: 0, AvgReturn: -0.1},
			{Group: "40-60", Trades: 0, PnLRatio: nan, AvgReturn: nan},
			{Group: "60+", Trades: 2, PnLRatio: math.Inf(1), AvgReturn: 0.15},
		},
	}

	require.Equal(t, "", cmp.Diff(expected, SummarizeTrades(trades), floatOpts...))
}

func Test_bucketFor(t *testing.T) {
	require.Equal(t, "<20", bucketFor(19.99))
	require.Equal(t, "20-40", bucketFor(20))
	require.Equal(t, "40-60", bucketFor(59.9))
	require.Equal(t, "60+", bucketFor(60))
	require.Equal(t, "60+", bucketFor(100))
}
