package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShockForwardStats(t *testing.T) {
	prices := []float64{100, 110, 110, 121, 121, 100}
	stats := ShockForwardStats(prices, -0.08, []int{1, 2})
	require.Len(t, stats, 4)

	t.Run("up moves", func(t *testing.T) {
		h1 := stats[0]
		require.Equal(t, ShockUp, h1.Direction)
		require.Equal(t, 1, h1.Horizon)
		require.Equal(t, 2, h1.Count)
		require.Equal(t, 0.0, h1.WinRate)
		require.InDelta(t, 0, h1.Mean, 1e-12)

		h2 := stats[1]
		require.Equal(t, 2, h2.Count)
		require.Equal(t, 0.5, h2.WinRate)
		require.InDelta(t, (0.1+100.0/121.0-1)/2, h2.Median, 1e-12)
		require.InDelta(t, 100.0/121.0-1+0.25*(0.1-(100.0/121.0-1)), h2.Q25, 1e-12)
	})

	t.Run("down move without forward data", func(t *testing.T) {
		for _, s := range stats[2:] {
			require.Equal(t, ShockDown, s.Direction)
			require.Equal(t, 0, s.Count)
			require.True(t, math.IsNaN(s.WinRate))
			require.True(t, math.IsNaN(s.Q75))
		}
	})

	t.Run("empty prices", func(t *testing.T) {
		require.Empty(t, ShockForwardStats(nil, 0.08, DefaultShockHorizons))
	})
}

func TestLeadLag(t *testing.T) {
	n := 120
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + 10*math.Sin(float64(i)/3) + float64(i)
	}

	t.Run("score equal to forward return", func(t *testing.T) {
		scores := forwardReturns(prices, 5)
		for i := range scores {
			if math.IsNaN(scores[i]) {
				scores[i] = 0
			}
		}
		out := LeadLag(scores, prices, []int{5})
		require.Len(t, out, 1)
		require.Equal(t, 5, out[0].Horizon)
		require.InDelta(t, 1, out[0].CorrFwd, 1e-9)
		require.InDelta(t, out[0].CorrFwd-out[0].CorrPast, out[0].LeadEdge, 1e-12)
		require.Greater(t, out[0].LeadEdge, 0.0)
	})

	t.Run("constant score", func(t *testing.T) {
		scores := make([]float64, n)
		out := LeadLag(scores, prices, []int{5})
		require.True(t, math.IsNaN(out[0].CorrFwd))
		require.True(t, math.IsNaN(out[0].LeadEdge))
	})

	t.Run("too short", func(t *testing.T) {
		require.Empty(t, LeadLag(make([]float64, 80), prices[:80], DefaultLeadLagHorizons))
	})
}
