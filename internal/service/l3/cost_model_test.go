package l3_service

import (
	"macrobacktest/internal/domain"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func newParams(t *testing.T, symbol string, mutate func(c *domain.StrategyConfig)) *domain.StrategyParams {
	t.Helper()
	cfg := domain.DefaultStrategyConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	p, _, err := domain.NewStrategyParams(cfg, domain.LookupAsset(symbol))
	require.NoError(t, err)
	return p
}

func TestRollingVolatility(t *testing.T) {
	t.Run("leading values take the median", func(t *testing.T) {
		returns := []float64{math.NaN(), 0.01, 0.02, 0.03, 0.04, 0.05, 0.07}
		vol := RollingVolatility(returns, 5)

		first := math.Sqrt(0.00025)
		require.InDelta(t, first, vol[5], 1e-12)
		require.Greater(t, vol[6], vol[5])
		median := (vol[5] + vol[6]) / 2
		for i := 0; i < 5; i++ {
			require.InDelta(t, median, vol[i], 1e-12)
		}
	})

	t.Run("nothing defined", func(t *testing.T) {
		vol := RollingVolatility([]float64{math.NaN(), 0.01, 0.02}, 20)
		require.Equal(t, []float64{0, 0, 0}, vol)
	})
}

func TestApplyCosts(t *testing.T) {
	p := newParams(t, "SPY", nil)
	prices := []float64{100, 101, 102, 101, 103}
	long := []float64{0, 0, 1, 1, 1.5}
	hedge := []float64{0, 0, 0, 0, 0}

	out := ApplyCosts(CostInput{
		Prices:   prices,
		LongLeg:  long,
		HedgeLeg: hedge,
		Params:   p,
	})

	t.Run("first row is flat", func(t *testing.T) {
		require.Equal(t, 1.0, out.Nav[0])
		require.Equal(t, 1.0, out.BenchmarkNav[0])
		require.Equal(t, 0.0, out.NetReturn[0])
		require.Equal(t, 0.0, out.Turnover[0])
	})

	t.Run("fees follow turnover", func(t *testing.T) {
		require.InDelta(t, 1, out.Turnover[2], 1e-12)
		require.InDelta(t, 0.0004, out.Fee[2], 1e-12)
		require.InDelta(t, 0.5, out.Turnover[4], 1e-12)
		require.InDelta(t, 0.0002, out.Fee[4], 1e-12)
		// too few returns for a volatility estimate
		require.Equal(t, 0.0, out.Slippage[4])
	})

	t.Run("uninvested days earn the risk free rate", func(t *testing.T) {
		require.InDelta(t, 0.04/252, out.GrossReturn[1], 1e-12)
	})

	t.Run("leverage pays funding and borrows cash", func(t *testing.T) {
		r := 103.0/101.0 - 1
		require.InDelta(t, 0.5*0.0001, out.Funding[4], 1e-12)
		require.InDelta(t, 1.5*r-0.5*0.04/252, out.GrossReturn[4], 1e-12)
	})

	t.Run("nav compounds net returns", func(t *testing.T) {
		nav := 1.0
		for i := 1; i < len(prices); i++ {
			nav *= 1 + out.NetReturn[i]
			require.InDelta(t, nav, out.Nav[i], 1e-12)
		}
		require.InDelta(t, 1.03, out.BenchmarkNav[4], 1e-12)
	})

	t.Run("costs are never negative", func(t *testing.T) {
		for i := range prices {
			require.GreaterOrEqual(t, out.Fee[i], 0.0)
			require.GreaterOrEqual(t, out.Slippage[i], 0.0)
			require.GreaterOrEqual(t, out.Funding[i], 0.0)
			require.LessOrEqual(t, out.NetReturn[i], out.GrossReturn[i])
		}
	})

	t.Run("position is clipped to the leverage bounds", func(t *testing.T) {
		clipped := ApplyCosts(CostInput{
			Prices:   []float64{100, 100},
			LongLeg:  []float64{0, 3},
			HedgeLeg: []float64{0, -0.2},
			Params:   p,
		})
		require.Equal(t, 1.5, clipped.Position[1])
	})
}
