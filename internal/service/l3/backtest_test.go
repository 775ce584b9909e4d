package l3_service

import (
	"context"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newSeries(n int, price func(i int) float64, score func(i int) float64) domain.AlignedSeries {
	start := util.NewDate(2020, 1, 1)
	out := domain.AlignedSeries{
		Dates:  make([]time.Time, n),
		Prices: make([]float64, n),
		Scores: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Dates[i] = start.AddDate(0, 0, i)
		out.Prices[i] = price(i)
		out.Scores[i] = score(i)
	}
	return out
}

func uptrend(i int) float64 {
	return 100 * math.Pow(1.002, float64(i))
}

func wave(i int) float64 {
	return 100 + 15*math.Sin(float64(i)/17) + 5*math.Sin(float64(i)/5)
}

func TestRunBacktest(t *testing.T) {
	ctx := context.Background()

	t.Run("too little history", func(t *testing.T) {
		_, err := RunBacktest(ctx, RunBacktestInput{
			Symbol: "SPY",
			Series: newSeries(100, uptrend, func(int) float64 { return 80 }),
			Config: domain.DefaultStrategyConfig(),
		})
		require.ErrorIs(t, err, domain.ErrInsufficientData)
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := domain.DefaultStrategyConfig()
		cfg.Th2 = cfg.Th1
		_, err := RunBacktest(ctx, RunBacktestInput{
			Symbol: "SPY",
			Series: newSeries(200, uptrend, func(int) float64 { return 80 }),
			Config: cfg,
		})
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("strong regime in a clean uptrend holds max leverage", func(t *testing.T) {
		cfg := domain.DefaultStrategyConfig()
		cfg.MinHoldDays = 14
		result, err := RunBacktest(ctx, RunBacktestInput{
			Symbol: "SPY",
			Series: newSeries(400, uptrend, func(int) float64 { return 80 }),
			Config: cfg,
		})
		require.NoError(t, err)

		positions := result.Positions
		reached := -1
		for i, p := range positions {
			if p.RealizedPosition == cfg.MaxLeverage {
				reached = i
				break
			}
		}
		require.Greater(t, reached, 0)
		require.Less(t, reached, 150)
		for _, p := range positions[reached:] {
			require.Equal(t, cfg.MaxLeverage, p.RealizedPosition)
		}
		for _, p := range positions[reached+1:] {
			require.Equal(t, 0.0, p.Turnover)
			require.Equal(t, 0.0, p.Fee)
		}
		require.Len(t, result.Trades, 1)
		require.Equal(t, domain.TradeFloating, result.Trades[0].Result)
		require.Greater(t, result.Performance.FinalNav, 1.0)
	})

	t.Run("oscillating score with a wide trade buffer never re-trades", func(t *testing.T) {
		cfg := domain.DefaultStrategyConfig()
		cfg.MinHoldDays = 14
		cfg.TradeBuffer = 0.25
		result, err := RunBacktest(ctx, RunBacktestInput{
			Symbol: "SPY",
			Series: newSeries(300, func(int) float64 { return 100 }, func(i int) float64 {
				if i%2 == 0 {
					return 49
				}
				return 51
			}),
			Config: cfg,
		})
		require.NoError(t, err)

		require.Len(t, result.Trades, 1)
		require.Len(t, result.RebalanceEvents, 1)
		for _, p := range result.Positions[1:] {
			require.Equal(t, result.Positions[1].RealizedPosition, p.RealizedPosition)
		}
	})

	t.Run("oscillating score on the default config trades at most once per hold period", func(t *testing.T) {
		cfg := domain.DefaultStrategyConfig()
		flipping := newSeries(300, func(int) float64 { return 100 }, func(i int) float64 {
			if i%2 == 0 {
				return 49
			}
			return 51
		})
		result, err := RunBacktest(ctx, RunBacktestInput{
			Symbol: "SPY",
			Series: flipping,
			Config: cfg,
		})
		require.NoError(t, err)

		// a flat price never crosses its averages, so nothing is forced
		last := 0
		adoptions := 0
		for i, p := range result.Positions {
			require.False(t, p.ForceSwitch, "row %d", i)
			if i == 0 || p.AdoptReason == "" {
				continue
			}
			adoptions++
			require.GreaterOrEqual(t, i-last, cfg.MinHoldDays, "row %d", i)
			require.GreaterOrEqual(t, math.Abs(p.QuantizedTarget-result.Positions[last].QuantizedTarget), cfg.TradeBuffer-1e-9, "row %d", i)
			last = i
		}
		require.LessOrEqual(t, adoptions, (len(result.Positions)-1)/cfg.MinHoldDays)

		// between adoptions the realized position does not move even
		// though the desired target flips
		for i := 2; i < len(result.Positions); i++ {
			if result.Positions[i-1].AdoptReason == "" {
				require.Equal(t, result.Positions[i-1].RealizedPosition, result.Positions[i].RealizedPosition, "row %d", i)
			}
		}
		require.LessOrEqual(t, len(result.RebalanceEvents), adoptions+1)
	})

	t.Run("today's price never moves today's position", func(t *testing.T) {
		cfg := domain.DefaultStrategyConfig()
		cfg.AllowShort = true
		series := newSeries(300, wave, func(i int) float64 { return 50 + 40*math.Sin(float64(i)/23) })
		base, err := RunBacktest(ctx, RunBacktestInput{Symbol: "SPY", Series: series, Config: cfg})
		require.NoError(t, err)

		shocked := newSeries(300, wave, func(i int) float64 { return 50 + 40*math.Sin(float64(i)/23) })
		shocked.Prices[200] *= 0.7
		moved, err := RunBacktest(ctx, RunBacktestInput{Symbol: "SPY", Series: shocked, Config: cfg})
		require.NoError(t, err)

		for i := 0; i <= 200; i++ {
			require.Equal(t, base.Positions[i].RealizedPosition, moved.Positions[i].RealizedPosition, "row %d", i)
		}
	})

	t.Run("invariants hold on a noisy series", func(t *testing.T) {
		for _, symbol := range []string{"SPY", "ETH-USD", "GLD"} {
			cfg := domain.DefaultStrategyConfig()
			cfg.AllowShort = true
			cfg.EventHedgeEnabled = true
			cfg.RebalanceMode = domain.RebalanceDaily
			cfg.MinHoldDays = 3
			result, err := RunBacktest(ctx, RunBacktestInput{
				Symbol: symbol,
				Series: newSeries(500, wave, func(i int) float64 { return 50 + 45*math.Sin(float64(i)/31) }),
				Config: cfg,
			})
			require.NoError(t, err)

			p := result.Params
			nonFlat := 0
			for i, row := range result.Positions {
				require.LessOrEqual(t, row.RealizedPosition, p.Config.MaxLeverage, "%s row %d", symbol, i)
				require.GreaterOrEqual(t, row.RealizedPosition, p.ShortFloor(), "%s row %d", symbol, i)
				require.GreaterOrEqual(t, row.Fee, 0.0)
				require.GreaterOrEqual(t, row.Slippage, 0.0)
				require.GreaterOrEqual(t, row.Funding, 0.0)
				require.LessOrEqual(t, row.NetReturn, row.GrossReturn)
				if i > 0 {
					prev := result.Positions[i-1]
					require.Equal(t, prev.AdoptedLong, row.LongLeg)
					require.Equal(t, prev.AdoptedHedge, row.HedgeLeg)
				}
				if row.RealizedPosition != 0 {
					nonFlat++
				}
			}

			bars := 0
			for _, tr := range result.Trades {
				bars += tr.Bars()
			}
			require.Equal(t, nonFlat, bars, symbol)
			require.Len(t, result.TradeStats.ByScore, 4)
		}
	})
}
