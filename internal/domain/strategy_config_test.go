package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var floatComparer = cmp.Comparer(func(i, j float64) bool {
	return math.Abs(i-j) < 1e-9
})

func TestStrategyConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		require.NoError(t, DefaultStrategyConfig().Validate())
	})

	t.Run("thresholds must ascend", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.Th3 = c.Th2
		err := c.Validate()
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("thresholds must stay within score range", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.Th5 = 120
		require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
	})

	t.Run("unknown rebalance mode", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.RebalanceMode = "quarterly"
		require.ErrorIs(t, c.Validate(), ErrInvalidConfig)
	})

	t.Run("non-finite values are rejected", func(t *testing.T) {
		cases := []struct {
			name   string
			key    string
			mutate func(c *StrategyConfig, v float64)
		}{
			{"max leverage", "max_leverage", func(c *StrategyConfig, v float64) { c.MaxLeverage = v }},
			{"trade buffer", "trade_buffer", func(c *StrategyConfig, v float64) { c.TradeBuffer = v }},
			{"shock retain ratio", "shock_retain_ratio", func(c *StrategyConfig, v float64) { c.ShockRetainRatio = v }},
			{"risk free rate", "risk_free_rate", func(c *StrategyConfig, v float64) { c.RiskFreeRate = v }},
			{"threshold", "th3", func(c *StrategyConfig, v float64) { c.Th3 = v }},
			{"base super", "base_super", func(c *StrategyConfig, v float64) { c.BaseSuper = &v }},
			{"one way cost", "one_way_cost_bps", func(c *StrategyConfig, v float64) { c.OneWayCostBps = &v }},
		}
		for _, tt := range cases {
			for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
				t.Run(tt.name, func(t *testing.T) {
					c := DefaultStrategyConfig()
					tt.mutate(&c, v)
					err := c.Validate()
					require.ErrorIs(t, err, ErrInvalidConfig)
					require.ErrorContains(t, err, tt.key)
				})
			}
		}
	})

	t.Run("a NaN config never reaches the engine", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.MaxLeverage = math.NaN()
		_, _, err := NewStrategyParams(c, LookupAsset("SPY"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestStrategyConfig_Normalize(t *testing.T) {
	t.Run("defaults need no adjustment", func(t *testing.T) {
		_, notes := DefaultStrategyConfig().Normalize()
		require.Empty(t, notes)
	})

	t.Run("out of range values are clamped and reported", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.MaxLeverage = 3
		c.PositionStep = 0.01
		c.ShockRetainRatio = 1.4
		c.EventHedgeHoldDays = 5
		c.ShockDropPct = -0.1

		out, notes := c.Normalize()
		require.Equal(t, 2.0, out.MaxLeverage)
		require.Equal(t, 0.05, out.PositionStep)
		require.Equal(t, 1.0, out.ShockRetainRatio)
		require.Equal(t, 2, out.EventHedgeHoldDays)
		require.Equal(t, 0.1, out.ShockDropPct)
		require.Len(t, notes, 5)

		// the receiver is left untouched
		require.Equal(t, 3.0, c.MaxLeverage)
	})
}

func TestNewStrategyParams(t *testing.T) {
	t.Run("allocations scale with leverage", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.MaxLeverage = 2.0
		p, _, err := NewStrategyParams(c, LookupAsset("SPY"))
		require.NoError(t, err)

		scale := 2.0 / 1.5
		require.Equal(t, "", cmp.Diff(
			[]float64{2.0, 1.20 * scale, 0.85 * scale, 0.45 * scale, 0.15 * scale, 0.10 * scale, 0.15 * scale},
			[]float64{p.BaseSuper, p.BaseRiskOn, p.BaseNeutral, p.BaseCaution, p.BaseRiskOff, p.MacroUpAdd, p.MacroDownCut},
			floatComparer,
		))
		require.False(t, p.Trend.Exponential)
		require.Equal(t, 0.58, p.Trend.Multipliers.Neutral)
		require.InDelta(t, 4.0/10000, p.FeeRate, 1e-12)
	})

	t.Run("crypto uses exponential averages and crypto caps", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.BreakCapCrypto = 0.3
		p, _, err := NewStrategyParams(c, LookupAsset("BTC-USD"))
		require.NoError(t, err)
		require.True(t, p.Trend.Exponential)
		require.Equal(t, 0.3, p.BreakCap)
		require.InDelta(t, 18.0/10000, p.FeeRate, 1e-12)
	})

	t.Run("hedge mode selection", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.AllowShort = true

		p, _, err := NewStrategyParams(c, LookupAsset("SPY"))
		require.NoError(t, err)
		require.Equal(t, HedgeModeRiskCount, p.HedgeMode)
		require.Equal(t, -0.5, p.ShortFloor())

		p, notes, err := NewStrategyParams(c, LookupAsset("GLD"))
		require.NoError(t, err)
		require.Equal(t, HedgeModeNone, p.HedgeMode)
		require.Len(t, notes, 1)

		c.EventHedgeEnabled = true
		p, _, err = NewStrategyParams(c, LookupAsset("ETH-USD"))
		require.NoError(t, err)
		require.Equal(t, HedgeModeEvent, p.HedgeMode)
		require.Equal(t, 0.0, p.ShortFloor())
	})

	t.Run("short thresholds default to th1 and th2", func(t *testing.T) {
		p, _, err := NewStrategyParams(DefaultStrategyConfig(), LookupAsset("SPY"))
		require.NoError(t, err)
		require.Equal(t, 20.0, p.ShortScoreThreshold)
		require.Equal(t, 35.0, p.ShortTriggerScore)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		c := DefaultStrategyConfig()
		c.Th1 = 90
		_, _, err := NewStrategyParams(c, LookupAsset("SPY"))
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestStrategyParams_CycleState(t *testing.T) {
	p, _, err := NewStrategyParams(DefaultStrategyConfig(), LookupAsset("SPY"))
	require.NoError(t, err)

	require.Equal(t, 0, p.CycleState(10, TrendBreak))
	require.Equal(t, 11, p.CycleState(49.9, TrendWeak))
	require.Equal(t, 22, p.CycleState(50.1, TrendFlatBullish))
	require.Equal(t, 32, p.CycleState(70, TrendUp))
	require.Equal(t, 44, p.CycleState(80, TrendStrong))
}

func TestPresetConfig(t *testing.T) {
	t.Run("every preset is valid", func(t *testing.T) {
		for _, name := range PresetNames() {
			c, err := PresetConfig(name)
			require.NoError(t, err)
			require.NoError(t, c.Validate(), name)
		}
	})

	t.Run("defensive overrides", func(t *testing.T) {
		c, err := PresetConfig(PresetDefensive)
		require.NoError(t, err)
		require.Equal(t, RebalanceMonthly, c.RebalanceMode)
		require.Equal(t, 1.10, *c.BaseSuper)
		require.True(t, c.AllowShort)
		require.Equal(t, 4.0, c.MacroUpTh)
		require.Equal(t, -4.0, c.MacroDownTh)
	})

	t.Run("trend-following overrides", func(t *testing.T) {
		c, err := PresetConfig(PresetTrendFollowing)
		require.NoError(t, err)
		require.Equal(t, RebalanceWeekly, c.RebalanceMode)
		require.Equal(t, 1.35, *c.BaseSuper)
		require.Equal(t, 0.7, c.ShortLeverage)
		require.Equal(t, 20, c.MacroTrendWindow)
		require.Equal(t, 4.0, c.MacroUpTh)
		require.Equal(t, -4.0, c.MacroDownTh)
		require.Equal(t, 0.12, c.MacroUpAdd)
		require.Equal(t, 0.15, c.MacroDownCut)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := PresetConfig("yolo")
		require.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestLabelSignal(t *testing.T) {
	cases := []struct {
		long, hedge float64
		expected    SignalLabel
	}{
		{1.0, -0.3, SignalHedgeShort},
		{1.5, 0, SignalLeveragedAttack},
		{1.0, 0, SignalAttack},
		{0.5, 0, SignalDefend},
		{0.1, 0, SignalProbe},
		{0, 0, SignalCash},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, LabelSignal(c.long, c.hedge, 1.5))
	}
}
