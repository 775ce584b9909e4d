package domain

import (
	"fmt"
	"sort"
)

const (
	PresetDefensive      = "defensive"
	PresetTrendFollowing = "trend-following"
)

func floatPtr(f float64) *float64 {
	return &f
}

var presets = map[string]func(*StrategyConfig){
	PresetDefensive: func(c *StrategyConfig) {
		c.AllowShort = true
		c.ShortLeverage = 0.4
		c.ShortMinRiskCount = 3

		c.BaseRiskOff = 0.05
		c.BaseCaution = 0.30
		c.BaseNeutral = 0.70
		c.BaseRiskOn = 0.95
		c.BaseSuper = floatPtr(1.10)

		c.ShortScoreThreshold = floatPtr(22)
		c.ShortTriggerScore = floatPtr(28)
		c.HedgeSizeWeak = 0.30
		c.HedgeSizeStrong = 0.70
		c.HedgeSizeEarly = 0.15
		c.LongBiasMin = 0.25

		c.RebalanceMode = RebalanceMonthly
		c.MinHoldDays = 15
		c.TradeBuffer = 0.20
		c.PositionStep = 0.10

		c.MacroSmoothSpan = 14
		c.MacroTrendWindow = 25
		c.MacroUpTh = 4
		c.MacroDownTh = -4
		c.MacroUpAdd = 0.08
		c.MacroDownCut = 0.18
		c.ParallelBullBoost = 0.12
		c.BreakCapCrypto = 0.22
		c.BreakCapOther = 0.20

		c.SlippageMult = 0.30
		c.FundingBpsDaily = 1.0
	},
	PresetTrendFollowing: func(c *StrategyConfig) {
		c.AllowShort = true
		c.ShortLeverage = 0.7
		c.ShortMinRiskCount = 3

		c.BaseRiskOff = 0.10
		c.BaseCaution = 0.40
		c.BaseNeutral = 0.90
		c.BaseRiskOn = 1.20
		c.BaseSuper = floatPtr(1.35)

		c.ShortScoreThreshold = floatPtr(24)
		c.ShortTriggerScore = floatPtr(26)
		c.HedgeSizeWeak = 0.30
		c.HedgeSizeStrong = 0.55
		c.HedgeSizeEarly = 0.20
		c.LongBiasMin = 0.35

		c.RebalanceMode = RebalanceWeekly
		c.MinHoldDays = 14
		c.TradeBuffer = 0.25
		c.PositionStep = 0.20

		c.MacroSmoothSpan = 10
		c.MacroTrendWindow = 20
		c.MacroUpTh = 4
		c.MacroDownTh = -4
		c.MacroUpAdd = 0.12
		c.MacroDownCut = 0.15
		c.ParallelBullBoost = 0.35
		c.BreakCapCrypto = 0.30
		c.BreakCapOther = 0.25

		c.SlippageMult = 0.30
		c.FundingBpsDaily = 1.0
	},
}

// PresetConfig returns the default config with the named preset applied.
// an empty name returns the plain defaults
func PresetConfig(name string) (StrategyConfig, error) {
	c := DefaultStrategyConfig()
	if name == "" {
		return c, nil
	}
	apply, ok := presets[name]
	if !ok {
		return StrategyConfig{}, fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, name)
	}
	apply(&c)
	return c, nil
}

func PresetNames() []string {
	out := []string{}
	for k := range presets {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
