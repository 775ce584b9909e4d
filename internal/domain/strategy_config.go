package domain

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidConfig = errors.New("invalid strategy config")

type RebalanceMode string

const (
	RebalanceDaily   RebalanceMode = "daily"
	RebalanceWeekly  RebalanceMode = "weekly"
	RebalanceMonthly RebalanceMode = "monthly"
)

// StrategyConfig enumerates every tunable of the engine. yaml keys
// follow the flat key names used by the dashboard config files
type StrategyConfig struct {
	Th1 float64 `json:"th1" yaml:"th1"`
	Th2 float64 `json:"th2" yaml:"th2"`
	Th3 float64 `json:"th3" yaml:"th3"`
	Th4 float64 `json:"th4" yaml:"th4"`
	Th5 float64 `json:"th5" yaml:"th5"`

	BaseRiskOff float64 `json:"baseRiskOff" yaml:"base_risk_off"`
	BaseCaution float64 `json:"baseCaution" yaml:"base_caution"`
	BaseNeutral float64 `json:"baseNeutral" yaml:"base_neutral"`
	BaseRiskOn  float64 `json:"baseRiskOn" yaml:"base_risk_on"`
	// nil means "use max leverage"
	BaseSuper *float64 `json:"baseSuper,omitempty" yaml:"base_super,omitempty"`

	MaxLeverage              float64 `json:"maxLeverage" yaml:"max_leverage"`
	ReferenceMaxLeverage     float64 `json:"referenceMaxLeverage" yaml:"reference_max_leverage"`
	LeverageFollowAllocation bool    `json:"leverageFollowAllocation" yaml:"leverage_follow_allocation"`

	MacroUpTh        float64 `json:"macroUpTh" yaml:"macro_up_th"`
	MacroDownTh      float64 `json:"macroDownTh" yaml:"macro_down_th"`
	MacroUpAdd       float64 `json:"macroUpAdd" yaml:"macro_up_add"`
	MacroDownCut     float64 `json:"macroDownCut" yaml:"macro_down_cut"`
	MacroSmoothSpan  int     `json:"macroSmoothSpan" yaml:"macro_smooth_span"`
	MacroTrendWindow int     `json:"macroTrendWindow" yaml:"macro_trend_window"`
	MacroLagDays     int     `json:"macroLagDays" yaml:"macro_lag_days"`

	FastWindow int `json:"fastWindow" yaml:"fast_window"`
	MidWindow  int `json:"midWindow" yaml:"mid_window"`
	LongWindow int `json:"longWindow" yaml:"long_window"`

	MidBandLow          float64 `json:"midBandLow" yaml:"mid_band_low"`
	MidBandHigh         float64 `json:"midBandHigh" yaml:"mid_band_high"`
	MidFloorRatio       float64 `json:"midFloorRatio" yaml:"mid_floor_ratio"`
	RecoverLowThreshold float64 `json:"recoverLowThreshold" yaml:"recover_low_threshold"`
	RecoverLookback     int     `json:"recoverLookback" yaml:"recover_lookback"`
	RecoverSlopeFastTh  float64 `json:"recoverSlopeFastTh" yaml:"recover_slope_fast_th"`
	RecoverBoost        float64 `json:"recoverBoost" yaml:"recover_boost"`
	ParallelBullBoost   float64 `json:"parallelBullBoost" yaml:"parallel_bull_boost"`
	BreakCapCrypto      float64 `json:"breakCapCrypto" yaml:"break_cap_crypto"`
	BreakCapOther       float64 `json:"breakCapOther" yaml:"break_cap_other"`
	ExtremeHighTrim     float64 `json:"extremeHighTrim" yaml:"extreme_high_trim"`
	ExtremeLowTrim      float64 `json:"extremeLowTrim" yaml:"extreme_low_trim"`
	ForceMaxOnBullStack bool    `json:"forceMaxOnBullStack" yaml:"force_max_on_bull_stack"`

	ShockEnabled     bool    `json:"shockEnabled" yaml:"shock_enabled"`
	ShockDropPct     float64 `json:"shockDropPct" yaml:"shock_drop_pct"`
	ShockRetainRatio float64 `json:"shockRetainRatio" yaml:"shock_retain_ratio"`

	AllowShort        bool    `json:"allowShort" yaml:"allow_short"`
	ShortLeverage     float64 `json:"shortLeverage" yaml:"short_leverage"`
	ShortMinRiskCount int     `json:"shortMinRiskCount" yaml:"short_min_risk_count"`
	// nil defaults to th1 / th2
	ShortScoreThreshold *float64 `json:"shortScoreThreshold,omitempty" yaml:"short_score_threshold,omitempty"`
	ShortTriggerScore   *float64 `json:"shortTriggerScore,omitempty" yaml:"short_trigger_score,omitempty"`
	HedgeSizeWeak       float64  `json:"hedgeSizeWeak" yaml:"hedge_size_weak"`
	HedgeSizeStrong     float64  `json:"hedgeSizeStrong" yaml:"hedge_size_strong"`
	HedgeSizeEarly      float64  `json:"hedgeSizeEarly" yaml:"hedge_size_early"`
	LongBiasMin         float64  `json:"longBiasMin" yaml:"long_bias_min"`

	EventHedgeEnabled        bool    `json:"eventHedgeEnabled" yaml:"event_hedge_enabled"`
	EventHedgeFraction       float64 `json:"eventHedgeFraction" yaml:"event_hedge_fraction"`
	EventHedgeLeverage       float64 `json:"eventHedgeLeverage" yaml:"event_hedge_leverage"`
	EventHedgeHoldDays       int     `json:"eventHedgeHoldDays" yaml:"event_hedge_hold_days"`
	EventHedgeTakeProfitDrop float64 `json:"eventHedgeTakeProfitDrop" yaml:"event_hedge_takeprofit_drop"`
	EventHedgeCapRatio       float64 `json:"eventHedgeCapRatio" yaml:"event_hedge_cap_ratio"`

	RebalanceMode RebalanceMode `json:"rebalanceMode" yaml:"rebalance_mode"`
	MinHoldDays   int           `json:"minHoldDays" yaml:"min_hold_days"`
	TradeBuffer   float64       `json:"tradeBuffer" yaml:"trade_buffer"`
	PositionStep  float64       `json:"positionStep" yaml:"position_step"`

	// nil falls back to the asset profile default
	OneWayCostBps     *float64 `json:"oneWayCostBps,omitempty" yaml:"one_way_cost_bps,omitempty"`
	CostScale         float64  `json:"costScale" yaml:"cost_scale"`
	SlippageVolWindow int      `json:"slippageVolWindow" yaml:"slippage_vol_window"`
	SlippageMult      float64  `json:"slippageMult" yaml:"slippage_mult"`
	FundingBpsDaily   float64  `json:"fundingBpsDaily" yaml:"funding_bps_daily"`
	RiskFreeRate      float64  `json:"riskFreeRate" yaml:"risk_free_rate"`
}

func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		Th1: 20,
		Th2: 35,
		Th3: 50,
		Th4: 65,
		Th5: 80,

		BaseRiskOff: 0.15,
		BaseCaution: 0.45,
		BaseNeutral: 0.85,
		BaseRiskOn:  1.20,

		MaxLeverage:              1.5,
		ReferenceMaxLeverage:     1.5,
		LeverageFollowAllocation: true,

		MacroUpTh:        3,
		MacroDownTh:      -3,
		MacroUpAdd:       0.10,
		MacroDownCut:     0.15,
		MacroSmoothSpan:  10,
		MacroTrendWindow: 20,
		MacroLagDays:     1,

		FastWindow: 20,
		MidWindow:  60,
		LongWindow: 120,

		MidBandLow:          40,
		MidBandHigh:         60,
		MidFloorRatio:       0.95,
		RecoverLowThreshold: 40,
		RecoverLookback:     30,
		RecoverSlopeFastTh:  1.0,
		RecoverBoost:        0.25,
		ParallelBullBoost:   0.20,
		BreakCapCrypto:      0.25,
		BreakCapOther:       0.25,
		ExtremeHighTrim:     0.85,
		ExtremeLowTrim:      0.75,
		ForceMaxOnBullStack: true,

		ShockDropPct:     0.08,
		ShockRetainRatio: 0.5,

		ShortLeverage:     0.5,
		ShortMinRiskCount: 2,
		HedgeSizeWeak:     0.35,
		HedgeSizeStrong:   0.70,
		HedgeSizeEarly:    0.20,
		LongBiasMin:       0.25,

		EventHedgeFraction:       1.0 / 3.0,
		EventHedgeLeverage:       2.0,
		EventHedgeHoldDays:       2,
		EventHedgeTakeProfitDrop: 0.20,
		EventHedgeCapRatio:       1.0,

		RebalanceMode: RebalanceWeekly,
		MinHoldDays:   10,
		TradeBuffer:   0.15,
		PositionStep:  0.10,

		CostScale:         1.0,
		SlippageVolWindow: 20,
		SlippageMult:      0.30,
		FundingBpsDaily:   1.0,
		RiskFreeRate:      0.04,
	}
}

func (c StrategyConfig) thresholds() []float64 {
	return []float64{c.Th1, c.Th2, c.Th3, c.Th4, c.Th5}
}

type namedFloat struct {
	name  string
	value float64
}

// floatFields lists every float tunable by its yaml key. optional fields
// are only listed when set
func (c StrategyConfig) floatFields() []namedFloat {
	out := []namedFloat{
		{"th1", c.Th1},
		{"th2", c.Th2},
		{"th3", c.Th3},
		{"th4", c.Th4},
		{"th5", c.Th5},
		{"base_risk_off", c.BaseRiskOff},
		{"base_caution", c.BaseCaution},
		{"base_neutral", c.BaseNeutral},
		{"base_risk_on", c.BaseRiskOn},
		{"max_leverage", c.MaxLeverage},
		{"reference_max_leverage", c.ReferenceMaxLeverage},
		{"macro_up_th", c.MacroUpTh},
		{"macro_down_th", c.MacroDownTh},
		{"macro_up_add", c.MacroUpAdd},
		{"macro_down_cut", c.MacroDownCut},
		{"mid_band_low", c.MidBandLow},
		{"mid_band_high", c.MidBandHigh},
		{"mid_floor_ratio", c.MidFloorRatio},
		{"recover_low_threshold", c.RecoverLowThreshold},
		{"recover_slope_fast_th", c.RecoverSlopeFastTh},
		{"recover_boost", c.RecoverBoost},
		{"parallel_bull_boost", c.ParallelBullBoost},
		{"break_cap_crypto", c.BreakCapCrypto},
		{"break_cap_other", c.BreakCapOther},
		{"extreme_high_trim", c.ExtremeHighTrim},
		{"extreme_low_trim", c.ExtremeLowTrim},
		{"shock_drop_pct", c.ShockDropPct},
		{"shock_retain_ratio", c.ShockRetainRatio},
		{"short_leverage", c.ShortLeverage},
		{"hedge_size_weak", c.HedgeSizeWeak},
		{"hedge_size_strong", c.HedgeSizeStrong},
		{"hedge_size_early", c.HedgeSizeEarly},
		{"long_bias_min", c.LongBiasMin},
		{"event_hedge_fraction", c.EventHedgeFraction},
		{"event_hedge_leverage", c.EventHedgeLeverage},
		{"event_hedge_takeprofit_drop", c.EventHedgeTakeProfitDrop},
		{"event_hedge_cap_ratio", c.EventHedgeCapRatio},
		{"trade_buffer", c.TradeBuffer},
		{"position_step", c.PositionStep},
		{"cost_scale", c.CostScale},
		{"slippage_mult", c.SlippageMult},
		{"funding_bps_daily", c.FundingBpsDaily},
		{"risk_free_rate", c.RiskFreeRate},
	}
	optional := []struct {
		name  string
		value *float64
	}{
		{"base_super", c.BaseSuper},
		{"short_score_threshold", c.ShortScoreThreshold},
		{"short_trigger_score", c.ShortTriggerScore},
		{"one_way_cost_bps", c.OneWayCostBps},
	}
	for _, o := range optional {
		if o.value != nil {
			out = append(out, namedFloat{o.name, *o.value})
		}
	}
	return out
}

// Validate rejects configs that cannot be repaired by clamping
func (c StrategyConfig) Validate() error {
	// clamping cannot repair NaN and an infinite value survives atLeast
	for _, f := range c.floatFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s=%v must be finite", ErrInvalidConfig, f.name, f.value)
		}
	}

	ths := c.thresholds()
	for i, th := range ths {
		if math.IsNaN(th) || th < 0 || th > 100 {
			return fmt.Errorf("%w: th%d=%v must be within [0, 100]", ErrInvalidConfig, i+1, th)
		}
		if i > 0 && th <= ths[i-1] {
			return fmt.Errorf("%w: thresholds must be strictly ascending, got th%d=%v <= th%d=%v", ErrInvalidConfig, i+1, th, i, ths[i-1])
		}
	}
	switch c.RebalanceMode {
	case RebalanceDaily, RebalanceWeekly, RebalanceMonthly:
	default:
		return fmt.Errorf("%w: unknown rebalance mode %q", ErrInvalidConfig, c.RebalanceMode)
	}
	if c.FastWindow < 1 || c.MidWindow < 1 || c.LongWindow < 1 {
		return fmt.Errorf("%w: moving average windows must be positive", ErrInvalidConfig)
	}
	if c.MidBandLow > c.MidBandHigh {
		return fmt.Errorf("%w: mid band low %v above high %v", ErrInvalidConfig, c.MidBandLow, c.MidBandHigh)
	}
	return nil
}

type normalizer struct {
	notes []string
}

func (n *normalizer) clamp(name string, v *float64, lo, hi float64) {
	out := math.Min(hi, math.Max(lo, *v))
	if out != *v {
		n.notes = append(n.notes, fmt.Sprintf("%s=%v clamped to %v", name, *v, out))
		*v = out
	}
}

func (n *normalizer) atLeast(name string, v *float64, lo float64) {
	n.clamp(name, v, lo, math.Inf(1))
}

func (n *normalizer) clampInt(name string, v *int, lo, hi int) {
	out := *v
	if out < lo {
		out = lo
	}
	if out > hi {
		out = hi
	}
	if out != *v {
		n.notes = append(n.notes, fmt.Sprintf("%s=%d clamped to %d", name, *v, out))
		*v = out
	}
}

func (n *normalizer) abs(name string, v *float64) {
	if *v < 0 {
		n.notes = append(n.notes, fmt.Sprintf("%s=%v replaced by its absolute value", name, *v))
		*v = math.Abs(*v)
	}
}

// Normalize clamps every tunable into its safe range. each adjustment
// is returned as a human readable note so callers can log it
func (c StrategyConfig) Normalize() (StrategyConfig, []string) {
	n := &normalizer{notes: []string{}}
	out := c

	n.clamp("max_leverage", &out.MaxLeverage, 1, 2)
	n.atLeast("reference_max_leverage", &out.ReferenceMaxLeverage, 1)

	n.clampInt("macro_smooth_span", &out.MacroSmoothSpan, 1, math.MaxInt32)
	n.clampInt("macro_trend_window", &out.MacroTrendWindow, 5, math.MaxInt32)
	n.clampInt("macro_lag_days", &out.MacroLagDays, 0, 10)

	n.clamp("mid_floor_ratio", &out.MidFloorRatio, 0, 1.2)
	n.clampInt("recover_lookback", &out.RecoverLookback, 5, math.MaxInt32)
	n.atLeast("recover_boost", &out.RecoverBoost, 0)
	n.clamp("break_cap_crypto", &out.BreakCapCrypto, 0, out.MaxLeverage)
	n.clamp("break_cap_other", &out.BreakCapOther, 0, out.MaxLeverage)
	n.clamp("extreme_high_trim", &out.ExtremeHighTrim, 0.1, 1)
	n.clamp("extreme_low_trim", &out.ExtremeLowTrim, 0.1, 1)

	n.abs("shock_drop_pct", &out.ShockDropPct)
	n.clamp("shock_retain_ratio", &out.ShockRetainRatio, 0, 1)

	n.atLeast("short_leverage", &out.ShortLeverage, 0)
	n.clampInt("short_min_risk_count", &out.ShortMinRiskCount, 1, math.MaxInt32)
	n.clamp("hedge_size_weak", &out.HedgeSizeWeak, 0, 1)
	n.clamp("hedge_size_strong", &out.HedgeSizeStrong, 0, 1)
	n.clamp("hedge_size_early", &out.HedgeSizeEarly, 0, 1)

	n.clamp("event_hedge_fraction", &out.EventHedgeFraction, 0, 1)
	n.clamp("event_hedge_leverage", &out.EventHedgeLeverage, 0, 3)
	n.clampInt("event_hedge_hold_days", &out.EventHedgeHoldDays, 1, 2)
	n.abs("event_hedge_takeprofit_drop", &out.EventHedgeTakeProfitDrop)
	n.clamp("event_hedge_cap_ratio", &out.EventHedgeCapRatio, 0.2, 2)

	n.clampInt("min_hold_days", &out.MinHoldDays, 0, math.MaxInt32)
	n.atLeast("trade_buffer", &out.TradeBuffer, 0)
	n.atLeast("position_step", &out.PositionStep, 0.05)

	if out.OneWayCostBps != nil {
		bps := *out.OneWayCostBps
		n.atLeast("one_way_cost_bps", &bps, 0)
		out.OneWayCostBps = &bps
	}
	n.clamp("cost_scale", &out.CostScale, 0.5, 2)
	n.clampInt("slippage_vol_window", &out.SlippageVolWindow, 5, math.MaxInt32)
	n.atLeast("slippage_mult", &out.SlippageMult, 0)
	n.atLeast("funding_bps_daily", &out.FundingBpsDaily, 0)

	return out, n.notes
}
