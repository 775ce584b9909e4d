package domain

import (
	"fmt"
	"math"
)

// TrendMultipliers maps each trend state to the share of the macro
// target that gets executed. Neutral covers the warmup period and days
// where price sits exactly on the long average
type TrendMultipliers struct {
	Strong      float64 `json:"strong"`
	Up          float64 `json:"up"`
	FlatBullish float64 `json:"flatBullish"`
	Break       float64 `json:"break"`
	Weak        float64 `json:"weak"`
	Neutral     float64 `json:"neutral"`
}

func (m TrendMultipliers) For(state TrendState, neutral bool) float64 {
	if neutral {
		return m.Neutral
	}
	switch state {
	case TrendStrong:
		return m.Strong
	case TrendUp:
		return m.Up
	case TrendFlatBullish:
		return m.FlatBullish
	case TrendBreak:
		return m.Break
	case TrendWeak:
		return m.Weak
	}
	return m.Neutral
}

var (
	cryptoTrendMultipliers = TrendMultipliers{Strong: 1.00, Up: 0.92, FlatBullish: 0.78, Break: 0.20, Weak: 0.42, Neutral: 0.60}
	otherTrendMultipliers  = TrendMultipliers{Strong: 1.00, Up: 0.90, FlatBullish: 0.72, Break: 0.20, Weak: 0.40, Neutral: 0.58}
)

type TrendParams struct {
	Exponential bool             `json:"exponential"`
	FastWindow  int              `json:"fastWindow"`
	MidWindow   int              `json:"midWindow"`
	LongWindow  int              `json:"longWindow"`
	Multipliers TrendMultipliers `json:"multipliers"`
}

// StrategyParams is a normalized config resolved against one asset.
// every value the engine reads per row is precomputed here
type StrategyParams struct {
	Config StrategyConfig `json:"config"`
	Asset  AssetProfile   `json:"asset"`
	Trend  TrendParams    `json:"trend"`

	LeverageScale float64 `json:"leverageScale"`
	BaseSuper     float64 `json:"baseSuper"`
	BaseRiskOn    float64 `json:"baseRiskOn"`
	BaseNeutral   float64 `json:"baseNeutral"`
	BaseCaution   float64 `json:"baseCaution"`
	BaseRiskOff   float64 `json:"baseRiskOff"`
	MacroUpAdd    float64 `json:"macroUpAdd"`
	MacroDownCut  float64 `json:"macroDownCut"`
	RecoverBoost  float64 `json:"recoverBoost"`
	QuickAdd      float64 `json:"quickAdd"`
	BreakCap      float64 `json:"breakCap"`
	ShockActive   bool    `json:"shockActive"`

	HedgeMode           HedgeMode `json:"hedgeMode"`
	ShortNotional       float64   `json:"shortNotional"`
	ShortScoreThreshold float64   `json:"shortScoreThreshold"`
	ShortTriggerScore   float64   `json:"shortTriggerScore"`
	LongBiasMin         float64   `json:"longBiasMin"`

	FeeRate       float64 `json:"feeRate"`
	FundingRate   float64 `json:"fundingRate"`
	RiskFreeDaily float64 `json:"riskFreeDaily"`
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// NewStrategyParams validates and normalizes cfg, then resolves it for
// the given asset. normalization notes are returned for logging
func NewStrategyParams(cfg StrategyConfig, asset AssetProfile) (*StrategyParams, []string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	c, notes := cfg.Normalize()

	maxLev := c.MaxLeverage
	scale := 1.0
	if c.LeverageFollowAllocation {
		scale = maxLev / c.ReferenceMaxLeverage
	}
	scaledBase := func(v float64) float64 {
		return math.Min(maxLev, math.Max(0, v*scale))
	}
	baseSuper := maxLev
	if c.BaseSuper != nil {
		baseSuper = *c.BaseSuper
	}

	p := &StrategyParams{
		Config:        c,
		Asset:         asset,
		LeverageScale: scale,
		BaseSuper:     scaledBase(baseSuper),
		BaseRiskOn:    scaledBase(c.BaseRiskOn),
		BaseNeutral:   scaledBase(c.BaseNeutral),
		BaseCaution:   scaledBase(c.BaseCaution),
		BaseRiskOff:   scaledBase(c.BaseRiskOff),
		MacroUpAdd:    c.MacroUpAdd * scale,
		MacroDownCut:  c.MacroDownCut * scale,
		RecoverBoost:  c.RecoverBoost * scale,
		QuickAdd:      c.ParallelBullBoost * scale,
		BreakCap:      c.BreakCapOther,
		ShockActive:   c.ShockEnabled && asset.ShockSensitive,
		LongBiasMin:   clip(c.LongBiasMin*scale, 0, maxLev),
		FundingRate:   c.FundingBpsDaily / 10000,
		RiskFreeDaily: c.RiskFreeRate / 252,
		HedgeMode:     HedgeModeNone,
		Trend: TrendParams{
			Exponential: asset.IsCrypto(),
			FastWindow:  c.FastWindow,
			MidWindow:   c.MidWindow,
			LongWindow:  c.LongWindow,
			Multipliers: otherTrendMultipliers,
		},
	}
	if asset.IsCrypto() {
		p.BreakCap = c.BreakCapCrypto
		p.Trend.Multipliers = cryptoTrendMultipliers
	}

	p.ShortScoreThreshold = c.Th1
	if c.ShortScoreThreshold != nil {
		p.ShortScoreThreshold = *c.ShortScoreThreshold
	}
	p.ShortTriggerScore = c.Th2
	if c.ShortTriggerScore != nil {
		p.ShortTriggerScore = *c.ShortTriggerScore
	}

	eventMode := c.EventHedgeEnabled && asset.ShockSensitive
	switch {
	case eventMode:
		p.HedgeMode = HedgeModeEvent
		p.ShortNotional = math.Min(c.ShortLeverage, 3.0)
	case c.AllowShort && asset.Shortable:
		p.HedgeMode = HedgeModeRiskCount
		p.ShortNotional = math.Min(c.ShortLeverage, maxLev)
	}
	if c.AllowShort && !asset.Shortable && !eventMode {
		notes = append(notes, fmt.Sprintf("allow_short ignored: %s is not shortable", asset.Symbol))
	}

	bps := asset.DefaultCostBps * c.CostScale
	if c.OneWayCostBps != nil {
		bps = *c.OneWayCostBps
	}
	p.FeeRate = bps / 10000

	return p, notes, nil
}

// ShortFloor is the lowest target the engine may hold
func (p StrategyParams) ShortFloor() float64 {
	if p.HedgeMode == HedgeModeRiskCount {
		return -p.ShortNotional
	}
	return 0
}

// RegimeBucket is the regime component of the cycle state id
func (p StrategyParams) RegimeBucket(regime float64) int {
	c := p.Config
	switch {
	case regime < c.Th2:
		return 0
	case regime < c.Th3:
		return 1
	case regime < c.Th4:
		return 2
	case regime < c.Th5:
		return 3
	}
	return 4
}

func (p StrategyParams) CycleState(regime float64, trend TrendState) int {
	return p.RegimeBucket(regime)*10 + trend.Bucket()
}
