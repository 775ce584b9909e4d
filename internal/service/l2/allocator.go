package l2_service

import (
	"macrobacktest/internal/domain"
	l1_service "macrobacktest/internal/service/l1"
	"math"
)

/**

the allocator answers two questions per day: how much risk the macro
environment is worth (macro target) and how much of that the price
structure confirms (long target). overlays run in a fixed order and
each one sees the output of the previous one

*/

type AllocationInput struct {
	Prices []float64
	Regime l1_service.RegimeSeries
	Trend  l1_service.TrendSeries
	Params *domain.StrategyParams
}

type AllocationResult struct {
	MacroTarget     []float64
	TrendMultiplier []float64
	LongTarget      []float64

	MidBandFloor  []bool
	EarlyRecovery []bool
	BullStackMax  []bool
	ShockTrigger  []bool
}

// MacroBase is the tiered allocation for a regime level
func MacroBase(p *domain.StrategyParams, regime float64) float64 {
	c := p.Config
	switch {
	case regime >= c.Th5:
		return p.BaseSuper
	case regime >= c.Th4:
		return p.BaseRiskOn
	case regime >= c.Th3:
		return p.BaseNeutral
	case regime >= c.Th2:
		return p.BaseCaution
	}
	return p.BaseRiskOff
}

// SlopeAdjustment rewards a rising regime and penalizes a falling one
func SlopeAdjustment(p *domain.StrategyParams, slope float64) float64 {
	switch {
	case slope >= p.Config.MacroUpTh:
		return p.MacroUpAdd
	case slope <= p.Config.MacroDownTh:
		return -p.MacroDownCut
	}
	return 0
}

func MacroTarget(p *domain.StrategyParams, regime, slope float64) float64 {
	return clip(MacroBase(p, regime)+SlopeAdjustment(p, slope), 0, p.Config.MaxLeverage)
}

// dayState is everything the overlays read for a single row
type dayState struct {
	price       float64
	fastMA      float64
	regime      float64
	fastSlope   float64
	trend       domain.TrendState
	neutral     bool
	bullStack   bool
	fastRising  bool
	fastReclaim bool
	recentLow   bool
	shock       bool
}

type dayAllocation struct {
	trendMult     float64
	longTarget    float64
	midBandFloor  bool
	earlyRecovery bool
	bullStackMax  bool
}

func (d dayState) strong() bool {
	return d.trend == domain.TrendStrong && !d.neutral
}

func (d dayState) broken() bool {
	return d.trend == domain.TrendBreak && !d.neutral
}

// applyOverlays runs the overlay chain for one day on top of the macro
// target. a NaN fast average switches off every rule that reads it
func applyOverlays(p *domain.StrategyParams, macroTarget float64, d dayState) dayAllocation {
	c := p.Config
	maxLev := c.MaxLeverage
	out := dayAllocation{
		trendMult: clip(p.Trend.Multipliers.For(d.trend, d.neutral), 0, 1),
	}
	target := clip(macroTarget*out.trendMult, 0, maxLev)

	// mid band floor
	midBand := d.regime >= c.MidBandLow && d.regime <= c.MidBandHigh
	out.midBandFloor = midBand && d.price > d.fastMA && d.fastRising
	if out.midBandFloor {
		target = math.Max(target, clip(macroTarget*c.MidFloorRatio, 0, maxLev))
	}

	// early recovery boost
	recoverFast := d.fastSlope >= c.RecoverSlopeFastTh && d.recentLow
	out.earlyRecovery = out.midBandFloor && (recoverFast || d.fastReclaim)
	if out.earlyRecovery {
		target = math.Min(maxLev, target+p.RecoverBoost)
	}

	// quick add on parallel strength
	if d.strong() && d.regime >= c.Th3 && d.fastSlope > 0 {
		target = math.Min(maxLev, target+p.QuickAdd)
	}

	// break cap
	if d.broken() && d.regime < c.Th2 {
		target = math.Min(target, p.BreakCap)
	}

	// extreme trims
	if d.regime >= c.Th4 && d.fastSlope <= 0 {
		target *= c.ExtremeHighTrim
	}
	if d.regime <= c.Th2 && d.price < d.fastMA {
		target *= c.ExtremeLowTrim
	}

	// bull stack override
	out.bullStackMax = c.ForceMaxOnBullStack && d.bullStack
	if out.bullStackMax {
		target = maxLev
	}
	target = clip(target, 0, maxLev)

	// shock cut
	if p.ShockActive && d.shock {
		target = clip(target*c.ShockRetainRatio, 0, maxLev)
	}

	out.longTarget = target
	return out
}

// ShockTriggers flags days whose simple return is at or below -drop.
// the first day never triggers
func ShockTriggers(prices []float64, drop float64) []bool {
	out := make([]bool, len(prices))
	for i, r := range l1_service.PctChange(prices) {
		if i == 0 || math.IsNaN(r) {
			continue
		}
		out[i] = r <= -drop
	}
	return out
}

func Allocate(in AllocationInput) AllocationResult {
	p := in.Params
	n := len(in.Prices)

	out := AllocationResult{
		MacroTarget:     make([]float64, n),
		TrendMultiplier: make([]float64, n),
		LongTarget:      make([]float64, n),
		MidBandFloor:    make([]bool, n),
		EarlyRecovery:   make([]bool, n),
		BullStackMax:    make([]bool, n),
		ShockTrigger:    ShockTriggers(in.Prices, p.Config.ShockDropPct),
	}

	recentMin := l1_service.RollingMin(in.Regime.Regime, p.Config.RecoverLookback)

	for i := 0; i < n; i++ {
		macro := MacroTarget(p, in.Regime.Regime[i], in.Regime.Slope[i])
		day := applyOverlays(p, macro, dayState{
			price:       in.Prices[i],
			fastMA:      in.Trend.Fast[i],
			regime:      in.Regime.Regime[i],
			fastSlope:   in.Regime.FastSlope[i],
			trend:       in.Trend.State[i],
			neutral:     in.Trend.Neutral[i],
			bullStack:   in.Trend.BullStackFull[i],
			fastRising:  in.Trend.FastRising[i],
			fastReclaim: in.Trend.FastReclaim[i],
			recentLow:   recentMin[i] <= p.Config.RecoverLowThreshold,
			shock:       out.ShockTrigger[i],
		})

		out.MacroTarget[i] = macro
		out.TrendMultiplier[i] = day.trendMult
		out.LongTarget[i] = day.longTarget
		out.MidBandFloor[i] = day.midBandFloor
		out.EarlyRecovery[i] = day.earlyRecovery
		out.BullStackMax[i] = day.bullStackMax
	}

	return out
}

func clip(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
