package domain

import "fmt"

// TrendState is the price structure classification of a single day
type TrendState int

const (
	TrendFlatBullish TrendState = iota
	TrendStrong
	TrendUp
	TrendWeak
	TrendBreak
)

func (t TrendState) String() string {
	switch t {
	case TrendStrong:
		return "strong"
	case TrendUp:
		return "up"
	case TrendFlatBullish:
		return "flat-bullish"
	case TrendWeak:
		return "weak"
	case TrendBreak:
		return "break"
	}
	return fmt.Sprintf("TrendState(%d)", int(t))
}

func (t TrendState) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Bucket is the trend component of the cycle state id
func (t TrendState) Bucket() int {
	switch t {
	case TrendBreak:
		return 0
	case TrendWeak:
		return 1
	case TrendStrong:
		return 4
	case TrendUp, TrendFlatBullish:
		return 2
	}
	return 2
}

// BearSignal is the strongest matching hedge trigger of a day
type BearSignal int

const (
	BearNone BearSignal = iota
	BearEarly
	BearWeak
	BearStrong
)

func (b BearSignal) String() string {
	switch b {
	case BearNone:
		return "none"
	case BearEarly:
		return "early"
	case BearWeak:
		return "weak"
	case BearStrong:
		return "strong"
	}
	return fmt.Sprintf("BearSignal(%d)", int(b))
}

func (b BearSignal) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

type HedgeMode string

const (
	HedgeModeNone      HedgeMode = "none"
	HedgeModeRiskCount HedgeMode = "risk-count"
	HedgeModeEvent     HedgeMode = "event"
)

type SignalLabel string

const (
	SignalHedgeShort      SignalLabel = "hedge-short"
	SignalLeveragedAttack SignalLabel = "leveraged-attack"
	SignalAttack          SignalLabel = "attack"
	SignalDefend          SignalLabel = "defend"
	SignalProbe           SignalLabel = "probe"
	SignalCash            SignalLabel = "cash"
)

// LabelSignal names the adopted exposure of a day
func LabelSignal(longLeg, hedgeLeg, maxLeverage float64) SignalLabel {
	switch {
	case hedgeLeg < -0.05:
		return SignalHedgeShort
	case longLeg >= min(maxLeverage, 1.2):
		return SignalLeveragedAttack
	case longLeg >= 0.9:
		return SignalAttack
	case longLeg >= 0.45:
		return SignalDefend
	case longLeg > 0:
		return SignalProbe
	}
	return SignalCash
}
