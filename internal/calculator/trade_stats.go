package calculator

import (
	"macrobacktest/internal/domain"
	"math"
	"strings"
)

type scoreBucket struct {
	label string
	upper float64
}

// entry score buckets, upper bound exclusive
var scoreBuckets = []scoreBucket{
	{label: "<20", upper: 20},
	{label: "20-40", upper: 40},
	{label: "40-60", upper: 60},
	{label: "60+", upper: math.Inf(1)},
}

func bucketFor(score float64) string {
	for _, b := range scoreBuckets {
		if score < b.upper {
			return b.label
		}
	}
	return scoreBuckets[len(scoreBuckets)-1].label
}

// PnLRatio is the average winning trade over the magnitude of the
// average losing trade. +Inf when nothing lost
func PnLRatio(trades []domain.Trade) float64 {
	if len(trades) == 0 {
		return math.NaN()
	}
	wins, losses := []float64{}, []float64{}
	for _, t := range trades {
		if t.PnL > 0 {
			wins = append(wins, t.PnL)
		} else if t.PnL < 0 {
			losses = append(losses, t.PnL)
		}
	}
	if len(losses) == 0 {
		return math.Inf(1)
	}
	avgWin := 0.0
	if len(wins) > 0 {
		avgWin = mean(wins)
	}
	avgLoss := math.Abs(mean(losses))
	if avgLoss == 0 {
		return math.Inf(1)
	}
	return avgWin / avgLoss
}

func groupStats(group string, trades []domain.Trade) domain.TradeGroupStats {
	out := domain.TradeGroupStats{
		Group:     group,
		Trades:    len(trades),
		PnLRatio:  PnLRatio(trades),
		AvgReturn: math.NaN(),
	}
	if len(trades) > 0 {
		pnl := make([]float64, len(trades))
		for i, t := range trades {
			pnl[i] = t.PnL
		}
		out.AvgReturn = mean(pnl)
	}
	return out
}

// SummarizeTrades groups closed and floating trades by the mode they were
// opened in and by entry score
func SummarizeTrades(trades []domain.Trade) domain.TradeStats {
	byMode := map[string][]domain.Trade{}
	modeOrder := []string{}
	byScore := map[string][]domain.Trade{}

	for _, t := range trades {
		mode := strings.TrimSuffix(t.Mode, holdSuffix)
		if _, ok := byMode[mode]; !ok {
			modeOrder = append(modeOrder, mode)
		}
		byMode[mode] = append(byMode[mode], t)

		bucket := bucketFor(t.EntryScore)
		byScore[bucket] = append(byScore[bucket], t)
	}

	out := domain.TradeStats{
		Trades:   len(trades),
		PnLRatio: PnLRatio(trades),
		ByMode:   []domain.TradeGroupStats{},
		ByScore:  []domain.TradeGroupStats{},
	}
	for _, mode := range modeOrder {
		out.ByMode = append(out.ByMode, groupStats(mode, byMode[mode]))
	}
	for _, b := range scoreBuckets {
		out.ByScore = append(out.ByScore, groupStats(b.label, byScore[b.label]))
	}

	return out
}
