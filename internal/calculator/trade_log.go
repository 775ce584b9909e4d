package calculator

import (
	"macrobacktest/internal/domain"
)

// floating trades keep the mode they were opened with plus this suffix
const holdSuffix = " (hold)"

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

type openTrade struct {
	side  int
	index int
	price float64
	score float64
	mode  string
}

func openAt(positions []domain.PositionRecord, i, side int) openTrade {
	// what was known when the decision was made, one row before the
	// position earns anything
	sig := max(0, i-1)
	return openTrade{
		side:  side,
		index: i,
		price: positions[i].Price,
		score: positions[sig].Score,
		mode:  string(positions[sig].Signal),
	}
}

func (o openTrade) close(positions []domain.PositionRecord, exitIndex int, exitPrice float64, floating bool) domain.Trade {
	pnl := (exitPrice - o.price) / o.price
	if o.side < 0 {
		pnl = -pnl
	}
	t := domain.Trade{
		Side:       o.side,
		Mode:       o.mode,
		EntryIndex: o.index,
		ExitIndex:  exitIndex,
		EntryDate:  positions[o.index].Date,
		EntryScore: o.score,
		EntryPrice: o.price,
		ExitPrice:  exitPrice,
		PnL:        pnl,
		Result:     domain.TradeLoss,
	}
	if pnl > 0 {
		t.Result = domain.TradeWin
	}
	if floating {
		t.Mode += holdSuffix
		t.Result = domain.TradeFloating
	} else {
		exitDate := positions[exitIndex].Date
		t.ExitDate = &exitDate
	}
	return t
}

// ExtractTrades walks the realized position and emits one trade per
// contiguous non-flat run of the same sign. a direct flip closes and
// reopens on the same row. ExitIndex is exclusive, so trades that are
// still open at the end run to len(positions)
func ExtractTrades(positions []domain.PositionRecord) []domain.Trade {
	trades := []domain.Trade{}
	var current *openTrade

	prevSide := 0
	for i, p := range positions {
		side := sign(p.RealizedPosition)

		if current != nil && side != prevSide {
			trades = append(trades, current.close(positions, i, p.Price, false))
			current = nil
		}
		if current == nil && side != 0 {
			o := openAt(positions, i, side)
			current = &o
		}
		prevSide = side
	}

	if current != nil {
		last := len(positions) - 1
		trades = append(trades, current.close(positions, len(positions), positions[last].Price, true))
	}

	return trades
}
