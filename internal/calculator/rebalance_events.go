package calculator

import (
	"macrobacktest/internal/domain"
	"math"
)

const positionChangeThreshold = 1e-9

// RebalanceEvents lists every row where the realized net position moved
func RebalanceEvents(positions []domain.PositionRecord) []domain.RebalanceEvent {
	out := []domain.RebalanceEvent{}
	prev := 0.0
	for _, p := range positions {
		delta := p.RealizedPosition - prev
		if math.Abs(delta) > positionChangeThreshold {
			out = append(out, domain.RebalanceEvent{
				Date:         p.Date,
				PrevPosition: prev,
				NewPosition:  p.RealizedPosition,
				Delta:        delta,
				Regime:       p.Regime,
				Signal:       p.Signal,
			})
		}
		prev = p.RealizedPosition
	}
	return out
}
