package calculator

import (
	"macrobacktest/internal/domain"
	"macrobacktest/internal/util"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRebalanceEvents(t *testing.T) {
	start := util.NewDate(2024, 3, 1)
	positions := newPositions(start, []row{
		{0, 10, 50, domain.SignalCash},
		{1, 10, 50, domain.SignalAttack},
		{1 + 1e-12, 10, 50, domain.SignalAttack},
		{-0.3, 10, 50, domain.SignalHedgeShort},
	})
	positions[3].Regime = 22

	expected := []domain.RebalanceEvent{
		{
			Date:         start.AddDate(0, 0, 1),
			PrevPosition: 0,
			NewPosition:  1,
			Delta:        1,
			Signal:       domain.SignalAttack,
		},
		{
			Date:         start.AddDate(0, 0, 3),
			PrevPosition: 1 + 1e-12,
			NewPosition:  -0.3,
			Delta:        -1.3 - 1e-12,
			Regime:       22,
			Signal:       domain.SignalHedgeShort,
		},
	}

	require.Equal(t, "", cmp.Diff(expected, RebalanceEvents(positions), floatOpts...))
}
