package config

import (
	"macrobacktest/internal/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStrategyConfig(t *testing.T) {
	t.Run("file keys override the preset", func(t *testing.T) {
		cfg, err := ParseStrategyConfig([]byte(`
preset: defensive
max_leverage: 1.8
rebalance_mode: weekly
one_way_cost_bps: 7
`), "")
		require.NoError(t, err)

		preset, err := domain.PresetConfig(domain.PresetDefensive)
		require.NoError(t, err)
		require.Equal(t, 1.8, cfg.MaxLeverage)
		require.Equal(t, domain.RebalanceWeekly, cfg.RebalanceMode)
		require.Equal(t, 7.0, *cfg.OneWayCostBps)
		// untouched keys keep the preset value
		require.Equal(t, preset.MinHoldDays, cfg.MinHoldDays)
		require.Equal(t, preset.BaseRiskOn, cfg.BaseRiskOn)
	})

	t.Run("argument wins over the file preset", func(t *testing.T) {
		cfg, err := ParseStrategyConfig([]byte("preset: defensive\n"), domain.PresetTrendFollowing)
		require.NoError(t, err)
		preset, err := domain.PresetConfig(domain.PresetTrendFollowing)
		require.NoError(t, err)
		require.Equal(t, preset, cfg)
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := ParseStrategyConfig([]byte("preset: yolo\n"), "")
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("thresholds out of order", func(t *testing.T) {
		_, err := ParseStrategyConfig([]byte("th1: 60\n"), "")
		require.ErrorIs(t, err, domain.ErrInvalidConfig)
	})

	t.Run("non-finite yaml values", func(t *testing.T) {
		for _, doc := range []string{
			"max_leverage: .nan\n",
			"trade_buffer: .inf\n",
			"macro_down_th: -.inf\n",
			"one_way_cost_bps: .nan\n",
		} {
			_, err := ParseStrategyConfig([]byte(doc), "")
			require.ErrorIs(t, err, domain.ErrInvalidConfig, doc)
			require.ErrorContains(t, err, "must be finite", doc)
		}
	})
}

func TestLoadStrategyConfig(t *testing.T) {
	path := writeFile(t, "strategy.yaml", "min_hold_days: 3\n")
	cfg, err := LoadStrategyConfig(path, "")
	require.NoError(t, err)
	require.Equal(t, 3, cfg.MinHoldDays)

	cfg, err = LoadStrategyConfig("", "")
	require.NoError(t, err)
	require.Equal(t, domain.DefaultStrategyConfig(), cfg)

	_, err = LoadStrategyConfig("/does/not/exist.yaml", "")
	require.Error(t, err)
}
