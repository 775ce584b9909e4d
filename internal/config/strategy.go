package config

import (
	"fmt"
	"macrobacktest/internal/domain"
	"os"

	"gopkg.in/yaml.v3"
)

type strategyFile struct {
	Preset string `yaml:"preset"`
}

// LoadStrategyConfig layers a yaml strategy file over a preset. keys
// missing from the file keep the preset's value. an explicit preset
// argument wins over the file's own preset key
func LoadStrategyConfig(path string, preset string) (domain.StrategyConfig, error) {
	if path == "" {
		return domain.PresetConfig(preset)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("failed to read strategy file %s: %w", path, err)
	}
	return ParseStrategyConfig(b, preset)
}

func ParseStrategyConfig(b []byte, preset string) (domain.StrategyConfig, error) {
	header := strategyFile{}
	if err := yaml.Unmarshal(b, &header); err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("%w: failed to parse strategy yaml: %v", domain.ErrInvalidConfig, err)
	}
	if preset == "" {
		preset = header.Preset
	}

	cfg, err := domain.PresetConfig(preset)
	if err != nil {
		return domain.StrategyConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return domain.StrategyConfig{}, fmt.Errorf("%w: failed to parse strategy yaml: %v", domain.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.StrategyConfig{}, err
	}
	return cfg, nil
}
