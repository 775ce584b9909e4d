package api

import (
	"macrobacktest/internal/domain"

	"github.com/gin-gonic/gin"
)

type presetResponse struct {
	Name   string                `json:"name"`
	Config domain.StrategyConfig `json:"config"`
}

type listPresetsResponse struct {
	Presets []presetResponse      `json:"presets"`
	Assets  []domain.AssetProfile `json:"assets"`
}

func (m ApiHandler) listPresets(c *gin.Context) {
	out := listPresetsResponse{
		Presets: []presetResponse{},
		Assets:  domain.KnownAssets(),
	}
	for _, name := range append([]string{""}, domain.PresetNames()...) {
		cfg, err := domain.PresetConfig(name)
		if err != nil {
			returnErrorJson(err, c)
			return
		}
		if name == "" {
			name = "default"
		}
		out.Presets = append(out.Presets, presetResponse{
			Name:   name,
			Config: cfg,
		})
	}

	c.JSON(200, out)
}
