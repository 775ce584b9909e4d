package api

import (
	"macrobacktest/internal/domain"

	"github.com/gin-gonic/gin"
)

type symbolResponse struct {
	Symbol string              `json:"symbol"`
	Asset  domain.AssetProfile `json:"asset"`
}

// listSymbols is every symbol with stored prices, resolved against the
// asset registry so the client knows which trend rules will apply
func (m ApiHandler) listSymbols(c *gin.Context) {
	symbols, err := m.SeriesService.ListSymbols(c)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	out := make([]symbolResponse, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, symbolResponse{
			Symbol: s,
			Asset:  domain.LookupAsset(s),
		})
	}
	c.JSON(200, out)
}
