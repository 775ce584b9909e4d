package api

import (
	"fmt"
	"macrobacktest/internal/domain"
	l1_service "macrobacktest/internal/service/l1"
	"time"

	"github.com/gin-gonic/gin"
)

type UpdatePricesRequest struct {
	Symbols []string `json:"symbols"`
	Start   string   `json:"start"`
	End     string   `json:"end"`
}

// DefaultIngestInput covers every built-in asset over the trailing
// lookback window ending today
func DefaultIngestInput(lookbackDays int) l1_service.IngestPricesInput {
	end := time.Now().UTC()
	symbols := []string{}
	for _, a := range domain.KnownAssets() {
		symbols = append(symbols, a.Symbol)
	}
	return l1_service.IngestPricesInput{
		Symbols: symbols,
		Start:   end.AddDate(0, 0, -lookbackDays),
		End:     end,
	}
}

func (m ApiHandler) updatePrices(c *gin.Context) {
	var requestBody UpdatePricesRequest
	// an empty body means "the usual nightly ingest"
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			returnErrorJsonCode(err, c, 400)
			return
		}
	}

	in := DefaultIngestInput(max(m.IngestLookbackDays, 1))
	if len(requestBody.Symbols) > 0 {
		in.Symbols = requestBody.Symbols
	}
	start, err := parseOptionalDate(requestBody.Start)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if !start.IsZero() {
		in.Start = start
	}
	end, err := parseOptionalDate(requestBody.End)
	if err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}
	if !end.IsZero() {
		in.End = end
	}
	if in.End.Before(in.Start) {
		returnErrorJsonCode(fmt.Errorf("end date cannot be before start date"), c, 400)
		return
	}

	err = m.SeriesService.IngestPrices(c, in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, map[string]any{
		"message": "ok",
		"symbols": in.Symbols,
	})
}
