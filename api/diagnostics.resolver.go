package api

import (
	l3_service "macrobacktest/internal/service/l3"

	"github.com/gin-gonic/gin"
)

type DiagnosticsRequest struct {
	Symbol         string         `json:"symbol"`
	Series         []seriesRowDto `json:"series"`
	Start          string         `json:"start"`
	End            string         `json:"end"`
	ShockThreshold float64        `json:"shockThreshold"`
}

func (m ApiHandler) diagnostics(c *gin.Context) {
	var requestBody DiagnosticsRequest
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		returnErrorJsonCode(err, c, 400)
		return
	}

	in := l3_service.DiagnosticsInput{
		Symbol:         requestBody.Symbol,
		ShockThreshold: requestBody.ShockThreshold,
	}
	var err error
	if in.Start, err = parseOptionalDate(requestBody.Start); err != nil {
		returnErrorJson(err, c)
		return
	}
	if in.End, err = parseOptionalDate(requestBody.End); err != nil {
		returnErrorJson(err, c)
		return
	}
	if len(requestBody.Series) > 0 {
		if in.Series, err = seriesFromRows(requestBody.Series); err != nil {
			returnErrorJson(err, c)
			return
		}
	}

	result, err := m.BacktestService.Diagnose(c, in)
	if err != nil {
		returnErrorJson(err, c)
		return
	}

	c.JSON(200, diagnosticsDto{
		ShockForward: newShockForwardDtos(result.ShockForward),
		LeadLag:      newLeadLagDtos(result.LeadLag),
	})
}
