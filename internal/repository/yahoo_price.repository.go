package repository

import (
	"context"
	"fmt"
	"macrobacktest/internal/domain"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// YahooPriceRepository pulls daily adjusted closes from yahoo finance
type YahooPriceRepository interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) ([]domain.SeriesPoint, error)
}

type yahooPriceRepositoryHandler struct{}

func NewYahooPriceRepository() YahooPriceRepository {
	return yahooPriceRepositoryHandler{}
}

func (h yahooPriceRepositoryHandler) Fetch(ctx context.Context, symbol string, start, end time.Time) ([]domain.SeriesPoint, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	out := []domain.SeriesPoint{}
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bar := iter.Bar()
		ts := time.Unix(int64(bar.Timestamp), 0).UTC()
		out = append(out, domain.SeriesPoint{
			Date:  time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Value: bar.AdjClose.InexactFloat64(),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to get prices for %s: %w", symbol, err)
	}

	return out, nil
}
