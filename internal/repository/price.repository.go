package repository

import (
	"database/sql"
	"fmt"
	"macrobacktest/internal/db/models/postgres/public/model"
	. "macrobacktest/internal/db/models/postgres/public/table"
	"macrobacktest/internal/domain"
	"time"

	. "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/shopspring/decimal"
)

type PriceRepository interface {
	Add(tx *sql.Tx, symbol string, prices []domain.SeriesPoint) error
	List(db qrm.Queryable, symbol string, start, end time.Time) ([]domain.SeriesPoint, error)
	ListSymbols(db qrm.Queryable) ([]string, error)
}

type priceRepositoryHandler struct{}

func NewPriceRepository() PriceRepository {
	return priceRepositoryHandler{}
}

func (h priceRepositoryHandler) Add(tx *sql.Tx, symbol string, prices []domain.SeriesPoint) error {
	if len(prices) == 0 {
		return nil
	}
	models := make([]model.AssetPrice, 0, len(prices))
	for _, p := range prices {
		models = append(models, model.AssetPrice{
			Symbol: symbol,
			Date:   p.Date,
			Price:  decimal.NewFromFloat(p.Value),
		})
	}

	query := AssetPrice.
		INSERT(
			AssetPrice.Symbol,
			AssetPrice.Date,
			AssetPrice.Price,
		).
		MODELS(models).
		ON_CONFLICT(
			AssetPrice.Symbol, AssetPrice.Date,
		).DO_UPDATE(
		SET(
			AssetPrice.Price.SET(AssetPrice.EXCLUDED.Price),
		),
	)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add prices for %s to db: %w", symbol, err)
	}

	return nil
}

func (h priceRepositoryHandler) List(db qrm.Queryable, symbol string, start, end time.Time) ([]domain.SeriesPoint, error) {
	query := AssetPrice.
		SELECT(AssetPrice.AllColumns).
		WHERE(
			AND(
				AssetPrice.Symbol.EQ(String(symbol)),
				AssetPrice.Date.BETWEEN(DateT(start), DateT(end)),
			),
		).
		ORDER_BY(AssetPrice.Date.ASC())

	result := []model.AssetPrice{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", symbol, err)
	}

	out := make([]domain.SeriesPoint, 0, len(result))
	for _, p := range result {
		out = append(out, domain.SeriesPoint{
			Date:  p.Date,
			Value: p.Price.InexactFloat64(),
		})
	}

	return out, nil
}

func (h priceRepositoryHandler) ListSymbols(db qrm.Queryable) ([]string, error) {
	query := AssetPrice.
		SELECT(AssetPrice.Symbol).
		DISTINCT().
		ORDER_BY(AssetPrice.Symbol.ASC())

	result := []struct {
		model.AssetPrice
	}{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}

	out := []string{}
	for _, r := range result {
		out = append(out, r.Symbol)
	}
	return out, nil
}
