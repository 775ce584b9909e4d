package repository

import (
	"context"
	"database/sql"
	"fmt"
	"macrobacktest/internal/db/models/postgres/public/model"
	"macrobacktest/internal/db/models/postgres/public/table"
	"macrobacktest/internal/domain"
	"time"

	"github.com/go-jet/jet/v2/postgres"
)

// YieldCurveClient fetches a treasury curve for a day
type YieldCurveClient interface {
	GetYieldCurve(ctx context.Context, date time.Time) (domain.YieldCurve, error)
}

type InterestRateRepository interface {
	GetRatesOnDate(ctx context.Context, tx *sql.Tx, date time.Time) (*domain.YieldCurve, error)
	Add(tx *sql.Tx, curve domain.YieldCurve, date time.Time) error
}

type interestRateRepositoryHandler struct {
	Client YieldCurveClient
}

func NewInterestRateRepository(client YieldCurveClient) InterestRateRepository {
	return interestRateRepositoryHandler{Client: client}
}

// GetRatesOnDate reads the stored curve, falling back to the treasury
// api and caching what it returns
func (h interestRateRepositoryHandler) GetRatesOnDate(ctx context.Context, tx *sql.Tx, date time.Time) (*domain.YieldCurve, error) {
	query := table.InterestRate.
		SELECT(table.InterestRate.AllColumns).
		WHERE(
			table.InterestRate.Date.EQ(postgres.DateT(date)),
		)

	out := []model.InterestRate{}
	err := query.Query(tx, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to query interest rates on %s: %w", date.Format(time.DateOnly), err)
	}

	if len(out) == 0 {
		curve, err := h.Client.GetYieldCurve(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch yield curve: %w", err)
		}
		if err := h.Add(tx, curve, date); err != nil {
			return nil, err
		}
		return &curve, nil
	}

	curve := domain.YieldCurve{
		Rates: map[int]float64{},
	}
	for _, row := range out {
		curve.Rates[int(row.DurationMonths)] = row.InterestRate
	}

	return &curve, nil
}

func (h interestRateRepositoryHandler) Add(tx *sql.Tx, curve domain.YieldCurve, date time.Time) error {
	if len(curve.Rates) == 0 {
		return nil
	}
	models := []model.InterestRate{}
	for duration, rate := range curve.Rates {
		models = append(models, model.InterestRate{
			Date:           date,
			DurationMonths: int32(duration),
			InterestRate:   rate,
		})
	}
	query := table.InterestRate.
		INSERT(
			table.InterestRate.Date,
			table.InterestRate.DurationMonths,
			table.InterestRate.InterestRate,
		).
		MODELS(models).
		ON_CONFLICT(table.InterestRate.Date, table.InterestRate.DurationMonths).
		DO_NOTHING()

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add interest rates: %w", err)
	}

	return nil
}
