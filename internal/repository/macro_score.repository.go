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
)

type MacroScoreRepository interface {
	Add(tx *sql.Tx, scores []domain.SeriesPoint, source string) error
	List(db qrm.Queryable, start, end time.Time) ([]domain.SeriesPoint, error)
}

type macroScoreRepositoryHandler struct{}

func NewMacroScoreRepository() MacroScoreRepository {
	return macroScoreRepositoryHandler{}
}

func (h macroScoreRepositoryHandler) Add(tx *sql.Tx, scores []domain.SeriesPoint, source string) error {
	if len(scores) == 0 {
		return nil
	}
	models := make([]model.MacroScore, 0, len(scores))
	for _, s := range scores {
		models = append(models, model.MacroScore{
			Date:   s.Date,
			Score:  s.Value,
			Source: source,
		})
	}

	query := MacroScore.
		INSERT(
			MacroScore.Date,
			MacroScore.Score,
			MacroScore.Source,
		).
		MODELS(models).
		ON_CONFLICT(MacroScore.Date).
		DO_UPDATE(
			SET(
				MacroScore.Score.SET(MacroScore.EXCLUDED.Score),
				MacroScore.Source.SET(MacroScore.EXCLUDED.Source),
			),
		)

	_, err := query.Exec(tx)
	if err != nil {
		return fmt.Errorf("failed to add macro scores to db: %w", err)
	}

	return nil
}

func (h macroScoreRepositoryHandler) List(db qrm.Queryable, start, end time.Time) ([]domain.SeriesPoint, error) {
	query := MacroScore.
		SELECT(MacroScore.AllColumns).
		WHERE(
			MacroScore.Date.BETWEEN(DateT(start), DateT(end)),
		).
		ORDER_BY(MacroScore.Date.ASC())

	result := []model.MacroScore{}
	err := query.Query(db, &result)
	if err != nil {
		return nil, fmt.Errorf("failed to list macro scores: %w", err)
	}

	out := make([]domain.SeriesPoint, 0, len(result))
	for _, s := range result {
		out = append(out, domain.SeriesPoint{
			Date:  s.Date,
			Value: s.Score,
		})
	}

	return out, nil
}
