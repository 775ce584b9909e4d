package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"macrobacktest/internal/db/models/postgres/public/model"
	"macrobacktest/internal/db/models/postgres/public/table"
	"time"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
	"github.com/google/uuid"
)

var ErrRunNotFound = errors.New("backtest run not found")

type BacktestRunRepository interface {
	Add(tx *sql.Tx, run model.BacktestRun) (*model.BacktestRun, error)
	Get(id uuid.UUID) (*model.BacktestRun, error)
	ListRecent(symbol string, limit int64) ([]model.BacktestRun, error)
}

type backtestRunRepositoryHandler struct {
	Db *sql.DB
}

func NewBacktestRunRepository(db *sql.DB) BacktestRunRepository {
	return backtestRunRepositoryHandler{Db: db}
}

func (h backtestRunRepositoryHandler) Add(tx *sql.Tx, run model.BacktestRun) (*model.BacktestRun, error) {
	if run.BacktestRunID == uuid.Nil {
		run.BacktestRunID = uuid.New()
	}
	run.CreatedAt = time.Now().UTC()

	query := table.BacktestRun.
		INSERT(table.BacktestRun.AllColumns).
		MODEL(run).
		RETURNING(table.BacktestRun.AllColumns)

	var db qrm.Queryable = h.Db
	if tx != nil {
		db = tx
	}

	out := model.BacktestRun{}
	err := query.Query(db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to insert backtest run: %w", err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) Get(id uuid.UUID) (*model.BacktestRun, error) {
	query := table.BacktestRun.
		SELECT(table.BacktestRun.AllColumns).
		WHERE(table.BacktestRun.BacktestRunID.EQ(postgres.UUID(id)))

	out := model.BacktestRun{}
	err := query.Query(h.Db, &out)
	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id.String())
	} else if err != nil {
		return nil, fmt.Errorf("failed to get backtest run %s: %w", id.String(), err)
	}

	return &out, nil
}

func (h backtestRunRepositoryHandler) ListRecent(symbol string, limit int64) ([]model.BacktestRun, error) {
	query := table.BacktestRun.
		SELECT(table.BacktestRun.AllColumns).
		WHERE(table.BacktestRun.Symbol.EQ(postgres.String(symbol))).
		ORDER_BY(table.BacktestRun.CreatedAt.DESC()).
		LIMIT(limit)

	out := []model.BacktestRun{}
	err := query.Query(h.Db, &out)
	if err != nil {
		return nil, fmt.Errorf("failed to list backtest runs for %s: %w", symbol, err)
	}

	return out, nil
}
