package l1_service

import (
	"context"
	"database/sql"
	"fmt"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	"macrobacktest/internal/util"
	"sort"
	"sync"
	"time"
)

/**

the engine never touches storage. this service is the upstream
collaborator that turns stored (or freshly fetched) prices and macro
scores into one aligned, forward-filled series

*/

type SeriesService interface {
	LoadAligned(ctx context.Context, in LoadAlignedInput) (*domain.AlignedSeries, error)
	IngestPrices(ctx context.Context, in IngestPricesInput) error
	ImportScores(ctx context.Context, in ImportScoresInput) error
	ListSymbols(ctx context.Context) ([]string, error)
}

type LoadAlignedInput struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

type IngestPricesInput struct {
	Symbols []string
	Start   time.Time
	End     time.Time
}

type ImportScoresInput struct {
	Scores []domain.SeriesPoint
	// free text naming where the scores came from, e.g. a file name
	Source string
}

type seriesServiceHandler struct {
	Db                   *sql.DB
	PriceRepository      repository.PriceRepository
	MacroScoreRepository repository.MacroScoreRepository
	YahooPriceRepository repository.YahooPriceRepository
}

func NewSeriesService(
	db *sql.DB,
	priceRepository repository.PriceRepository,
	macroScoreRepository repository.MacroScoreRepository,
	yahooPriceRepository repository.YahooPriceRepository,
) SeriesService {
	return &seriesServiceHandler{
		Db:                   db,
		PriceRepository:      priceRepository,
		MacroScoreRepository: macroScoreRepository,
		YahooPriceRepository: yahooPriceRepository,
	}
}

func (h seriesServiceHandler) LoadAligned(ctx context.Context, in LoadAlignedInput) (*domain.AlignedSeries, error) {
	prices, err := h.PriceRepository.List(h.Db, in.Symbol, in.Start, in.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list prices for %s: %w", in.Symbol, err)
	}
	// scores may start before the first price; pull a buffer so the
	// first trading day has a score to carry forward
	scores, err := h.MacroScoreRepository.List(h.Db, in.Start.AddDate(0, 0, -14), in.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list macro scores: %w", err)
	}

	aligned := AlignSeries(prices, scores)
	logger.FromContext(ctx).Debugf("aligned %d prices and %d scores for %s into %d rows", len(prices), len(scores), in.Symbol, aligned.Len())

	return &aligned, nil
}

func dedupeSorted(points []domain.SeriesPoint) []domain.SeriesPoint {
	cp := make([]domain.SeriesPoint, len(points))
	for i, p := range points {
		cp[i] = domain.SeriesPoint{Date: util.TruncateDay(p.Date), Value: p.Value}
	}
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Date.Before(cp[j].Date)
	})
	out := []domain.SeriesPoint{}
	for _, p := range cp {
		// last write for a day wins
		if len(out) > 0 && out[len(out)-1].Date.Equal(p.Date) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// AlignSeries keys the result on price dates. each day takes the most
// recent score at or before it; days before the first score are dropped
func AlignSeries(prices, scores []domain.SeriesPoint) domain.AlignedSeries {
	prices = dedupeSorted(prices)
	scores = dedupeSorted(scores)

	out := domain.AlignedSeries{
		Dates:  []time.Time{},
		Prices: []float64{},
		Scores: []float64{},
	}

	j := -1
	for _, p := range prices {
		for j+1 < len(scores) && !scores[j+1].Date.After(p.Date) {
			j++
		}
		if j < 0 {
			continue
		}
		out.Dates = append(out.Dates, p.Date)
		out.Prices = append(out.Prices, p.Value)
		out.Scores = append(out.Scores, scores[j].Value)
	}

	return out
}

type ingestResult struct {
	symbol string
	prices []domain.SeriesPoint
	err    error
}

func (h seriesServiceHandler) IngestPrices(ctx context.Context, in IngestPricesInput) error {
	log := logger.FromContext(ctx)
	numGoroutines := 4
	inputCh := make(chan string, len(in.Symbols))
	resultCh := make(chan ingestResult, len(in.Symbols))

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range inputCh {
				prices, err := h.YahooPriceRepository.Fetch(ctx, symbol, in.Start, in.End)
				resultCh <- ingestResult{symbol: symbol, prices: prices, err: err}
			}
		}()
	}
	for _, s := range in.Symbols {
		inputCh <- s
	}
	close(inputCh)
	wg.Wait()
	close(resultCh)

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	numFailed := 0
	for r := range resultCh {
		if r.err != nil {
			numFailed++
			log.Warnf("failed to fetch prices for %s: %v", r.symbol, r.err)
			continue
		}
		if len(r.prices) == 0 {
			log.Warnf("no prices returned for %s", r.symbol)
			continue
		}
		if err := h.PriceRepository.Add(tx, r.symbol, r.prices); err != nil {
			return fmt.Errorf("failed to store prices for %s: %w", r.symbol, err)
		}
		log.Infof("ingested %d prices for %s", len(r.prices), r.symbol)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit prices: %w", err)
	}
	if numFailed == len(in.Symbols) && numFailed > 0 {
		return fmt.Errorf("failed to fetch prices for all %d symbols", numFailed)
	}

	return nil
}

func (h seriesServiceHandler) ImportScores(ctx context.Context, in ImportScoresInput) error {
	scores := dedupeSorted(in.Scores)
	if len(scores) == 0 {
		return fmt.Errorf("%w: no scores to import", domain.ErrInvalidSeries)
	}
	for _, s := range scores {
		if s.Value < 0 || s.Value > 100 {
			return fmt.Errorf("%w: score %v on %s is outside [0, 100]", domain.ErrInvalidSeries, s.Value, s.Date.Format(time.DateOnly))
		}
	}

	tx, err := h.Db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := h.MacroScoreRepository.Add(tx, scores, in.Source); err != nil {
		return fmt.Errorf("failed to store macro scores: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit macro scores: %w", err)
	}

	logger.FromContext(ctx).Infof("imported %d macro scores from %s", len(scores), in.Source)
	return nil
}

// ListSymbols returns every symbol with stored prices
func (h seriesServiceHandler) ListSymbols(ctx context.Context) ([]string, error) {
	symbols, err := h.PriceRepository.ListSymbols(h.Db)
	if err != nil {
		return nil, fmt.Errorf("failed to list symbols: %w", err)
	}
	return symbols, nil
}
