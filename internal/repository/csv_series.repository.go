package repository

import (
	"fmt"
	"io"
	"macrobacktest/internal/domain"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
)

// CsvSeriesRepository reads price and macro score history from csv and
// writes backtest output back out. a series file has date,price,score
// columns where score may be blank on days without a release
type CsvSeriesRepository interface {
	ReadSeries(r io.Reader) (prices []domain.SeriesPoint, scores []domain.SeriesPoint, err error)
	ReadScores(r io.Reader) ([]domain.SeriesPoint, error)
	WritePositions(w io.Writer, positions []domain.PositionRecord) error
	WriteTrades(w io.Writer, trades []domain.Trade) error
}

type csvSeriesRepositoryHandler struct{}

func NewCsvSeriesRepository() CsvSeriesRepository {
	return csvSeriesRepositoryHandler{}
}

type seriesRow struct {
	Date  string `csv:"date"`
	Price string `csv:"price"`
	Score string `csv:"score"`
}

type scoreRow struct {
	Date  string  `csv:"date"`
	Score float64 `csv:"score"`
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.DateOnly, "2006/01/02", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (h csvSeriesRepositoryHandler) ReadSeries(r io.Reader) ([]domain.SeriesPoint, []domain.SeriesPoint, error) {
	rows := []seriesRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, nil, fmt.Errorf("failed to parse series csv: %w", err)
	}

	prices := []domain.SeriesPoint{}
	scores := []domain.SeriesPoint{}
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		price, err := parseOptionalFloat(row.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: failed to parse price: %w", i+1, err)
		}
		if price != nil {
			prices = append(prices, domain.SeriesPoint{Date: date, Value: *price})
		}
		score, err := parseOptionalFloat(row.Score)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: failed to parse score: %w", i+1, err)
		}
		if score != nil {
			scores = append(scores, domain.SeriesPoint{Date: date, Value: *score})
		}
	}

	return prices, scores, nil
}

func (h csvSeriesRepositoryHandler) ReadScores(r io.Reader) ([]domain.SeriesPoint, error) {
	rows := []scoreRow{}
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse score csv: %w", err)
	}

	out := make([]domain.SeriesPoint, 0, len(rows))
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, domain.SeriesPoint{Date: date, Value: row.Score})
	}
	return out, nil
}

type positionRow struct {
	Date             string  `csv:"date"`
	Price            float64 `csv:"price"`
	Score            float64 `csv:"score"`
	Regime           float64 `csv:"regime"`
	TrendState       string  `csv:"trend_state"`
	DesiredTarget    float64 `csv:"desired_target"`
	AdoptReason      string  `csv:"adopt_reason"`
	Signal           string  `csv:"signal"`
	LongLeg          float64 `csv:"long_leg"`
	HedgeLeg         float64 `csv:"hedge_leg"`
	RealizedPosition float64 `csv:"position"`
	Turnover         float64 `csv:"turnover"`
	Fee              float64 `csv:"fee"`
	Slippage         float64 `csv:"slippage"`
	Funding          float64 `csv:"funding"`
	NetReturn        float64 `csv:"net_return"`
	Nav              float64 `csv:"nav"`
	BenchmarkNav     float64 `csv:"benchmark_nav"`
}

func (h csvSeriesRepositoryHandler) WritePositions(w io.Writer, positions []domain.PositionRecord) error {
	rows := make([]positionRow, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, positionRow{
			Date:             p.Date.Format(time.DateOnly),
			Price:            p.Price,
			Score:            p.Score,
			Regime:           p.Regime,
			TrendState:       p.TrendState.String(),
			DesiredTarget:    p.DesiredTarget,
			AdoptReason:      p.AdoptReason,
			Signal:           string(p.Signal),
			LongLeg:          p.LongLeg,
			HedgeLeg:         p.HedgeLeg,
			RealizedPosition: p.RealizedPosition,
			Turnover:         p.Turnover,
			Fee:              p.Fee,
			Slippage:         p.Slippage,
			Funding:          p.Funding,
			NetReturn:        p.NetReturn,
			Nav:              p.Nav,
			BenchmarkNav:     p.BenchmarkNav,
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write positions csv: %w", err)
	}
	return nil
}

type tradeRow struct {
	Side       int     `csv:"side"`
	Mode       string  `csv:"mode"`
	EntryDate  string  `csv:"entry_date"`
	ExitDate   string  `csv:"exit_date"`
	EntryScore float64 `csv:"entry_score"`
	EntryPrice float64 `csv:"entry_price"`
	ExitPrice  float64 `csv:"exit_price"`
	PnL        float64 `csv:"pnl"`
	Result     string  `csv:"result"`
}

func (h csvSeriesRepositoryHandler) WriteTrades(w io.Writer, trades []domain.Trade) error {
	rows := make([]tradeRow, 0, len(trades))
	for _, t := range trades {
		exit := ""
		if t.ExitDate != nil {
			exit = t.ExitDate.Format(time.DateOnly)
		}
		rows = append(rows, tradeRow{
			Side:       t.Side,
			Mode:       t.Mode,
			EntryDate:  t.EntryDate.Format(time.DateOnly),
			ExitDate:   exit,
			EntryScore: t.EntryScore,
			EntryPrice: t.EntryPrice,
			ExitPrice:  t.ExitPrice,
			PnL:        t.PnL,
			Result:     string(t.Result),
		})
	}
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write trades csv: %w", err)
	}
	return nil
}
