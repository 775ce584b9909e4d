package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"macrobacktest/internal/calculator"
	"macrobacktest/internal/config"
	"macrobacktest/internal/domain"
	"macrobacktest/internal/logger"
	"macrobacktest/internal/repository"
	l1_service "macrobacktest/internal/service/l1"
	l3_service "macrobacktest/internal/service/l3"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type seriesFlags struct {
	prices string
	scores string
	symbol string
}

func (f *seriesFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.prices, "prices", "", "csv with date,price and optionally score columns")
	cmd.Flags().StringVar(&f.scores, "scores", "", "csv with date,score columns, merged over any scores in --prices")
	cmd.Flags().StringVar(&f.symbol, "symbol", "", "asset symbol, used to pick costs and trend rules")
	_ = cmd.MarkFlagRequired("prices")
	_ = cmd.MarkFlagRequired("symbol")
}

// load reads and aligns the csv inputs
func (f seriesFlags) load(repo repository.CsvSeriesRepository) (domain.AlignedSeries, error) {
	pf, err := os.Open(f.prices)
	if err != nil {
		return domain.AlignedSeries{}, fmt.Errorf("failed to open prices: %w", err)
	}
	defer pf.Close()

	prices, scores, err := repo.ReadSeries(pf)
	if err != nil {
		return domain.AlignedSeries{}, err
	}
	if f.scores != "" {
		sf, err := os.Open(f.scores)
		if err != nil {
			return domain.AlignedSeries{}, fmt.Errorf("failed to open scores: %w", err)
		}
		defer sf.Close()
		extra, err := repo.ReadScores(sf)
		if err != nil {
			return domain.AlignedSeries{}, err
		}
		// later points win when dates collide
		scores = append(scores, extra...)
	}

	return l1_service.AlignSeries(prices, scores), nil
}

func newBacktestCmd() *cobra.Command {
	var (
		series     seriesFlags
		preset     string
		configPath string
		out        string
		tradesOut  string
	)
	cmd := &cobra.Command{
		Use:   "backtest",
		Short: "run one backtest over csv inputs and print the summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			csvRepository := repository.NewCsvSeriesRepository()
			aligned, err := series.load(csvRepository)
			if err != nil {
				return err
			}

			var cfg domain.StrategyConfig
			if configPath != "" {
				cfg, err = config.LoadStrategyConfig(configPath, preset)
			} else {
				cfg, err = domain.PresetConfig(preset)
			}
			if err != nil {
				return err
			}

			ctx := logger.WithLogger(context.Background(), logger.New())
			result, err := l3_service.RunBacktest(ctx, l3_service.RunBacktestInput{
				Symbol: series.symbol,
				Series: aligned,
				Config: cfg,
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), result)

			if out != "" {
				if err := writeFile(out, func(w io.Writer) error {
					return csvRepository.WritePositions(w, result.Positions)
				}); err != nil {
					return err
				}
			}
			if tradesOut != "" {
				if err := writeFile(tradesOut, func(w io.Writer) error {
					return csvRepository.WriteTrades(w, result.Trades)
				}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	series.register(cmd)
	cmd.Flags().StringVar(&preset, "preset", "", "named preset applied before --config")
	cmd.Flags().StringVar(&configPath, "config", "", "strategy yaml layered over the preset")
	cmd.Flags().StringVar(&out, "out", "", "write the per day positions csv here")
	cmd.Flags().StringVar(&tradesOut, "trades-out", "", "write the trade log csv here")
	return cmd
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return err
	}
	return f.Close()
}

func printSummary(w io.Writer, result *domain.BacktestResult) {
	perf := result.Performance
	positions := result.Positions
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "symbol\t%s\n", result.Symbol)
	fmt.Fprintf(tw, "period\t%s to %s (%d rows)\n", positions[0].Date.Format("2006-01-02"), positions[len(positions)-1].Date.Format("2006-01-02"), len(positions))
	fmt.Fprintf(tw, "final nav\t%.4f (benchmark %.4f, alpha %.4f)\n", perf.FinalNav, perf.BenchmarkNav, perf.Alpha)
	fmt.Fprintf(tw, "cagr\t%.2f%%\n", perf.Cagr*100)
	fmt.Fprintf(tw, "max drawdown\t%.2f%% (recovery %v days)\n", perf.MaxDrawdown*100, perf.RecoveryDays)
	fmt.Fprintf(tw, "sharpe / sortino\t%.2f / %.2f\n", perf.SharpeMonthly, perf.SortinoMonthly)
	fmt.Fprintf(tw, "calmar\t%.2f\n", perf.Calmar)
	fmt.Fprintf(tw, "cvar 5%%\t%.4f\n", perf.Cvar5)
	fmt.Fprintf(tw, "downside capture\t%.2f\n", perf.DownsideCapture)
	fmt.Fprintf(tw, "avg turnover\t%.4f\n", perf.AvgTurnover)
	fmt.Fprintf(tw, "costs\tfee %.4f, slippage %.4f, funding %.4f\n", perf.Costs.Fee, perf.Costs.Slippage, perf.Costs.Funding)
	fmt.Fprintf(tw, "trades\t%d (pnl ratio %.2f)\n", result.TradeStats.Trades, result.TradeStats.PnLRatio)
	fmt.Fprintf(tw, "rebalances\t%d\n", len(result.RebalanceEvents))
	for _, g := range result.TradeStats.ByScore {
		fmt.Fprintf(tw, "  score %s\t%d trades, avg %.4f\n", g.Group, g.Trades, g.AvgReturn)
	}
	for _, warning := range result.Warnings {
		fmt.Fprintf(tw, "warning\t%s\n", warning)
	}
	tw.Flush()
}

func newDiagnoseCmd() *cobra.Command {
	var (
		series    seriesFlags
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "print shock forward returns and score lead-lag",
		RunE: func(cmd *cobra.Command, args []string) error {
			aligned, err := series.load(repository.NewCsvSeriesRepository())
			if err != nil {
				return err
			}
			if threshold == 0 {
				threshold = domain.DefaultStrategyConfig().ShockDropPct
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "direction\thorizon\tcount\twin rate\tmean\tmedian\tq25\tq75")
			for _, s := range calculator.ShockForwardStats(aligned.Prices, threshold, calculator.DefaultShockHorizons) {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.3f\t%.4f\t%.4f\t%.4f\t%.4f\n", s.Direction, s.Horizon, s.Count, s.WinRate, s.Mean, s.Median, s.Q25, s.Q75)
			}
			fmt.Fprintln(tw, "\nhorizon\tcorr fwd\tcorr past\tlead edge")
			for _, l := range calculator.LeadLag(aligned.Scores, aligned.Prices, calculator.DefaultLeadLagHorizons) {
				fmt.Fprintf(tw, "%d\t%.3f\t%.3f\t%.3f\n", l.Horizon, l.CorrFwd, l.CorrPast, l.LeadEdge)
			}
			return tw.Flush()
		},
	}
	series.register(cmd)
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "absolute daily move that counts as a shock")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "print every preset config as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := map[string]domain.StrategyConfig{}
			for _, name := range append([]string{""}, domain.PresetNames()...) {
				cfg, err := domain.PresetConfig(name)
				if err != nil {
					return err
				}
				if name == "" {
					name = "default"
				}
				out[name] = cfg
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
