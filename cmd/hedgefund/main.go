package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"indian-hedge-fund/internal/analyst"
	"indian-hedge-fund/internal/journal"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/portfolio"
	"indian-hedge-fund/internal/report"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

type analyzeOptions struct {
	analysts []string
	tickers  []string
	format   string
	output   string
	workers  int
	progress bool
	noSave   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "hedgefund",
		Short:        "Value-investing review of a Zerodha portfolio",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeSystem(opts.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = logger.Shutdown(ctx)
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the YAML config")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newAnalyzeCmd(opts), newHoldingsCmd(opts), newAnalystsCmd(opts))
	return root
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score holdings with the selected analysts and synthesize a recommendation",
		Example: `  hedgefund analyze
  hedgefund analyze --analysts ben_graham --format markdown --output review.md
  hedgefund analyze --tickers TCS,INFY,ITC`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, root.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			if err := applyAnalyzeFlags(cmd, cfg, opts); err != nil {
				return err
			}
			return runAnalyze(ctx, cfg, opts)
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.analysts, "analysts", "a", nil, "analysts to run (default from config)")
	f.StringSliceVarP(&opts.tickers, "tickers", "t", nil, "analyse these tickers instead of the holdings")
	f.StringVarP(&opts.format, "format", "f", "", "report format: terminal, markdown, html or json")
	f.StringVarP(&opts.output, "output", "o", "", "write the report to this file")
	f.IntVarP(&opts.workers, "workers", "w", 0, "worker cap for every analyst")
	f.BoolVar(&opts.progress, "progress", false, "show a progress bar instead of status lines")
	f.BoolVar(&opts.noSave, "no-journal", false, "do not record the run in the journal")
	return cmd
}

func applyAnalyzeFlags(cmd *cobra.Command, cfg *store.Config, opts *analyzeOptions) error {
	if len(opts.analysts) > 0 {
		cfg.Analysts = opts.analysts
	}
	if opts.format != "" {
		cfg.Report.Format = strings.ToLower(opts.format)
	}
	if opts.output != "" {
		cfg.Report.Output = opts.output
	}
	if opts.workers > 0 {
		cfg.Workers.Graham = opts.workers
		cfg.Workers.Buffett = opts.workers
	}
	// tickers bypass the broker, so DRY_RUN needs no static holdings
	if len(opts.tickers) > 0 && cfg.Mode == "DRY_RUN" && len(cfg.StaticHoldings) == 0 {
		cfg.Mode = "LIVE"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func runAnalyze(ctx context.Context, cfg *store.Config, opts *analyzeOptions) error {
	entries, err := portfolio.Select(cfg.Analysts)
	if err != nil {
		return err
	}

	llm, err := initializeLLM(ctx, cfg)
	if err != nil {
		return err
	}
	mp, err := initializeMetrics(ctx, cfg)
	if err != nil {
		return err
	}

	tracker, stop := initializeStatus(os.Stderr, opts.progress)
	stopStatus := sync.OnceFunc(stop)
	defer stopStatus()

	analysts := initializeAnalysts(cfg, entries, analyst.Deps{
		Metrics:  mp,
		Narrator: initializeNarrator(cfg, llm),
		Status:   tracker,
		Retry:    cfg.RetryPolicy(),
	})

	svc := portfolio.New(portfolio.Deps{
		Holdings: initializeBroker(ctx, cfg),
		Analysts: analysts,
		LLM:      llm,
		Retry:    cfg.RetryPolicy(),
		Status:   tracker,
	})

	var rep *types.PortfolioReport
	if len(opts.tickers) > 0 {
		rep, err = svc.ReviewTickers(ctx, opts.tickers)
	} else {
		rep, err = svc.Review(ctx)
	}
	stopStatus()
	if err != nil {
		return err
	}

	if !opts.noSave {
		j := journal.New(cfg.Journal.Dir)
		if err := j.Record(rep); err != nil {
			logger.Warn(ctx, "Failed to record run in journal", "error", err)
		}
		compressOldJournal(ctx, j, cfg)
	}

	return writeReport(rep, cfg.Report.Format, cfg.Report.Output)
}

func writeReport(rep *types.PortfolioReport, format, output string) error {
	if output == "" {
		return report.Render(os.Stdout, rep, format)
	}
	if format == report.FormatTerminal {
		format = report.FormatMarkdown
	}
	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.Render(f, rep, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newHoldingsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "holdings",
		Short: "List demat holdings with invested and current value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(ctx, root.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			holdings, err := initializeBroker(ctx, cfg).Holdings(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := report.HoldingsTable(out, holdings); err != nil {
				return err
			}
			s := portfolio.Summarize(holdings)
			fmt.Fprintf(out, "\nInvested %s | Current %s | P&L %s (%.2f%%)\n", s.Invested, s.CurrentValue, s.PnL, s.PnLPct)
			return nil
		},
	}
}

func newAnalystsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "analysts",
		Short: "List the available analysts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), root.configPath, cmd.Flags().Changed("config"))
			if err != nil {
				return err
			}
			var infos []report.AnalystInfo
			for _, e := range portfolio.Registry() {
				infos = append(infos, report.AnalystInfo{
					Key:     e.Key,
					Name:    e.Scorer.Name(),
					Agent:   e.Scorer.Agent(),
					Workers: workersFor(cfg, e.Key),
				})
			}
			return report.AnalystsTable(cmd.OutOrStdout(), infos)
		},
	}
}
