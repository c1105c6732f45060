package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"indian-hedge-fund/internal/analyst"
	"indian-hedge-fund/internal/broker/brokerobs"
	"indian-hedge-fund/internal/broker/zerodha"
	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/journal"
	"indian-hedge-fund/internal/llm/claude"
	"indian-hedge-fund/internal/llm/gemini"
	"indian-hedge-fund/internal/llm/llmobs"
	"indian-hedge-fund/internal/llm/noop"
	"indian-hedge-fund/internal/llm/openai"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/metrics"
	"indian-hedge-fund/internal/metrics/metricsobs"
	"indian-hedge-fund/internal/narrative"
	"indian-hedge-fund/internal/portfolio"
	"indian-hedge-fund/internal/status"
	"indian-hedge-fund/internal/store"
)

// initializeSystem loads .env and initializes the logger (and tracer when
// LOG_TRACING_ENABLED is set).
func initializeSystem(verbose bool) error {
	_ = godotenv.Load()

	cfg := logger.LoadConfigFromEnv()
	if verbose {
		cfg.Level = "DEBUG"
	}
	if err := logger.InitWithConfig(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// loadConfig reads path. A missing default config file falls back to the
// built-in defaults; an explicitly named one is an error.
func loadConfig(ctx context.Context, path string, explicit bool) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) && !explicit {
		logger.Warn(ctx, "Config file not found, using defaults", "path", path)
		return store.Default(), nil
	}
	logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
	return nil, err
}

// initializeBroker returns the holdings provider with observability
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.HoldingsProvider {
	brk := zerodha.NewZerodha(zerodha.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		Static:      cfg.StaticHoldings,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - holdings come from static_holdings")
	}

	return brokerobs.Wrap(brk)
}

// initializeLLM returns the configured provider with observability
func initializeLLM(ctx context.Context, cfg *store.Config) (interfaces.LLM, error) {
	var (
		client interfaces.LLM
		err    error
	)

	switch cfg.LLM.Provider {
	case "GEMINI":
		client, err = gemini.New(ctx, cfg.LLM)
	case "CLAUDE":
		client, err = claude.New(cfg.LLM)
	case "OPENAI":
		client, err = openai.New(cfg.LLM)
	default:
		logger.Warn(ctx, "No LLM provider configured - using deterministic Noop narrator")
		client = noop.LLM{}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s client: %w", cfg.LLM.Provider, err)
	}

	logger.Info(ctx, "LLM provider ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	return llmobs.Wrap(client, cfg.LLM.Provider), nil
}

// initializeNarrator wraps the narrative generator, or the deterministic
// narrator for NOOP, with observability
func initializeNarrator(cfg *store.Config, llm interfaces.LLM) interfaces.Narrator {
	if cfg.LLM.Provider == "NOOP" {
		return llmobs.WrapNarrator(noop.Narrator{})
	}
	return llmobs.WrapNarrator(narrative.New(llm))
}

// initializeMetrics builds the source chain with every source observed
func initializeMetrics(ctx context.Context, cfg *store.Config) (interfaces.MetricsProvider, error) {
	p, err := metrics.New(cfg.Metrics, cfg.Exchange, metricsobs.Wrap)
	if err != nil {
		return nil, err
	}
	if c, ok := p.(*metrics.Cache); ok {
		if err := c.CleanupExpired(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn(ctx, "Failed to clean expired metrics cache", "error", err)
		}
	}
	logger.Info(ctx, "Metrics sources ready", "sources", cfg.Metrics.Sources, "cache_ttl", cfg.Metrics.CacheTTL.String())
	return p, nil
}

// initializeStatus starts a tracker printing to w, as lines or as a bar.
// The returned func stops delivery and must be called before the report is written.
func initializeStatus(w io.Writer, progress bool) (*status.Tracker, func()) {
	if progress {
		bar := status.NewProgress(w, -1)
		t := status.NewTracker(256, bar)
		t.Start()
		return t, func() {
			t.Stop()
			bar.Finish()
			fmt.Fprintln(w)
		}
	}
	t := status.NewTracker(256, status.NewConsole(w))
	t.Start()
	return t, t.Stop
}

// initializeAnalysts builds one analyst per selected registry entry
func initializeAnalysts(cfg *store.Config, entries []portfolio.Entry, deps analyst.Deps) []portfolio.Analyst {
	out := make([]portfolio.Analyst, 0, len(entries))
	for _, e := range entries {
		d := deps
		d.Workers = workersFor(cfg, e.Key)
		out = append(out, analyst.New(e.Scorer, d))
	}
	return out
}

func workersFor(cfg *store.Config, key string) int {
	switch key {
	case "ben_graham":
		return cfg.Workers.Graham
	case "warren_buffett":
		return cfg.Workers.Buffett
	default:
		return 1
	}
}

// compressOldJournal compresses journal files past the retention window
func compressOldJournal(ctx context.Context, j *journal.Journal, cfg *store.Config) {
	if err := j.CompressOlder(ctx, cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journal files", "error", err)
	}
}
