package analyst

import (
	"context"
	"fmt"
	"time"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/retry"
	"indian-hedge-fund/internal/types"
)

// Scorer is the analyst-specific part of the pipeline: which data it needs,
// how it scores it and how it asks the narrator to explain the result.
type Scorer interface {
	// Name is the display name, e.g. "Benjamin Graham".
	Name() string
	// Agent is the status key, e.g. "ben_graham_agent".
	Agent() string
	Periods() int
	Prompt() types.Prompt
	Score(ticker string, latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.AnalysisBundle
}

type Deps struct {
	Metrics  interfaces.MetricsProvider
	Narrator interfaces.Narrator
	Status   interfaces.StatusSink
	Retry    retry.Policy
	Workers  int
}

// Analyst runs one Scorer over a set of tickers.
type Analyst struct {
	scorer   Scorer
	metrics  interfaces.MetricsProvider
	narrator interfaces.Narrator
	status   interfaces.StatusSink
	policy   retry.Policy
	runner   *Runner
}

func New(s Scorer, d Deps) *Analyst {
	status := d.Status
	if status == nil {
		status = discard{}
	}
	return &Analyst{
		scorer:   s,
		metrics:  d.Metrics,
		narrator: d.Narrator,
		status:   status,
		policy:   d.Retry,
		runner:   NewRunner(d.Workers),
	}
}

func (a *Analyst) Name() string  { return a.scorer.Name() }
func (a *Analyst) Agent() string { return a.scorer.Agent() }

// Analyze runs every ticker through the pipeline and returns the signals of
// the tickers that succeeded.
func (a *Analyst) Analyze(ctx context.Context, tickers []string) types.AnalystReport {
	op := logger.StartOperation(ctx, "analyst.Analyze", "analyst", a.Name(), "tickers", len(tickers))
	signals := a.runner.Run(op.Context(), tickers, a.AnalyzeTicker)
	op.End("signals", len(signals))
	return types.AnalystReport{Analyst: a.Name(), Signals: signals}
}

// AnalyzeTicker fetches metrics, scores them and asks the narrator for a signal.
func (a *Analyst) AnalyzeTicker(ctx context.Context, ticker string) (types.Signal, error) {
	agent := a.Agent()

	a.status.Report(agent, ticker, "Fetching financial metrics")
	latest, err := a.metrics.Latest(ctx, ticker)
	if err != nil {
		a.status.Report(agent, ticker, "Error")
		return types.Signal{}, fmt.Errorf("latest metrics for %s: %w", ticker, err)
	}

	a.status.Report(agent, ticker, "Gathering historical line items")
	hist, err := a.metrics.Historical(ctx, ticker, a.scorer.Periods())
	if err != nil {
		a.status.Report(agent, ticker, "Error")
		return types.Signal{}, fmt.Errorf("historical metrics for %s: %w", ticker, err)
	}

	a.status.Report(agent, ticker, "Scoring")
	bundle := a.scorer.Score(ticker, latest, hist)
	logger.Debug(ctx, "Scored ticker",
		"analyst", a.Name(),
		"ticker", ticker,
		"score", bundle.TotalScore,
		"max_score", bundle.MaxScore,
		"signal", string(bundle.Signal),
	)

	a.status.Report(agent, ticker, "Generating "+a.Name()+" analysis")
	sig, err := a.narrate(ctx, ticker, bundle)
	if err != nil {
		a.status.Report(agent, ticker, "Error")
		return types.Signal{}, fmt.Errorf("narrative for %s: %w", ticker, err)
	}

	logger.Signal(ctx, a.Name(), ticker, string(sig.Signal), sig.Confidence, "score_signal", string(bundle.Signal))
	a.status.Report(agent, ticker, "Done")
	return sig, nil
}

func (a *Analyst) narrate(ctx context.Context, ticker string, bundle types.AnalysisBundle) (types.Signal, error) {
	policy := a.policy
	onRetry := policy.OnRetry
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn(ctx, "Retrying narrative generation",
			"analyst", a.Name(),
			"ticker", ticker,
			"attempt", attempt,
			"wait", wait.String(),
			"error", err,
		)
		a.status.Report(a.Agent(), ticker, fmt.Sprintf("Retrying LLM (%d)", attempt-1))
		if onRetry != nil {
			onRetry(attempt, err, wait)
		}
	}

	var sig types.Signal
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		s, err := a.narrator.Narrate(ctx, a.scorer.Prompt(), bundle)
		if err != nil {
			return err
		}
		sig = s
		return nil
	})
	return sig, err
}

type discard struct{}

func (discard) Report(string, string, string) {}
