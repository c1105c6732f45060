// Package portfolio reviews a portfolio end to end: holdings, every selected
// analyst over the held tickers, then an LLM synthesis across their reports.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/retry"
	"indian-hedge-fund/internal/types"
)

// Agent is the status key of the synthesis step.
const Agent = "portfolio_manager"

var (
	ErrNoHoldings = errors.New("no holdings to review")
	ErrNoTickers  = errors.New("no tickers to review")
)

// Analyst is one selected analyst, normally *analyst.Analyst.
type Analyst interface {
	Name() string
	Analyze(ctx context.Context, tickers []string) types.AnalystReport
}

type Deps struct {
	Holdings interfaces.HoldingsProvider
	Analysts []Analyst
	LLM      interfaces.LLM
	Retry    retry.Policy
	Status   interfaces.StatusSink
}

type Service struct {
	holdings interfaces.HoldingsProvider
	analysts []Analyst
	llm      interfaces.LLM
	policy   retry.Policy
	status   interfaces.StatusSink

	now   func() time.Time
	newID func() string
}

func New(d Deps) *Service {
	status := d.Status
	if status == nil {
		status = nopStatus{}
	}
	return &Service{
		holdings: d.Holdings,
		analysts: d.Analysts,
		llm:      d.LLM,
		policy:   d.Retry,
		status:   status,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Review fetches holdings, runs every analyst over the held tickers and asks
// the LLM for a recommendation.
func (s *Service) Review(ctx context.Context) (*types.PortfolioReport, error) {
	s.status.Report(Agent, "", "Fetching holdings")
	holdings, err := s.holdings.Holdings(ctx)
	if err != nil {
		s.status.Report(Agent, "", "Error")
		return nil, fmt.Errorf("fetch holdings: %w", err)
	}
	if len(holdings) == 0 {
		s.status.Report(Agent, "", "Error")
		return nil, ErrNoHoldings
	}
	return s.run(ctx, holdings, Tickers(holdings))
}

// ReviewTickers analyses tickers without consulting the broker.
func (s *Service) ReviewTickers(ctx context.Context, tickers []string) (*types.PortfolioReport, error) {
	tickers = uniqueUpper(tickers)
	if len(tickers) == 0 {
		return nil, ErrNoTickers
	}
	return s.run(ctx, nil, tickers)
}

func (s *Service) run(ctx context.Context, holdings []types.Holding, tickers []string) (*types.PortfolioReport, error) {
	if len(s.analysts) == 0 {
		return nil, ErrNoAnalysts
	}

	op := logger.StartOperation(ctx, "portfolio.Review", "tickers", strings.Join(tickers, ","), "analysts", len(s.analysts))
	ctx = op.Context()

	rep := &types.PortfolioReport{
		RunID:       s.newID(),
		GeneratedAt: s.now(),
		Holdings:    holdings,
		Summary:     Summarize(holdings),
	}

	for _, a := range s.analysts {
		if err := ctx.Err(); err != nil {
			op.EndWithError(err)
			return nil, err
		}
		r := a.Analyze(ctx, tickers)
		logger.Info(ctx, "Analyst finished", "analyst", a.Name(), "signals", len(r.Signals), "tickers", len(tickers))
		rep.Reports = append(rep.Reports, r)
	}

	rec, err := s.Synthesize(ctx, holdings, rep.Reports)
	switch {
	case err != nil && ctx.Err() != nil:
		op.EndWithError(ctx.Err())
		return nil, ctx.Err()
	case err != nil:
		// the analyst signals are still worth reporting
		logger.ErrorWithErr(ctx, "Portfolio synthesis failed", err, "run_id", rep.RunID)
	default:
		rep.Recommendation = rec
	}

	op.End("run_id", rep.RunID, "recommendation_chars", len(rep.Recommendation))
	return rep, nil
}

// Synthesize asks the LLM for a portfolio-level recommendation, retrying
// with the service's policy.
func (s *Service) Synthesize(ctx context.Context, holdings []types.Holding, reports []types.AnalystReport) (string, error) {
	s.status.Report(Agent, "", "Synthesizing")
	req := SynthesisPrompt(holdings, reports)

	policy := s.policy
	policy.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.Warn(ctx, "Retrying portfolio synthesis", "attempt", attempt, "wait", wait.String(), "error", err)
		s.status.Report(Agent, "", fmt.Sprintf("Retrying LLM (%d)", attempt-1))
	}

	var out string
	err := retry.Do(ctx, policy, func(ctx context.Context) error {
		text, err := s.llm.Complete(ctx, req)
		if err != nil {
			return err
		}
		if strings.TrimSpace(text) == "" {
			return errors.New("empty recommendation")
		}
		out = strings.TrimSpace(text)
		return nil
	})
	if err != nil {
		s.status.Report(Agent, "", "Error")
		return "", fmt.Errorf("portfolio synthesis: %w", err)
	}
	s.status.Report(Agent, "", "Done")
	return out, nil
}

type nopStatus struct{}

func (nopStatus) Report(string, string, string) {}
