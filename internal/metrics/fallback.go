package metrics

import (
	"context"
	"errors"
	"fmt"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/types"
)

type Named struct {
	Name     string
	Provider interfaces.MetricsProvider
}

// Fallback asks each provider in turn and returns the first answer. A
// provider that fails for a reason other than ErrNotFound is logged and
// skipped; if every provider fails the last error is returned.
type Fallback struct {
	chain []Named
}

var _ interfaces.MetricsProvider = (*Fallback)(nil)

func NewFallback(chain ...Named) *Fallback {
	return &Fallback{chain: chain}
}

func (f *Fallback) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	var lastErr error = ErrNotFound
	for _, p := range f.chain {
		m, err := p.Provider.Latest(ctx, ticker)
		if err == nil {
			return m, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = f.skip(ctx, p.Name, ticker, err)
	}
	return nil, lastErr
}

func (f *Fallback) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	var lastErr error = ErrNotFound
	for _, p := range f.chain {
		hist, err := p.Provider.Historical(ctx, ticker, periods)
		if err == nil && len(hist) > 0 {
			return hist, nil
		}
		if err == nil {
			err = ErrNotFound
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = f.skip(ctx, p.Name, ticker, err)
	}
	return nil, lastErr
}

func (f *Fallback) skip(ctx context.Context, source, ticker string, err error) error {
	if errors.Is(err, ErrNotFound) {
		logger.Debug(ctx, "Source has no data for ticker", "source", source, "ticker", ticker)
		return err
	}
	logger.Warn(ctx, "Metrics source failed, trying next", "source", source, "ticker", ticker, "error", err.Error())
	return fmt.Errorf("%s: %w", source, err)
}
