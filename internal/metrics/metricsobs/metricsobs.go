package metricsobs

import (
	"context"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

// observableProvider wraps a MetricsProvider with observability (logging & tracing)
type observableProvider struct {
	provider interfaces.MetricsProvider
	source   string
}

// Compile-time interface check
var _ interfaces.MetricsProvider = (*observableProvider)(nil)

// Wrap wraps a metrics source with observability middleware
func Wrap(p interfaces.MetricsProvider, source string) interfaces.MetricsProvider {
	return &observableProvider{provider: p, source: source}
}

func (o *observableProvider) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	ctx, span := trace.StartSpan(ctx, "metrics.Latest")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching latest metrics", "source", o.source, "ticker", ticker)

	m, err := o.provider.Latest(ctx, ticker)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Latest metrics unavailable", "source", o.source, "ticker", ticker, "error", err.Error())
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Latest metrics fetched",
		"source", o.source,
		"ticker", ticker,
		"period", m.Period,
		"has_price", m.Price != nil,
		"has_market_cap", m.MarketCap != nil,
	)
	return m, nil
}

func (o *observableProvider) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	ctx, span := trace.StartSpan(ctx, "metrics.Historical")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching historical metrics", "source", o.source, "ticker", ticker, "periods", periods)

	hist, err := o.provider.Historical(ctx, ticker, periods)
	if err != nil {
		logger.DebugSkip(ctx, 1, "Historical metrics unavailable", "source", o.source, "ticker", ticker, "error", err.Error())
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Historical metrics fetched", "source", o.source, "ticker", ticker, "count", len(hist))
	return hist, nil
}
