package brokerobs

import (
	"context"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/trace"
	"indian-hedge-fund/internal/types"
)

// observableBroker wraps a HoldingsProvider with observability (logging & tracing)
type observableBroker struct {
	broker interfaces.HoldingsProvider
}

// Compile-time interface check
var _ interfaces.HoldingsProvider = (*observableBroker)(nil)

// Wrap wraps a broker with observability middleware
func Wrap(broker interfaces.HoldingsProvider) interfaces.HoldingsProvider {
	return &observableBroker{
		broker: broker,
	}
}

// Holdings fetches demat holdings with observability
func (ob *observableBroker) Holdings(ctx context.Context) ([]types.Holding, error) {
	ctx, span := trace.StartSpan(ctx, "broker.Holdings")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching holdings")

	holdings, err := ob.broker.Holdings(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch holdings", err)
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, h.Symbol)
	}
	logger.InfoSkip(ctx, 1, "Holdings fetched successfully", "count", len(holdings), "symbols", symbols)
	return holdings, nil
}
