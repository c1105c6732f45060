package interfaces

import (
	"context"

	"indian-hedge-fund/internal/types"
)

type MetricsProvider interface {
	Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error)
	// Historical returns up to periods annual snapshots, oldest first.
	Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error)
}
