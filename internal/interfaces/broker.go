package interfaces

import (
	"context"

	"indian-hedge-fund/internal/types"
)

type HoldingsProvider interface {
	Holdings(ctx context.Context) ([]types.Holding, error)
}
