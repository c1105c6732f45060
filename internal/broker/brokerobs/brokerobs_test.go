package brokerobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/types"
)

type fakeBroker struct {
	holdings []types.Holding
	err      error
}

func (f *fakeBroker) Holdings(ctx context.Context) ([]types.Holding, error) {
	return f.holdings, f.err
}

func TestWrapPassesThrough(t *testing.T) {
	hs, err := Wrap(&fakeBroker{holdings: []types.Holding{{Symbol: "TCS", Quantity: 1}}}).Holdings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "TCS", hs[0].Symbol)

	boom := errors.New("kite down")
	_, err = Wrap(&fakeBroker{err: boom}).Holdings(context.Background())
	assert.ErrorIs(t, err, boom)
}
