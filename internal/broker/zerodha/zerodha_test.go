package zerodha

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"indian-hedge-fund/internal/store"
)

func TestDryRunServesStaticHoldings(t *testing.T) {
	z := NewZerodha(Params{
		Mode:     "DRY_RUN",
		Exchange: "NSE",
		Static: []store.StaticHolding{
			{Symbol: "tcs", Quantity: 10, AveragePrice: 3250, LastPrice: 3900},
			{Symbol: "ITC", Exchange: "bse", Quantity: 200, AveragePrice: 410},
		},
	})

	hs, err := z.Holdings(context.Background())
	require.NoError(t, err)
	require.Len(t, hs, 2)

	assert.Equal(t, "ITC", hs[0].Symbol)
	assert.Equal(t, "BSE", hs[0].Exchange)
	assert.Equal(t, 410.0, hs[0].LastPrice)
	assert.Zero(t, hs[0].PnL)

	assert.Equal(t, "TCS", hs[1].Symbol)
	assert.Equal(t, "NSE", hs[1].Exchange)
	assert.InDelta(t, 6500, hs[1].PnL, 1e-9)
}

func TestLiveRequiresCredentials(t *testing.T) {
	_, err := NewZerodha(Params{Mode: "LIVE", APIKey: "key"}).Holdings(context.Background())
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLiveMapsKiteHoldings(t *testing.T) {
	z := &Zerodha{
		p: Params{Mode: "LIVE", APIKey: "key", AccessToken: "token"},
		getHoldings: func() (kiteconnect.Holdings, error) {
			return kiteconnect.Holdings{
				{Tradingsymbol: "INFY", Exchange: "NSE", ISIN: "INE009A01021", Quantity: 5, T1Quantity: 2, AveragePrice: 1400, LastPrice: 1500, ClosePrice: 1490, PnL: 700, DayChange: 10, DayChangePercentage: 0.67},
				{Tradingsymbol: "SOLD", Exchange: "NSE"},
				{Tradingsymbol: "HDFCBANK", Exchange: "NSE", Quantity: 1, AveragePrice: 1600, LastPrice: 1650},
			}, nil
		},
	}

	hs, err := z.Holdings(context.Background())
	require.NoError(t, err)
	require.Len(t, hs, 2)
	assert.Equal(t, "HDFCBANK", hs[0].Symbol)

	infy := hs[1]
	assert.Equal(t, "INFY", infy.Symbol)
	assert.Equal(t, "INE009A01021", infy.ISIN)
	assert.Equal(t, 7, infy.Quantity)
	assert.Equal(t, 1490.0, infy.ClosePrice)
	assert.Equal(t, 0.67, infy.DayChangePct)
}

func TestLiveWrapsErrors(t *testing.T) {
	z := &Zerodha{
		p: Params{Mode: "LIVE", APIKey: "key", AccessToken: "token"},
		getHoldings: func() (kiteconnect.Holdings, error) {
			return nil, kiteconnect.Error{Code: 403, ErrorType: "TokenException", Message: "Incorrect api_key or access_token."}
		},
	}
	_, err := z.Holdings(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TokenException")

	boom := errors.New("connection reset")
	z.getHoldings = func() (kiteconnect.Holdings, error) { return nil, boom }
	_, err = z.Holdings(context.Background())
	assert.ErrorIs(t, err, boom)
}
