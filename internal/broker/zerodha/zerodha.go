package zerodha

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

// ErrMissingCredentials is returned in LIVE mode without a Kite API key or access token.
var ErrMissingCredentials = errors.New("missing API key/access token")

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	Exchange    string
	// Static seeds holdings in DRY_RUN mode.
	Static []store.StaticHolding
}

type holdingsFunc func() (kiteconnect.Holdings, error)

type Zerodha struct {
	p           Params
	getHoldings holdingsFunc
}

var _ interfaces.HoldingsProvider = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	z := &Zerodha{p: p}

	if p.Mode != "DRY_RUN" && p.APIKey != "" {
		kc := kiteconnect.New(p.APIKey)
		kc.SetAccessToken(p.AccessToken)
		z.getHoldings = kc.GetHoldings
	}

	return z
}

// Holdings returns the demat holdings sorted by symbol. Positions with no
// settled or T1 quantity are skipped.
func (z *Zerodha) Holdings(ctx context.Context) ([]types.Holding, error) {
	if z.p.Mode == "DRY_RUN" {
		return z.staticHoldings(), nil
	}

	if z.p.APIKey == "" || z.p.AccessToken == "" || z.getHoldings == nil {
		return nil, ErrMissingCredentials
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kh, err := z.getHoldings()
	if err != nil {
		var kerr kiteconnect.Error
		if errors.As(err, &kerr) {
			return nil, fmt.Errorf("kite %s: %s", kerr.ErrorType, kerr.Message)
		}
		return nil, fmt.Errorf("failed to fetch holdings: %w", err)
	}

	out := make([]types.Holding, 0, len(kh))
	for _, h := range kh {
		qty := h.Quantity + h.T1Quantity
		if qty <= 0 {
			logger.Debug(ctx, "Skipping empty holding", "symbol", h.Tradingsymbol)
			continue
		}
		out = append(out, types.Holding{
			Symbol:       h.Tradingsymbol,
			Exchange:     h.Exchange,
			ISIN:         h.ISIN,
			Quantity:     qty,
			AveragePrice: h.AveragePrice,
			LastPrice:    h.LastPrice,
			ClosePrice:   h.ClosePrice,
			PnL:          h.PnL,
			DayChange:    h.DayChange,
			DayChangePct: h.DayChangePercentage,
		})
	}
	sortHoldings(out)
	return out, nil
}

func (z *Zerodha) staticHoldings() []types.Holding {
	out := make([]types.Holding, 0, len(z.p.Static))
	for _, s := range z.p.Static {
		exch := s.Exchange
		if exch == "" {
			exch = z.p.Exchange
		}
		last := s.LastPrice
		if last == 0 {
			last = s.AveragePrice
		}
		out = append(out, types.Holding{
			Symbol:       strings.ToUpper(s.Symbol),
			Exchange:     strings.ToUpper(exch),
			Quantity:     s.Quantity,
			AveragePrice: s.AveragePrice,
			LastPrice:    last,
			PnL:          float64(s.Quantity) * (last - s.AveragePrice),
		})
	}
	sortHoldings(out)
	return out
}

func sortHoldings(hs []types.Holding) {
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].Symbol < hs[j].Symbol })
}
