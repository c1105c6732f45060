package metrics

import (
	"context"
	"fmt"
	"strings"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/types"
)

// Static serves fixed series, used in DRY_RUN and tests. The last period of
// each series doubles as the latest snapshot.
type Static struct {
	data map[string][]types.FinancialMetrics
}

var _ interfaces.MetricsProvider = (*Static)(nil)

func NewStatic(data map[string][]types.FinancialMetrics) *Static {
	norm := make(map[string][]types.FinancialMetrics, len(data))
	for k, v := range data {
		hist := append([]types.FinancialMetrics(nil), v...)
		sortByPeriod(hist)
		norm[strings.ToUpper(k)] = hist
	}
	return &Static{data: norm}
}

func (s *Static) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	hist, ok := s.data[strings.ToUpper(ticker)]
	if !ok || len(hist) == 0 {
		return nil, ErrNotFound
	}
	latest := hist[len(hist)-1]
	latest.Derive()
	return &latest, nil
}

func (s *Static) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	hist, ok := s.data[strings.ToUpper(ticker)]
	if !ok || len(hist) == 0 {
		return nil, ErrNotFound
	}
	return append([]types.FinancialMetrics(nil), lastN(hist, periods)...), nil
}

type profile struct {
	shares, price              float64
	netIncome, growth          float64
	assetsToIncome, debtRatio  float64
	currentRatio, margin       float64
	payout, capexShare, dShare float64
}

// SampleData is ten fiscal years of round-number statements for a handful of
// large NSE names. Amounts are INR.
func SampleData() map[string][]types.FinancialMetrics {
	profiles := map[string]profile{
		"TCS":      {shares: 3.62e9, price: 3900, netIncome: 4.6e11, growth: 0.09, assetsToIncome: 3.2, debtRatio: 0.32, currentRatio: 2.6, margin: 0.24, payout: 0.9, capexShare: 0.06, dShare: 0.1},
		"INFY":     {shares: 4.15e9, price: 1500, netIncome: 2.6e11, growth: 0.1, assetsToIncome: 5.2, debtRatio: 0.3, currentRatio: 2.3, margin: 0.21, payout: 0.7, capexShare: 0.09, dShare: 0.16},
		"ITC":      {shares: 1.25e10, price: 450, netIncome: 2.0e11, growth: 0.08, assetsToIncome: 4.0, debtRatio: 0.2, currentRatio: 2.9, margin: 0.36, payout: 0.85, capexShare: 0.12, dShare: 0.09},
		"HDFCBANK": {shares: 7.6e9, price: 1650, netIncome: 6.0e11, growth: 0.17, assetsToIncome: 60, debtRatio: 0.88, currentRatio: 1.1, margin: 0.28, payout: 0.2, capexShare: 0.05, dShare: 0.03},
		"RELIANCE": {shares: 1.35e10, price: 1400, netIncome: 7.0e11, growth: 0.07, assetsToIncome: 24, debtRatio: 0.55, currentRatio: 1.2, margin: 0.16, payout: 0.1, capexShare: 1.1, dShare: 0.7},
	}

	out := map[string][]types.FinancialMetrics{}
	for ticker, p := range profiles {
		hist := make([]types.FinancialMetrics, 0, 10)
		for i := 0; i < 10; i++ {
			// income grows toward the newest year
			ni := p.netIncome
			for j := i; j < 9; j++ {
				ni /= 1 + p.growth
			}
			assets := ni * p.assetsToIncome
			liabilities := assets * p.debtRatio
			currentLiab := liabilities * 0.4
			m := types.FinancialMetrics{
				Ticker:                      ticker,
				Period:                      fmt.Sprintf("%d-03-31", 2016+i),
				TotalAssets:                 types.F(assets),
				TotalLiabilities:            types.F(liabilities),
				CurrentLiabilities:          types.F(currentLiab),
				CurrentAssets:               types.F(currentLiab * p.currentRatio),
				LongTermDebt:                types.F(liabilities * 0.3),
				NetIncome:                   types.F(ni),
				DepreciationAndAmortization: types.F(ni * p.dShare),
				CapitalExpenditure:          types.F(ni * p.capexShare),
				Dividends:                   types.F(-ni * p.payout),
				EquityIssuance:              types.F(0),
				OutstandingShares:           types.F(p.shares),
				OperatingMargin:             types.F(p.margin),
			}
			if i == 9 {
				m.Price = types.F(p.price)
			}
			m.Derive()
			hist = append(hist, m)
		}
		out[ticker] = hist
	}
	return out
}
