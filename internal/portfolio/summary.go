package portfolio

import (
	"strings"

	"github.com/shopspring/decimal"

	"indian-hedge-fund/internal/report"
	"indian-hedge-fund/internal/types"
)

// Summarize totals the holdings exactly in decimal and formats them in rupees.
func Summarize(holdings []types.Holding) types.PortfolioSummary {
	invested, current := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		qty := decimal.NewFromInt(int64(h.Quantity))
		invested = invested.Add(qty.Mul(decimal.NewFromFloat(h.AveragePrice)))
		current = current.Add(qty.Mul(decimal.NewFromFloat(h.LastPrice)))
	}
	pnl := current.Sub(invested)

	var pct float64
	if invested.IsPositive() {
		pct = pnl.Div(invested).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return types.PortfolioSummary{
		Invested:     report.INR(invested),
		CurrentValue: report.INR(current),
		PnL:          report.INR(pnl),
		PnLPct:       pct,
		Positions:    len(holdings),
	}
}

// Tickers is the unique upper-cased symbols of holdings, in holding order.
func Tickers(holdings []types.Holding) []string {
	syms := make([]string, len(holdings))
	for i, h := range holdings {
		syms[i] = h.Symbol
	}
	return uniqueUpper(syms)
}

func uniqueUpper(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
