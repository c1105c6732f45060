package graham

import (
	"fmt"
	"math"

	"indian-hedge-fund/internal/types"
)

const (
	earningsMax  = 4
	strengthMax  = 5
	valuationMax = 7
)

// EarningsStability rewards EPS that stayed positive and grew over the series.
func EarningsStability(hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: earningsMax}
	if len(hist) == 0 {
		s.Rationale = []string{"Insufficient data for earnings stability analysis."}
		return s
	}

	eps := make([]float64, 0, len(hist))
	for _, m := range hist {
		if m.EarningsPerShare != nil {
			eps = append(eps, *m.EarningsPerShare)
		}
	}
	if len(eps) < 2 {
		s.Rationale = []string{"Insufficient data: fewer than two periods with EPS."}
		return s
	}

	positive := 0
	for _, e := range eps {
		if e > 0 {
			positive++
		}
	}
	switch {
	case positive == len(eps):
		s.Points += 3
		s.Rationale = append(s.Rationale, fmt.Sprintf("EPS was positive in all %d periods.", len(eps)))
	case float64(positive) >= 0.8*float64(len(eps)):
		s.Points += 2
		s.Rationale = append(s.Rationale, fmt.Sprintf("EPS was positive in most periods (%d of %d).", positive, len(eps)))
	default:
		s.Rationale = append(s.Rationale, fmt.Sprintf("EPS was negative in too many periods (%d of %d positive).", positive, len(eps)))
	}

	first, last := eps[0], eps[len(eps)-1]
	if last > first {
		s.Points++
		s.Rationale = append(s.Rationale, fmt.Sprintf("EPS grew from %.2f to %.2f.", first, last))
	} else {
		s.Rationale = append(s.Rationale, fmt.Sprintf("EPS did not grow (%.2f to %.2f).", first, last))
	}
	return s
}

// FinancialStrength scores liquidity, leverage and dividend record. Balance
// sheet pairs come from the newest period, or else the latest snapshot.
func FinancialStrength(latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: strengthMax}
	sheets := balanceSheets(latest, hist)
	if len(sheets) == 0 {
		s.Rationale = []string{"Insufficient data for financial strength analysis."}
		return s
	}

	if cr, ok := currentRatio(sheets); ok {
		switch {
		case cr >= 2.0:
			s.Points += 2
			s.Rationale = append(s.Rationale, fmt.Sprintf("Current ratio = %.2f (>=2.0: solid).", cr))
		case cr >= 1.5:
			s.Points++
			s.Rationale = append(s.Rationale, fmt.Sprintf("Current ratio = %.2f (moderately strong).", cr))
		default:
			s.Rationale = append(s.Rationale, fmt.Sprintf("Current ratio = %.2f (<1.5: weaker liquidity).", cr))
		}
	} else {
		s.Rationale = append(s.Rationale, "Current ratio not available (insufficient data for current assets or liabilities).")
	}

	if ta, tl, ok := pairFrom(sheets, totalAssets, totalLiabilities); ok && ta > 0 {
		dr := tl / ta
		switch {
		case dr < 0.5:
			s.Points += 2
			s.Rationale = append(s.Rationale, fmt.Sprintf("Debt ratio = %.2f, under 0.50 (conservative).", dr))
		case dr < 0.8:
			s.Points++
			s.Rationale = append(s.Rationale, fmt.Sprintf("Debt ratio = %.2f, somewhat high but acceptable.", dr))
		default:
			s.Rationale = append(s.Rationale, fmt.Sprintf("Debt ratio = %.2f, quite high by Graham standards.", dr))
		}
	} else {
		s.Rationale = append(s.Rationale, "Debt ratio not available (insufficient data for total assets or liabilities).")
	}

	divs := dividendSeries(latest, hist)
	if len(divs) == 0 {
		s.Rationale = append(s.Rationale, "No dividend data available to assess payout consistency.")
		return s
	}
	paid := 0
	for _, d := range divs {
		// Dividends are cash outflows: negative means paid.
		if d < 0 {
			paid++
		}
	}
	switch {
	case paid >= len(divs)/2+1:
		s.Points++
		s.Rationale = append(s.Rationale, fmt.Sprintf("Company paid dividends in the majority of periods (%d of %d).", paid, len(divs)))
	case paid > 0:
		s.Rationale = append(s.Rationale, fmt.Sprintf("Company paid dividends in only %d of %d periods.", paid, len(divs)))
	default:
		s.Rationale = append(s.Rationale, "Company did not pay dividends in these periods.")
	}
	return s
}

// Valuation compares price against net current asset value and the Graham Number.
func Valuation(latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.SubScore {
	s := types.SubScore{MaxPoints: valuationMax}
	// market figures prefer the snapshot; balance-sheet pairs do not
	m := types.Merge(latest, types.Newest(hist))
	if m == nil || m.MarketCap == nil || *m.MarketCap <= 0 {
		s.Rationale = []string{"Insufficient data to perform valuation (market cap not available)."}
		return s
	}
	marketCap := *m.MarketCap
	price, hasPrice := pricePerShare(m)
	shares := 0.0
	if m.OutstandingShares != nil {
		shares = *m.OutstandingShares
	}

	if ca, tl, ok := pairFrom(balanceSheets(latest, hist), currentAssets, totalLiabilities); ok {
		ncav := ca - tl
		s.Rationale = append(s.Rationale, fmt.Sprintf("Net Current Asset Value = %.2f.", ncav))
		switch {
		case ncav > 0 && ncav > marketCap:
			s.Points += 4
			s.Rationale = append(s.Rationale, "Net-Net: NCAV > Market Cap (classic Graham deep value).")
		case ncav > 0 && shares > 0 && hasPrice:
			perShare := ncav / shares
			s.Rationale = append(s.Rationale, fmt.Sprintf("NCAV per share = %.2f vs price %.2f.", perShare, price))
			if perShare >= 0.67*price {
				s.Points += 2
				s.Rationale = append(s.Rationale, "NCAV per share >= 2/3 of price (moderate net-net discount).")
			}
		default:
			s.Rationale = append(s.Rationale, "No net-net discount.")
		}
	} else {
		s.Rationale = append(s.Rationale, "NCAV not available (insufficient data for current assets or total liabilities).")
	}

	eps, bvps := m.EarningsPerShare, m.BookValuePerShare
	if eps == nil || bvps == nil || *eps <= 0 || *bvps <= 0 {
		s.Rationale = append(s.Rationale, "Unable to compute Graham Number (EPS or book value missing or <= 0).")
		return s
	}
	gn := math.Sqrt(22.5 * *eps * *bvps)
	s.Rationale = append(s.Rationale, fmt.Sprintf("Graham Number = %.2f.", gn))
	if !hasPrice {
		s.Rationale = append(s.Rationale, "Unable to compute margin of safety (price not available).")
		return s
	}
	mos := (gn - price) / price
	s.Rationale = append(s.Rationale, fmt.Sprintf("Margin of safety (Graham Number) = %.2f%%.", mos*100))
	switch {
	case mos > 0.5:
		s.Points += 3
		s.Rationale = append(s.Rationale, "Price is well below Graham Number (>50% margin).")
	case mos > 0.2:
		s.Points++
		s.Rationale = append(s.Rationale, "Some margin of safety relative to Graham Number.")
	default:
		s.Rationale = append(s.Rationale, "Price close to or above Graham Number, low margin of safety.")
	}
	return s
}

// balanceSheets lists the newest historical period, then the latest
// snapshot. Each pair of line items is read from a single entry so a ratio
// never mixes two periods.
func balanceSheets(latest *types.FinancialMetrics, hist []types.FinancialMetrics) []*types.FinancialMetrics {
	var out []*types.FinancialMetrics
	if n := types.Newest(hist); n != nil {
		out = append(out, n)
	}
	if latest != nil {
		out = append(out, latest)
	}
	return out
}

type field func(*types.FinancialMetrics) *float64

func currentAssets(m *types.FinancialMetrics) *float64      { return m.CurrentAssets }
func currentLiabilities(m *types.FinancialMetrics) *float64 { return m.CurrentLiabilities }
func totalAssets(m *types.FinancialMetrics) *float64        { return m.TotalAssets }
func totalLiabilities(m *types.FinancialMetrics) *float64   { return m.TotalLiabilities }

func pairFrom(sheets []*types.FinancialMetrics, a, b field) (float64, float64, bool) {
	for _, m := range sheets {
		if x, y := a(m), b(m); x != nil && y != nil {
			return *x, *y, true
		}
	}
	return 0, 0, false
}

func currentRatio(sheets []*types.FinancialMetrics) (float64, bool) {
	if ca, cl, ok := pairFrom(sheets, currentAssets, currentLiabilities); ok && cl > 0 {
		return ca / cl, true
	}
	for _, m := range sheets {
		if m.CurrentRatio != nil {
			return *m.CurrentRatio, true
		}
	}
	return 0, false
}

func pricePerShare(m *types.FinancialMetrics) (float64, bool) {
	if m.Price != nil && *m.Price > 0 {
		return *m.Price, true
	}
	if m.MarketCap != nil && m.OutstandingShares != nil && *m.OutstandingShares > 0 {
		return *m.MarketCap / *m.OutstandingShares, true
	}
	return 0, false
}

func dividendSeries(latest *types.FinancialMetrics, hist []types.FinancialMetrics) []float64 {
	var out []float64
	for _, m := range hist {
		if m.Dividends != nil {
			out = append(out, *m.Dividends)
		}
	}
	if len(out) == 0 && latest != nil && latest.Dividends != nil {
		out = append(out, *latest.Dividends)
	}
	return out
}
