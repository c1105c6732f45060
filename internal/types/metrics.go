package types

import "reflect"

// FinancialMetrics is one reporting period for one ticker. A nil field means
// the provider did not report it.
//
// Dividends and equity issuance are cash-flow values: negative means cash
// paid out (dividend paid, shares repurchased). CapitalExpenditure is the
// positive amount spent.
type FinancialMetrics struct {
	Ticker string `json:"ticker"`
	Period string `json:"period"`

	TotalAssets        *float64 `json:"total_assets,omitempty"`
	TotalLiabilities   *float64 `json:"total_liabilities,omitempty"`
	CurrentAssets      *float64 `json:"current_assets,omitempty"`
	CurrentLiabilities *float64 `json:"current_liabilities,omitempty"`
	WorkingCapital     *float64 `json:"working_capital,omitempty"`
	LongTermDebt       *float64 `json:"long_term_debt,omitempty"`

	NetIncome                   *float64 `json:"net_income,omitempty"`
	DepreciationAndAmortization *float64 `json:"depreciation_and_amortization,omitempty"`
	CapitalExpenditure          *float64 `json:"capital_expenditure,omitempty"`
	Dividends                   *float64 `json:"dividends_and_other_cash_distributions,omitempty"`
	EquityIssuance              *float64 `json:"issuance_or_purchase_of_equity_shares,omitempty"`

	OutstandingShares *float64 `json:"outstanding_shares,omitempty"`
	EarningsPerShare  *float64 `json:"earnings_per_share,omitempty"`
	BookValuePerShare *float64 `json:"book_value_per_share,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	MarketCap         *float64 `json:"market_cap,omitempty"`
	ReturnOnEquity    *float64 `json:"return_on_equity,omitempty"`
	DebtToEquity      *float64 `json:"debt_to_equity,omitempty"`
	OperatingMargin   *float64 `json:"operating_margin,omitempty"`
	CurrentRatio      *float64 `json:"current_ratio,omitempty"`
	PriceToEarnings   *float64 `json:"price_to_earnings_ratio,omitempty"`
	PriceToBook       *float64 `json:"price_to_book_ratio,omitempty"`
}

// F returns a pointer to v.
func F(v float64) *float64 { return &v }

// Derive fills ratios that can be computed from reported line items and are
// not already present.
func (m *FinancialMetrics) Derive() {
	equity := sub(m.TotalAssets, m.TotalLiabilities)
	positive := func(p *float64) bool { return p != nil && *p > 0 }

	if m.EarningsPerShare == nil && m.NetIncome != nil && positive(m.OutstandingShares) {
		m.EarningsPerShare = F(*m.NetIncome / *m.OutstandingShares)
	}
	if m.BookValuePerShare == nil && equity != nil && positive(m.OutstandingShares) {
		m.BookValuePerShare = F(*equity / *m.OutstandingShares)
	}
	if m.ReturnOnEquity == nil && m.NetIncome != nil && positive(equity) {
		m.ReturnOnEquity = F(*m.NetIncome / *equity)
	}
	if m.DebtToEquity == nil && m.TotalLiabilities != nil && positive(equity) {
		m.DebtToEquity = F(*m.TotalLiabilities / *equity)
	}
	if m.CurrentRatio == nil && m.CurrentAssets != nil && positive(m.CurrentLiabilities) {
		m.CurrentRatio = F(*m.CurrentAssets / *m.CurrentLiabilities)
	}
	if m.WorkingCapital == nil {
		m.WorkingCapital = sub(m.CurrentAssets, m.CurrentLiabilities)
	}
	if m.MarketCap == nil && positive(m.Price) && positive(m.OutstandingShares) {
		m.MarketCap = F(*m.Price * *m.OutstandingShares)
	}
	if m.PriceToEarnings == nil && positive(m.Price) && positive(m.EarningsPerShare) {
		m.PriceToEarnings = F(*m.Price / *m.EarningsPerShare)
	}
	if m.PriceToBook == nil && positive(m.Price) && positive(m.BookValuePerShare) {
		m.PriceToBook = F(*m.Price / *m.BookValuePerShare)
	}
}

func sub(a, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	return F(*a - *b)
}

// Merge returns a copy of m whose nil fields are filled from fallback. Either
// side may be nil; Merge returns nil only when both are.
func Merge(m, fallback *FinancialMetrics) *FinancialMetrics {
	switch {
	case m == nil && fallback == nil:
		return nil
	case m == nil:
		c := *fallback
		return &c
	case fallback == nil:
		c := *m
		return &c
	}
	out := *m
	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(fallback).Elem()
	for i := 0; i < dst.NumField(); i++ {
		f := dst.Field(i)
		if f.Kind() == reflect.Pointer && f.IsNil() {
			f.Set(src.Field(i))
		}
	}
	return &out
}

// Newest returns the last element of an oldest-first series, or nil.
func Newest(hist []FinancialMetrics) *FinancialMetrics {
	if len(hist) == 0 {
		return nil
	}
	return &hist[len(hist)-1]
}
