package types

import "time"

// Holding is one position in the investor's demat account.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Exchange     string  `json:"exchange"`
	ISIN         string  `json:"isin,omitempty"`
	Quantity     int     `json:"quantity"`
	AveragePrice float64 `json:"average_price"`
	LastPrice    float64 `json:"last_price"`
	ClosePrice   float64 `json:"close_price,omitempty"`
	PnL          float64 `json:"pnl"`
	DayChange    float64 `json:"day_change,omitempty"`
	DayChangePct float64 `json:"day_change_percentage,omitempty"`
}

type Completion struct {
	System string
	User   string
	JSON   bool
}

// Prompt is an analyst's prompt pair. Human is a text/template rendered
// with .Ticker and .AnalysisData.
type Prompt struct {
	System string
	Human  string
}

type AnalystReport struct {
	Analyst string            `json:"analyst"`
	Signals map[string]Signal `json:"signals"`
}

type PortfolioSummary struct {
	Invested     string  `json:"invested"`
	CurrentValue string  `json:"current_value"`
	PnL          string  `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
	Positions    int     `json:"positions"`
}

type PortfolioReport struct {
	RunID          string           `json:"run_id"`
	GeneratedAt    time.Time        `json:"generated_at"`
	Holdings       []Holding        `json:"holdings"`
	Summary        PortfolioSummary `json:"summary"`
	Reports        []AnalystReport  `json:"reports"`
	Recommendation string           `json:"recommendation"`
}
