// Package graham scores stocks with Benjamin Graham's defensive-investor
// tests: stable earnings, a strong balance sheet and a price below
// conservative value estimates.
package graham

import (
	"indian-hedge-fund/internal/analyst"
	"indian-hedge-fund/internal/types"
)

const (
	Name  = "Benjamin Graham"
	Agent = "ben_graham_agent"

	MaxScore       = 15
	Periods        = 10
	DefaultWorkers = 32
)

type Scorer struct{}

var _ analyst.Scorer = Scorer{}

func (Scorer) Name() string  { return Name }
func (Scorer) Agent() string { return Agent }
func (Scorer) Periods() int  { return Periods }

func (Scorer) Prompt() types.Prompt {
	return types.Prompt{System: systemPrompt, Human: humanPrompt}
}

// Score runs every Graham test and classifies the clamped total.
func (Scorer) Score(ticker string, latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.AnalysisBundle {
	subs := map[string]types.SubScore{
		"earnings_stability": EarningsStability(hist),
		"financial_strength": FinancialStrength(latest, hist),
		"valuation":          Valuation(latest, hist),
	}
	total := analyst.Total(subs, MaxScore)

	b := types.AnalysisBundle{
		Ticker:     ticker,
		Analyst:    Name,
		SubScores:  subs,
		TotalScore: total,
		MaxScore:   MaxScore,
		Signal:     analyst.Classify(total, MaxScore),
	}
	if latest != nil {
		b.MarketCap = latest.MarketCap
	}
	return b
}
