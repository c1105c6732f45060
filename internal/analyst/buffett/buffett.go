// Package buffett scores stocks the way Warren Buffett describes buying
// businesses: durable returns, honest capital allocation and a price below
// the value of future owner earnings.
package buffett

import (
	"indian-hedge-fund/internal/analyst"
	"indian-hedge-fund/internal/types"
)

const (
	Name  = "Warren Buffett"
	Agent = "warren_buffett_agent"

	Periods        = 5
	DefaultWorkers = 2

	// MinMarginOfSafety gates bullish calls; its negative is the bearish override.
	MinMarginOfSafety = 0.30
)

// MaxScore is fundamentals (7) + consistency (3) + moat + management.
const MaxScore = 10 + moatMax + managementMax

type Scorer struct{}

var _ analyst.Scorer = Scorer{}

func (Scorer) Name() string  { return Name }
func (Scorer) Agent() string { return Agent }
func (Scorer) Periods() int  { return Periods }

func (Scorer) Prompt() types.Prompt {
	return types.Prompt{System: systemPrompt, Human: humanPrompt}
}

func (Scorer) Score(ticker string, latest *types.FinancialMetrics, hist []types.FinancialMetrics) types.AnalysisBundle {
	iv, ivScore := IntrinsicValue(types.Merge(latest, types.Newest(hist)))
	subs := map[string]types.SubScore{
		"fundamentals":    Fundamentals(latest),
		"consistency":     Consistency(hist),
		"moat":            Moat(hist),
		"management":      ManagementQuality(latest, hist),
		"intrinsic_value": ivScore,
	}
	total := analyst.Total(subs, MaxScore)

	var marketCap *float64
	if latest != nil {
		marketCap = latest.MarketCap
	}
	mos := MarginOfSafety(iv, marketCap)

	return types.AnalysisBundle{
		Ticker:         ticker,
		Analyst:        Name,
		SubScores:      subs,
		TotalScore:     total,
		MaxScore:       MaxScore,
		Signal:         analyst.ClassifyWithMargin(total, MaxScore, mos, MinMarginOfSafety),
		MarginOfSafety: mos,
		IntrinsicValue: iv,
		MarketCap:      marketCap,
	}
}
