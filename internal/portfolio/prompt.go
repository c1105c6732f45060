package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"indian-hedge-fund/internal/report"
	"indian-hedge-fund/internal/types"
)

const systemPrompt = `You are a Portfolio Review Agent for an investor in Indian equities (NSE/BSE).
You receive the investor's holdings and the signals of several value-investing analysts.
Weigh the analysts' views, note where they disagree, and give actionable recommendations.
Quote amounts in Indian Rupees. Answer in Markdown.`

// SynthesisPrompt builds the request that turns analyst reports into a
// portfolio recommendation.
func SynthesisPrompt(holdings []types.Holding, reports []types.AnalystReport) types.Completion {
	var b strings.Builder

	b.WriteString("Review my current investment portfolio.\n\n")
	b.WriteString("## Holdings\n\n")
	if len(holdings) == 0 {
		b.WriteString("No holdings were supplied; review the analysed tickers as candidate positions.\n\n")
	} else {
		b.WriteString(report.HoldingsMarkdown(holdings))
		b.WriteString("\n")
	}

	for _, r := range reports {
		fmt.Fprintf(&b, "### %s Report\n\n", r.Analyst)
		data, err := json.MarshalIndent(r.Signals, "", "  ")
		if err != nil || len(r.Signals) == 0 {
			data = []byte("{}")
		}
		b.WriteString("```json\n")
		b.Write(data)
		b.WriteString("\n```\n\n")
	}

	b.WriteString(`Based on this analysis, provide actionable recommendations:
- Identify which stocks to hold, sell, or increase position in
- Explain the reasoning behind each suggestion clearly
`)
	return types.Completion{System: systemPrompt, User: b.String()}
}
