package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/types"
)

func sampleReport() *types.PortfolioReport {
	return &types.PortfolioReport{
		RunID:       "run-1",
		GeneratedAt: time.Date(2025, 6, 2, 16, 0, 0, 0, time.UTC),
		Holdings: []types.Holding{
			{Symbol: "ITC", Exchange: "NSE", Quantity: 200, AveragePrice: 410.5, LastPrice: 455.2, PnL: 8940},
			{Symbol: "TCS", Exchange: "NSE", Quantity: 10, AveragePrice: 3250, LastPrice: 3900, PnL: 6500},
		},
		Summary: types.PortfolioSummary{Invested: "₹114,600.00", CurrentValue: "₹130,040.00", PnL: "₹15,440.00", PnLPct: 13.47, Positions: 2},
		Reports: []types.AnalystReport{
			{Analyst: "Benjamin Graham", Signals: map[string]types.Signal{
				"TCS": {Signal: types.Bearish, Confidence: 70, Reasoning: "Trades far above\nthe Graham number."},
				"ITC": {Signal: types.Bullish, Confidence: 65, Reasoning: "Strong current ratio."},
			}},
			{Analyst: "Warren Buffett"},
		},
		Recommendation: "Hold ITC. Trim TCS.",
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.True(t, strings.HasPrefix(md, "# Portfolio Review\n"))
	assert.Contains(t, md, "run-1")
	assert.Contains(t, md, "## Holdings")
	assert.Contains(t, md, "| ITC")
	assert.Contains(t, md, "₹130,040.00")
	assert.Contains(t, md, "(13.47%) across 2 positions")
	assert.Contains(t, md, "## Benjamin Graham")
	assert.Contains(t, md, "- **TCS**: Trades far above the Graham number.")
	assert.Contains(t, md, "## Warren Buffett\n\nNo signals.")
	assert.True(t, strings.HasSuffix(md, "## Recommendation\n\nHold ITC. Trim TCS.\n"))

	assert.Less(t, strings.Index(md, "**ITC**"), strings.Index(md, "**TCS**"))
}

func TestMarkdownWithoutHoldings(t *testing.T) {
	r := sampleReport()
	r.Holdings = nil
	r.Recommendation = ""
	md := Markdown(r)
	assert.NotContains(t, md, "## Holdings")
	assert.NotContains(t, md, "## Recommendation")
}

func TestRenderFormats(t *testing.T) {
	r := sampleReport()

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, r, FormatJSON))
		var back types.PortfolioReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
		assert.Equal(t, "run-1", back.RunID)
		assert.Equal(t, types.Bearish, back.Reports[0].Signals["TCS"].Signal)
	})

	t.Run("html", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, r, FormatHTML))
		out := buf.String()
		assert.Contains(t, out, "<!DOCTYPE html>")
		assert.Contains(t, out, "<h1>Portfolio Review</h1>")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<strong>TCS</strong>")
	})

	t.Run("markdown", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, r, FormatMarkdown))
		assert.Equal(t, Markdown(r), buf.String())
	})

	t.Run("terminal", func(t *testing.T) {
		prev := TerminalStyle
		TerminalStyle = "notty"
		defer func() { TerminalStyle = prev }()

		var buf bytes.Buffer
		require.NoError(t, Render(&buf, r, FormatTerminal))
		assert.Contains(t, buf.String(), "Portfolio Review")
		assert.Contains(t, buf.String(), "Hold ITC. Trim TCS.")
	})

	t.Run("unknown", func(t *testing.T) {
		assert.Error(t, Render(&bytes.Buffer{}, r, "pdf"))
	})
}

func TestTables(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, HoldingsTable(&buf, sampleReport().Holdings))
	assert.Contains(t, buf.String(), "TCS")
	assert.Contains(t, buf.String(), "3900.00")

	buf.Reset()
	require.NoError(t, AnalystsTable(&buf, []AnalystInfo{{Key: "ben_graham", Name: "Benjamin Graham", Agent: "ben_graham_agent", Workers: 32}}))
	assert.Contains(t, buf.String(), "Benjamin Graham")
	assert.Contains(t, buf.String(), "32")
}

func TestINR(t *testing.T) {
	assert.Equal(t, "₹114,600.00", INR(decimal.NewFromInt(114600)))
	assert.Equal(t, "₹455.20", INR(decimal.RequireFromString("455.2")))
	assert.Equal(t, "₹0.01", INR(decimal.RequireFromString("0.005")))
	assert.Equal(t, "-₹500.00", INR(decimal.NewFromInt(-500)))
}
