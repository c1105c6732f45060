package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"indian-hedge-fund/internal/types"
)

var holdingsHeader = []string{"Symbol", "Exchange", "Qty", "Avg Price", "LTP", "P&L"}

func holdingRow(h types.Holding) []string {
	return []string{
		h.Symbol,
		h.Exchange,
		fmt.Sprintf("%d", h.Quantity),
		fmt.Sprintf("%.2f", h.AveragePrice),
		fmt.Sprintf("%.2f", h.LastPrice),
		fmt.Sprintf("%.2f", h.PnL),
	}
}

// HoldingsMarkdown is the holdings as a GitHub-flavoured Markdown table.
func HoldingsMarkdown(holdings []types.Holding) string {
	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeader(holdingsHeader),
	)
	for _, h := range holdings {
		table.Append(holdingRow(h))
	}
	table.Render()
	return buf.String()
}

// SignalsMarkdown is one analyst's signals as a Markdown table, sorted by ticker.
func SignalsMarkdown(signals map[string]types.Signal) string {
	var buf bytes.Buffer
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeader([]string{"Ticker", "Signal", "Confidence"}),
	)
	for _, t := range sortedTickers(signals) {
		s := signals[t]
		table.Append([]string{t, string(s.Signal), fmt.Sprintf("%.0f%%", s.Confidence)})
	}
	table.Render()
	return buf.String()
}

// HoldingsTable prints holdings as a plain terminal table.
func HoldingsTable(w io.Writer, holdings []types.Holding) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeader(holdingsHeader))
	for _, h := range holdings {
		if err := table.Append(holdingRow(h)); err != nil {
			return err
		}
	}
	return table.Render()
}

// AnalystInfo describes a selectable analyst.
type AnalystInfo struct {
	Key     string
	Name    string
	Agent   string
	Workers int
}

// AnalystsTable prints the analyst registry.
func AnalystsTable(w io.Writer, analysts []AnalystInfo) error {
	table := tablewriter.NewTable(w, tablewriter.WithHeader([]string{"Key", "Name", "Status Key", "Workers"}))
	for _, a := range analysts {
		if err := table.Append([]string{a.Key, a.Name, a.Agent, fmt.Sprintf("%d", a.Workers)}); err != nil {
			return err
		}
	}
	return table.Render()
}
