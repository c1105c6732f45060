// Package report renders a portfolio review as Markdown, styled terminal
// output, HTML or JSON, plus the plain tables printed by the CLI.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"indian-hedge-fund/internal/types"
)

const (
	FormatTerminal = "terminal"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatJSON     = "json"
)

// TerminalStyle is the glamour style used for FormatTerminal. Tests and
// non-interactive output use "notty".
var TerminalStyle = "auto"

// Render writes r to w in the given format.
func Render(w io.Writer, r *types.PortfolioReport, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(r))
		return err
	case FormatHTML:
		out, err := HTML(Markdown(r))
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case FormatTerminal, "":
		out, err := Terminal(Markdown(r))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// Markdown builds the review document.
func Markdown(r *types.PortfolioReport) string {
	var b strings.Builder

	b.WriteString("# Portfolio Review\n\n")
	fmt.Fprintf(&b, "_Run %s, generated %s_\n\n", r.RunID, r.GeneratedAt.Format("02 Jan 2006 15:04 MST"))

	if len(r.Holdings) > 0 {
		b.WriteString("## Holdings\n\n")
		b.WriteString(HoldingsMarkdown(r.Holdings))
		b.WriteString("\n")
		s := r.Summary
		fmt.Fprintf(&b, "**Invested:** %s  \n**Current value:** %s  \n**P&L:** %s (%.2f%%) across %d positions\n\n",
			s.Invested, s.CurrentValue, s.PnL, s.PnLPct, s.Positions)
	}

	for _, rep := range r.Reports {
		fmt.Fprintf(&b, "## %s\n\n", rep.Analyst)
		if len(rep.Signals) == 0 {
			b.WriteString("No signals.\n\n")
			continue
		}
		tickers := sortedTickers(rep.Signals)
		b.WriteString(SignalsMarkdown(rep.Signals))
		b.WriteString("\n")
		for _, t := range tickers {
			fmt.Fprintf(&b, "- **%s**: %s\n", t, oneLine(rep.Signals[t].Reasoning))
		}
		b.WriteString("\n")
	}

	if r.Recommendation != "" {
		b.WriteString("## Recommendation\n\n")
		b.WriteString(strings.TrimSpace(r.Recommendation))
		b.WriteString("\n")
	}
	return b.String()
}

// Terminal styles markdown for a terminal with glamour.
func Terminal(markdown string) (string, error) {
	style := glamour.WithAutoStyle()
	if TerminalStyle != "auto" {
		style = glamour.WithStandardStyle(TerminalStyle)
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(100))
	if err != nil {
		return "", fmt.Errorf("terminal renderer: %w", err)
	}
	return tr.Render(markdown)
}

// HTML converts markdown to a standalone HTML page.
func HTML(markdown string) ([]byte, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.Table, extension.Strikethrough, extension.Linkify),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("markdown to html: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Portfolio Review</title>\n")
	page.WriteString("<style>body{font-family:sans-serif;max-width:960px;margin:2em auto}table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:4px 8px}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

func sortedTickers(signals map[string]types.Signal) []string {
	tickers := make([]string, 0, len(signals))
	for t := range signals {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
