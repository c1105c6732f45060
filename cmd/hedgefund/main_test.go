package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := `mode: DRY_RUN
exchange: NSE
llm:
  provider: NOOP
metrics:
  sources: [static]
  cache_dir: ` + filepath.Join(dir, "cache") + `
retry:
  max_attempts: 2
  initial_backoff: 1ms
  max_backoff: 2ms
journal:
  dir: ` + filepath.Join(dir, "journal") + `
static_holdings:
  - symbol: TCS
    quantity: 10
    average_price: 3250
    last_price: 3900
  - symbol: ITC
    quantity: 200
    average_price: 410.5
    last_price: 455.2
`
	p := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(cfg), 0o644))
	return p
}

func TestAnalyzeDryRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "review.json")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", "--config", writeConfig(t, dir), "--format", "json", "--output", out, "--workers", "3"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var rep types.PortfolioReport
	require.NoError(t, json.Unmarshal(data, &rep))

	assert.NotEmpty(t, rep.RunID)
	assert.Len(t, rep.Holdings, 2)
	assert.Equal(t, "₹114,600.00", rep.Summary.Invested)
	require.Len(t, rep.Reports, 2)
	assert.Equal(t, "Warren Buffett", rep.Reports[0].Analyst)
	assert.Equal(t, "Benjamin Graham", rep.Reports[1].Analyst)
	for _, r := range rep.Reports {
		assert.Contains(t, r.Signals, "TCS")
		assert.Contains(t, r.Signals, "ITC")
	}
	assert.NotEmpty(t, rep.Recommendation)

	entries, err := os.ReadDir(filepath.Join(dir, "journal", "signals"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyzeTickersMarkdown(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "review.md")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"analyze", "-c", writeConfig(t, dir), "-a", "ben_graham", "-t", "infy,hdfcbank", "-o", out, "--no-journal"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "## Benjamin Graham")
	assert.Contains(t, md, "**INFY**")
	assert.Contains(t, md, "**HDFCBANK**")
	assert.NotContains(t, md, "## Warren Buffett")
	assert.NotContains(t, md, "## Holdings")

	_, err = os.Stat(filepath.Join(dir, "journal"))
	assert.True(t, os.IsNotExist(err))
}

func TestAnalyzeRejectsUnknownAnalyst(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"analyze", "-c", writeConfig(t, dir), "-a", "peter_lynch"})
	assert.ErrorContains(t, cmd.Execute(), "unknown analyst")
}

func TestHoldingsAndAnalystsCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"holdings", "-c", cfg})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "TCS")
	assert.Contains(t, buf.String(), "P&L ₹15,440.00 (13.47%)")

	buf.Reset()
	cmd = newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"analysts", "-c", cfg})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "Benjamin Graham")
	assert.Contains(t, buf.String(), "Warren Buffett")
}

func TestWorkersFor(t *testing.T) {
	cfg := store.Default()
	assert.Equal(t, 32, workersFor(cfg, "ben_graham"))
	assert.Equal(t, 2, workersFor(cfg, "warren_buffett"))
	assert.Equal(t, 1, workersFor(cfg, "unknown"))
}
