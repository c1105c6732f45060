package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "llm:\n  provider: claude\n"))
	require.NoError(t, err)

	assert.Equal(t, "LIVE", cfg.Mode)
	assert.Equal(t, "NSE", cfg.Exchange)
	assert.Equal(t, []string{"warren_buffett", "ben_graham"}, cfg.Analysts)
	assert.Equal(t, 32, cfg.Workers.Graham)
	assert.Equal(t, 2, cfg.Workers.Buffett)
	assert.Equal(t, "CLAUDE", cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.Model)
	assert.Equal(t, []string{"yahoo", "screener"}, cfg.Metrics.Sources)
	assert.Equal(t, 6*time.Hour, cfg.Metrics.CacheTTL)
	assert.Equal(t, "terminal", cfg.Report.Format)

	p := cfg.RetryPolicy()
	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Second, p.InitialBackoff)
	assert.Equal(t, 10*time.Second, p.MaxBackoff)
}

func TestLoadConfigReadsFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
mode: dry_run
analysts: [ben_graham]
workers:
  graham: 4
metrics:
  sources: [static]
  cache_ttl: 30m
retry:
  max_attempts: 3
  initial_backoff: 500ms
  max_backoff: 2s
report:
  format: json
static_holdings:
  - symbol: TCS
    quantity: 10
    average_price: 3200
    last_price: 3900.5
`))
	require.NoError(t, err)

	assert.Equal(t, "DRY_RUN", cfg.Mode)
	assert.Equal(t, []string{"ben_graham"}, cfg.Analysts)
	assert.Equal(t, 4, cfg.Workers.Graham)
	assert.Equal(t, 30*time.Minute, cfg.Metrics.CacheTTL)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryPolicy().InitialBackoff)
	require.Len(t, cfg.StaticHoldings, 1)
	assert.Equal(t, 3900.5, cfg.StaticHoldings[0].LastPrice)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad provider":          "llm:\n  provider: bard\n",
		"bad mode":              "mode: paper\n",
		"bad source":            "metrics:\n  sources: [bloomberg]\n",
		"bad format":            "report:\n  format: pdf\n",
		"backoff inverted":      "retry:\n  initial_backoff: 20s\n  max_backoff: 10s\n",
		"dry run without seeds": "mode: DRY_RUN\n",
		"bad holding":           "static_holdings:\n  - symbol: TCS\n    quantity: 0\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
