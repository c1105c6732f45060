// Package metrics fetches per-period financial metrics for Indian listed
// companies. Providers (Yahoo Finance, Screener.in, static data) are chained
// in configured order and cached on disk.
package metrics

import (
	"errors"
	"net/url"
	"sort"
	"strings"
	"time"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

// ErrNotFound means the provider has no data for the ticker.
var ErrNotFound = errors.New("metrics: ticker not found")

const (
	crore     = 1e7
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// New builds the provider chain described by cfg. Wrap is applied to each
// source, e.g. metricsobs.Wrap.
func New(cfg store.MetricsConfig, exchange string, wrap func(interfaces.MetricsProvider, string) interfaces.MetricsProvider) (interfaces.MetricsProvider, error) {
	if wrap == nil {
		wrap = func(p interfaces.MetricsProvider, _ string) interfaces.MetricsProvider { return p }
	}
	var chain []Named
	for _, src := range cfg.Sources {
		var p interfaces.MetricsProvider
		switch src {
		case "yahoo":
			p = NewYahoo(YahooConfig{Exchange: exchange, Timeout: cfg.Timeout, RequestsPerSecond: cfg.RequestsPerSecond})
		case "screener":
			p = NewScreener(ScreenerConfig{Timeout: cfg.Timeout, RequestsPerSecond: cfg.RequestsPerSecond})
		case "static":
			p = NewStatic(SampleData())
		default:
			return nil, errors.New("unknown metrics source " + src)
		}
		chain = append(chain, Named{Name: src, Provider: wrap(p, src)})
	}

	var p interfaces.MetricsProvider = NewFallback(chain...)
	if cfg.CacheTTL > 0 && cfg.CacheDir != "" {
		p = NewCache(p, cfg.CacheDir, cfg.CacheTTL)
	}
	return p, nil
}

// exchangeSymbol maps an NSE/BSE trading symbol to the Yahoo form.
func exchangeSymbol(ticker, exchange string) string {
	t := strings.ToUpper(strings.TrimSpace(ticker))
	if strings.Contains(t, ".") {
		return t
	}
	if strings.EqualFold(exchange, "BSE") {
		return t + ".BO"
	}
	return t + ".NS"
}

// lastN returns the newest n periods of an oldest-first series.
func lastN(hist []types.FinancialMetrics, n int) []types.FinancialMetrics {
	if n > 0 && len(hist) > n {
		return hist[len(hist)-n:]
	}
	return hist
}

func sortByPeriod(hist []types.FinancialMetrics) {
	sort.SliceStable(hist, func(i, j int) bool { return hist[i].Period < hist[j].Period })
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
