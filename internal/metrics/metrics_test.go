package metrics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indian-hedge-fund/internal/metrics/metricsobs"
	"indian-hedge-fund/internal/store"
	"indian-hedge-fund/internal/types"
)

type countingProvider struct {
	calls atomic.Int32
	err   error
	data  *Static
}

func (c *countingProvider) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.data.Latest(ctx, ticker)
}

func (c *countingProvider) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.data.Historical(ctx, ticker, periods)
}

func TestStatic(t *testing.T) {
	s := NewStatic(SampleData())

	hist, err := s.Historical(context.Background(), "tcs", 5)
	require.NoError(t, err)
	require.Len(t, hist, 5)
	assert.Equal(t, "2021-03-31", hist[0].Period)
	assert.Equal(t, "2025-03-31", hist[4].Period)
	for i := 1; i < len(hist); i++ {
		assert.Greater(t, *hist[i].NetIncome, *hist[i-1].NetIncome)
	}

	latest, err := s.Latest(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Equal(t, 3900.0, *latest.Price)
	assert.NotNil(t, latest.MarketCap)
	assert.NotNil(t, latest.EarningsPerShare)

	_, err = s.Latest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackSkipsFailingSources(t *testing.T) {
	down := &countingProvider{err: errors.New("503 from upstream")}
	empty := &countingProvider{data: NewStatic(nil)}
	good := &countingProvider{data: NewStatic(SampleData())}
	f := NewFallback(Named{"yahoo", down}, Named{"screener", empty}, Named{"static", good})

	m, err := f.Latest(context.Background(), "ITC")
	require.NoError(t, err)
	assert.Equal(t, "ITC", m.Ticker)

	hist, err := f.Historical(context.Background(), "ITC", 10)
	require.NoError(t, err)
	assert.Len(t, hist, 10)
	assert.Equal(t, int32(2), down.calls.Load())
}

func TestFallbackReportsLastError(t *testing.T) {
	f := NewFallback(Named{"static", NewStatic(nil)})
	_, err := f.Latest(context.Background(), "ITC")
	assert.ErrorIs(t, err, ErrNotFound)

	boom := errors.New("timeout")
	f = NewFallback(Named{"static", NewStatic(nil)}, Named{"yahoo", &countingProvider{err: boom}})
	_, err = f.Historical(context.Background(), "ITC", 3)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "yahoo")
}

func TestCacheServesRepeatsFromDisk(t *testing.T) {
	inner := &countingProvider{data: NewStatic(SampleData())}
	c := NewCache(inner, t.TempDir(), time.Hour)

	first, err := c.Latest(context.Background(), "INFY")
	require.NoError(t, err)
	second, err := c.Latest(context.Background(), "infy")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = c.Historical(context.Background(), "INFY", 5)
	require.NoError(t, err)
	hist, err := c.Historical(context.Background(), "INFY", 5)
	require.NoError(t, err)
	assert.Len(t, hist, 5)

	assert.Equal(t, int32(2), inner.calls.Load())
}

func TestCacheExpiresAndNeverStoresErrors(t *testing.T) {
	inner := &countingProvider{data: NewStatic(SampleData())}
	c := NewCache(inner, t.TempDir(), time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	_, err := c.Latest(context.Background(), "ITC")
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = c.Latest(context.Background(), "ITC")
	require.NoError(t, err)
	assert.Equal(t, int32(2), inner.calls.Load())

	_, err = c.Latest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Latest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(4), inner.calls.Load())

	require.NoError(t, c.CleanupExpired())
}

func TestNewBuildsChain(t *testing.T) {
	p, err := New(store.MetricsConfig{Sources: []string{"static"}, CacheTTL: time.Hour, CacheDir: t.TempDir()}, "NSE", metricsobs.Wrap)
	require.NoError(t, err)
	_, ok := p.(*Cache)
	assert.True(t, ok)

	m, err := p.Latest(context.Background(), "RELIANCE")
	require.NoError(t, err)
	assert.Equal(t, "RELIANCE", m.Ticker)

	_, err = New(store.MetricsConfig{Sources: []string{"bloomberg"}}, "NSE", nil)
	assert.Error(t, err)
}
