package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const screenerPage = `<!DOCTYPE html>
<html><body>
<ul id="top-ratios">
  <li><span class="name">Market Cap</span><span class="nowrap value">₹ <span class="number">1,500</span> Cr.</span></li>
  <li><span class="name">Current Price</span><span class="nowrap value">₹ <span class="number">150</span></span></li>
  <li><span class="name">Stock P/E</span><span class="nowrap value"><span class="number">10.7</span></span></li>
  <li><span class="name">Book Value</span><span class="nowrap value">₹ <span class="number">70.0</span></span></li>
  <li><span class="name">ROE</span><span class="nowrap value"><span class="number">20.5</span> %</span></li>
</ul>
<section id="profit-loss">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2023</th><th>Mar 2024</th><th>TTM</th></tr></thead>
    <tbody>
      <tr><td class="text">Sales&nbsp;+</td><td>900</td><td>1,000</td><td>1,050</td></tr>
      <tr><td class="text">OPM %</td><td>22%</td><td>25%</td><td>25%</td></tr>
      <tr><td class="text">Depreciation</td><td>8</td><td>10</td><td>10</td></tr>
      <tr><td class="text">Net Profit&nbsp;+</td><td>90</td><td>140</td><td>150</td></tr>
      <tr><td class="text">EPS in Rs</td><td>9.00</td><td>14.00</td><td>15.00</td></tr>
      <tr><td class="text">Dividend Payout %</td><td>40%</td><td>50%</td><td></td></tr>
    </tbody>
  </table>
</section>
<section id="balance-sheet">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
    <tbody>
      <tr><td class="text">Equity Capital</td><td>10</td><td>10</td></tr>
      <tr><td class="text">Reserves</td><td>590</td><td>690</td></tr>
      <tr><td class="text">Borrowings&nbsp;+</td><td>100</td><td>120</td></tr>
      <tr><td class="text">Total Assets</td><td>1,000</td><td>1,200</td></tr>
    </tbody>
  </table>
</section>
<section id="cash-flow">
  <table class="data-table">
    <thead><tr><th></th><th>Mar 2023</th><th>Mar 2024</th></tr></thead>
    <tbody>
      <tr><td class="text">Cash from Investing Activity&nbsp;+</td><td>-25</td><td>-30</td></tr>
    </tbody>
  </table>
</section>
</body></html>`

func screenerServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/company/TCS/consolidated/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(screenerPage))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestScreenerHistorical(t *testing.T) {
	s := NewScreener(ScreenerConfig{BaseURL: screenerServer(t).URL})

	hist, err := s.Historical(context.Background(), "tcs", 10)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "2023-03", hist[0].Period)
	assert.Equal(t, "2024-03", hist[1].Period)

	m := hist[1]
	assert.InDelta(t, 140*crore, *m.NetIncome, 1)
	assert.InDelta(t, 14.0, *m.EarningsPerShare, 1e-9)
	assert.InDelta(t, 10*crore, *m.DepreciationAndAmortization, 1)
	assert.InDelta(t, 0.25, *m.OperatingMargin, 1e-9)
	assert.InDelta(t, 1200*crore, *m.TotalAssets, 1)
	assert.InDelta(t, 500*crore, *m.TotalLiabilities, 1)
	assert.InDelta(t, 120*crore, *m.LongTermDebt, 1)
	assert.InDelta(t, -70*crore, *m.Dividends, 1)
	assert.InDelta(t, 30*crore, *m.CapitalExpenditure, 1)
	assert.Nil(t, m.CurrentAssets)
}

func TestScreenerLatest(t *testing.T) {
	s := NewScreener(ScreenerConfig{BaseURL: screenerServer(t).URL})

	m, err := s.Latest(context.Background(), "TCS")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", m.Period)
	assert.Equal(t, 150.0, *m.Price)
	assert.InDelta(t, 1500*crore, *m.MarketCap, 1)
	assert.InDelta(t, 0.205, *m.ReturnOnEquity, 1e-9)
	assert.InDelta(t, 70.0, *m.BookValuePerShare, 1e-9)
	assert.InDelta(t, 10.7, *m.PriceToEarnings, 1e-9)
	assert.InDelta(t, 1e8, *m.OutstandingShares, 1e-3)
}

func TestScreenerUnknownTicker(t *testing.T) {
	s := NewScreener(ScreenerConfig{BaseURL: screenerServer(t).URL})
	_, err := s.Latest(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseNumber(t *testing.T) {
	for in, want := range map[string]float64{
		"1,23,456.7": 123456.7,
		"₹ 3,912":    3912,
		"25.3 %":     25.3,
		"-12":        -12,
		"1,500 Cr.":  1500,
	} {
		got, ok := parseNumber(in)
		require.True(t, ok, in)
		assert.InDelta(t, want, got, 1e-9, in)
	}
	_, ok := parseNumber("")
	assert.False(t, ok)
	_, ok = parseNumber("n/a")
	assert.False(t, ok)
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2024-03", periodKey("Mar 2024"))
	assert.Equal(t, "2019-12", periodKey(" Dec 2019 "))
	assert.Equal(t, "TTM", periodKey("TTM"))
}
