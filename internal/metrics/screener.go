package metrics

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"golang.org/x/time/rate"

	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/logger"
	"indian-hedge-fund/internal/types"
)

type ScreenerConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Screener scrapes the company page on screener.in. Statement tables are in
// INR crore; per-share figures are in rupees.
type Screener struct {
	cfg     ScreenerConfig
	limiter *rate.Limiter
}

var _ interfaces.MetricsProvider = (*Screener)(nil)

func NewScreener(cfg ScreenerConfig) *Screener {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.screener.in"
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Screener{cfg: cfg, limiter: rate.NewLimiter(limit, 1)}
}

// companyPage is what one visit to /company/<SYMBOL>/consolidated/ yields.
type companyPage struct {
	ratios map[string]float64
	// section id -> row label -> column label -> value
	tables map[string]map[string]map[string]float64
	// section id -> column labels in page order
	columns map[string][]string
}

func (s *Screener) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	page, err := s.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	hist := page.periods(ticker)

	latest := &types.FinancialMetrics{Ticker: ticker, Period: "latest"}
	if n := types.Newest(hist); n != nil {
		c := *n
		latest = &c
	}
	if v, ok := page.ratios["Current Price"]; ok {
		latest.Price = types.F(v)
	}
	if v, ok := page.ratios["Market Cap"]; ok {
		latest.MarketCap = types.F(v * crore)
	}
	if v, ok := page.ratios["ROE"]; ok {
		latest.ReturnOnEquity = types.F(v / 100)
	}
	if v, ok := page.ratios["Book Value"]; ok {
		latest.BookValuePerShare = types.F(v)
	}
	if v, ok := page.ratios["Stock P/E"]; ok && v > 0 {
		latest.PriceToEarnings = types.F(v)
	}
	if latest.OutstandingShares == nil && latest.MarketCap != nil && latest.Price != nil && *latest.Price > 0 {
		latest.OutstandingShares = types.F(*latest.MarketCap / *latest.Price)
	}
	latest.Derive()
	return latest, nil
}

func (s *Screener) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	page, err := s.fetch(ctx, ticker)
	if err != nil {
		return nil, err
	}
	hist := page.periods(ticker)
	if len(hist) == 0 {
		return nil, ErrNotFound
	}
	return lastN(hist, periods), nil
}

func (s *Screener) fetch(ctx context.Context, ticker string) (*companyPage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	page := &companyPage{
		ratios:  map[string]float64{},
		tables:  map[string]map[string]map[string]float64{},
		columns: map[string][]string{},
	}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(s.cfg.BaseURL)),
		colly.MaxDepth(1),
		colly.StdlibContext(ctx),
	)
	c.SetRequestTimeout(orDefault(s.cfg.Timeout, 15*time.Second))

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
	})

	c.OnHTML("#top-ratios li", func(e *colly.HTMLElement) {
		name := strings.TrimSpace(e.ChildText(".name"))
		if v, ok := parseNumber(e.ChildText(".number")); ok && name != "" {
			page.ratios[name] = v
		}
	})

	c.OnHTML("section#profit-loss, section#balance-sheet, section#cash-flow", func(e *colly.HTMLElement) {
		id := e.Attr("id")
		table := e.DOM.Find("table.data-table").First()
		var cols []string
		table.Find("thead th").Each(func(i int, th *goquery.Selection) {
			if i > 0 {
				cols = append(cols, strings.TrimSpace(th.Text()))
			}
		})
		rows := map[string]map[string]float64{}
		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			label := rowLabel(cells.First().Text())
			if label == "" {
				return
			}
			vals := map[string]float64{}
			cells.Slice(1, goquery.ToEnd).Each(func(i int, td *goquery.Selection) {
				if i >= len(cols) {
					return
				}
				if v, ok := parseNumber(td.Text()); ok {
					vals[cols[i]] = v
				}
			})
			rows[label] = vals
		})
		page.tables[id] = rows
		page.columns[id] = cols
	})

	var scrapeErr error
	c.OnError(func(r *colly.Response, err error) {
		if r.StatusCode == 404 {
			scrapeErr = ErrNotFound
			return
		}
		logger.ErrorWithErr(ctx, "Scraping error", err, "source", "screener", "url", r.Request.URL.String())
		scrapeErr = err
	})

	url := fmt.Sprintf("%s/company/%s/consolidated/", s.cfg.BaseURL, strings.ToUpper(strings.TrimSpace(ticker)))
	if err := c.Visit(url); err != nil && scrapeErr == nil {
		scrapeErr = fmt.Errorf("failed to visit %s: %w", url, err)
	}
	c.Wait()

	if scrapeErr != nil {
		return nil, scrapeErr
	}
	if len(page.ratios) == 0 && len(page.tables) == 0 {
		return nil, ErrNotFound
	}
	return page, nil
}

// periods assembles one FinancialMetrics per annual column (TTM excluded),
// oldest first.
func (p *companyPage) periods(ticker string) []types.FinancialMetrics {
	pl := p.tables["profit-loss"]
	bs := p.tables["balance-sheet"]
	cf := p.tables["cash-flow"]

	cell := func(t map[string]map[string]float64, row, col string, scale float64) *float64 {
		if v, ok := t[row][col]; ok {
			return types.F(v * scale)
		}
		return nil
	}

	seen := map[string]bool{}
	var out []types.FinancialMetrics
	for _, id := range []string{"profit-loss", "balance-sheet", "cash-flow"} {
		for _, col := range p.columns[id] {
			if seen[col] || strings.EqualFold(col, "TTM") {
				continue
			}
			seen[col] = true

			m := types.FinancialMetrics{
				Ticker:                      ticker,
				Period:                      periodKey(col),
				NetIncome:                   cell(pl, "Net Profit", col, crore),
				EarningsPerShare:            cell(pl, "EPS in Rs", col, 1),
				DepreciationAndAmortization: cell(pl, "Depreciation", col, crore),
				TotalAssets:                 cell(bs, "Total Assets", col, crore),
				LongTermDebt:                cell(bs, "Borrowings", col, crore),
			}
			if opm := cell(pl, "OPM %", col, 0.01); opm != nil {
				m.OperatingMargin = opm
			}
			equityCap, reserves := cell(bs, "Equity Capital", col, crore), cell(bs, "Reserves", col, crore)
			if m.TotalAssets != nil && equityCap != nil && reserves != nil {
				m.TotalLiabilities = types.F(*m.TotalAssets - *equityCap - *reserves)
			}
			if payout := cell(pl, "Dividend Payout %", col, 0.01); payout != nil && m.NetIncome != nil {
				m.Dividends = types.F(-*payout * *m.NetIncome)
			}
			if inv := cell(cf, "Cash from Investing Activity", col, crore); inv != nil && *inv < 0 {
				// investing outflow is the closest proxy screener publishes for capex
				m.CapitalExpenditure = types.F(-*inv)
			}
			m.Derive()
			out = append(out, m)
		}
	}
	sortByPeriod(out)
	return out
}

// rowLabel strips the expand marker screener appends to some row labels.
func rowLabel(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
	s = strings.TrimSpace(strings.TrimSuffix(s, "+"))
	return s
}

// periodKey turns "Mar 2024" into "2024-03" so periods sort chronologically.
func periodKey(col string) string {
	t, err := time.Parse("Jan 2006", strings.TrimSpace(col))
	if err != nil {
		return col
	}
	return t.Format("2006-01")
}

// parseNumber reads "1,23,456.7", "₹ 3,912", "25.3 %" and "-12".
func parseNumber(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "₹", "", "%", "", "Cr.", "", " ", "").Replace(s)
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
