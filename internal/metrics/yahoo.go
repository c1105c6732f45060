package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"indian-hedge-fund/internal/api"
	"indian-hedge-fund/internal/interfaces"
	"indian-hedge-fund/internal/types"
)

// annual fundamentals-timeseries series requested for every ticker.
var yahooSeries = []string{
	"annualTotalAssets",
	"annualTotalLiabilitiesNetMinorityInterest",
	"annualCurrentAssets",
	"annualCurrentLiabilities",
	"annualWorkingCapital",
	"annualLongTermDebt",
	"annualNetIncome",
	"annualDepreciationAndAmortization",
	"annualCapitalExpenditure",
	"annualCashDividendsPaid",
	"annualIssuanceOfCapitalStock",
	"annualRepurchaseOfCapitalStock",
	"annualOrdinarySharesNumber",
	"annualDilutedEPS",
	"annualOperatingIncome",
	"annualTotalRevenue",
}

type YahooConfig struct {
	BaseURL           string
	Exchange          string
	Timeout           time.Duration
	RequestsPerSecond float64
	Years             int
}

// Yahoo reads annual statements from Yahoo Finance's fundamentals-timeseries
// endpoint and the last price from the chart endpoint.
type Yahoo struct {
	cfg    YahooConfig
	client *api.Client
}

var _ interfaces.MetricsProvider = (*Yahoo)(nil)

func NewYahoo(cfg YahooConfig) *Yahoo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://query2.finance.yahoo.com"
	}
	if cfg.Years <= 0 {
		cfg.Years = 12
	}
	return &Yahoo{
		cfg: cfg,
		client: api.NewClient(
			api.WithBaseURL(cfg.BaseURL),
			api.WithHeaders(api.YahooFinanceHeaders()),
			api.WithTimeout(orDefault(cfg.Timeout, 15*time.Second)),
			api.WithRateLimit(cfg.RequestsPerSecond),
		),
	}
}

// Latest merges the newest annual period with the current price.
func (y *Yahoo) Latest(ctx context.Context, ticker string) (*types.FinancialMetrics, error) {
	hist, err := y.statements(ctx, ticker)
	if err != nil {
		return nil, err
	}
	price, err := y.price(ctx, ticker)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if len(hist) == 0 && price == nil {
		return nil, ErrNotFound
	}

	latest := &types.FinancialMetrics{Ticker: ticker, Period: "latest"}
	if n := types.Newest(hist); n != nil {
		c := *n
		latest = &c
	}
	latest.Price = price
	latest.Derive()
	return latest, nil
}

// Historical returns up to periods annual periods, oldest first.
func (y *Yahoo) Historical(ctx context.Context, ticker string, periods int) ([]types.FinancialMetrics, error) {
	hist, err := y.statements(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(hist) == 0 {
		return nil, ErrNotFound
	}
	return lastN(hist, periods), nil
}

type tsResponse struct {
	Timeseries struct {
		Result []map[string]json.RawMessage `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"timeseries"`
}

type tsMeta struct {
	Type []string `json:"type"`
}

type tsPoint struct {
	AsOfDate      string `json:"asOfDate"`
	ReportedValue struct {
		Raw float64 `json:"raw"`
	} `json:"reportedValue"`
}

func (y *Yahoo) statements(ctx context.Context, ticker string) ([]types.FinancialMetrics, error) {
	now := time.Now()
	q := url.Values{}
	q.Set("type", strings.Join(yahooSeries, ","))
	q.Set("period1", strconv.FormatInt(now.AddDate(-y.cfg.Years, 0, 0).Unix(), 10))
	q.Set("period2", strconv.FormatInt(now.Unix(), 10))
	path := fmt.Sprintf("/ws/fundamentals-timeseries/v1/finance/timeseries/%s?%s",
		url.PathEscape(exchangeSymbol(ticker, y.cfg.Exchange)), q.Encode())

	var resp tsResponse
	if err := y.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if resp.Timeseries.Error != nil {
		return nil, fmt.Errorf("yahoo timeseries: %s", resp.Timeseries.Error.Description)
	}

	// period end date -> values by series key
	byDate := map[string]map[string]float64{}
	for _, res := range resp.Timeseries.Result {
		var meta tsMeta
		if err := json.Unmarshal(res["meta"], &meta); err != nil || len(meta.Type) == 0 {
			continue
		}
		key := meta.Type[0]
		raw, ok := res[key]
		if !ok {
			continue
		}
		var points []*tsPoint
		if err := json.Unmarshal(raw, &points); err != nil {
			continue
		}
		for _, p := range points {
			if p == nil || p.AsOfDate == "" {
				continue
			}
			if byDate[p.AsOfDate] == nil {
				byDate[p.AsOfDate] = map[string]float64{}
			}
			byDate[p.AsOfDate][key] = p.ReportedValue.Raw
		}
	}

	hist := make([]types.FinancialMetrics, 0, len(byDate))
	for date, vals := range byDate {
		hist = append(hist, yahooPeriod(ticker, date, vals))
	}
	sortByPeriod(hist)
	return hist, nil
}

// yahooPeriod converts one period's raw series into FinancialMetrics using
// the sign conventions of FinancialMetrics.
func yahooPeriod(ticker, date string, v map[string]float64) types.FinancialMetrics {
	get := func(k string) *float64 {
		if x, ok := v[k]; ok {
			return types.F(x)
		}
		return nil
	}
	m := types.FinancialMetrics{
		Ticker:                      ticker,
		Period:                      date,
		TotalAssets:                 get("annualTotalAssets"),
		TotalLiabilities:            get("annualTotalLiabilitiesNetMinorityInterest"),
		CurrentAssets:               get("annualCurrentAssets"),
		CurrentLiabilities:          get("annualCurrentLiabilities"),
		WorkingCapital:              get("annualWorkingCapital"),
		LongTermDebt:                get("annualLongTermDebt"),
		NetIncome:                   get("annualNetIncome"),
		DepreciationAndAmortization: get("annualDepreciationAndAmortization"),
		OutstandingShares:           get("annualOrdinarySharesNumber"),
		EarningsPerShare:            get("annualDilutedEPS"),
	}
	if capex := get("annualCapitalExpenditure"); capex != nil {
		m.CapitalExpenditure = types.F(math.Abs(*capex))
	}
	if div := get("annualCashDividendsPaid"); div != nil {
		m.Dividends = types.F(-math.Abs(*div))
	}
	issued, bought := get("annualIssuanceOfCapitalStock"), get("annualRepurchaseOfCapitalStock")
	if issued != nil || bought != nil {
		net := 0.0
		if issued != nil {
			net += math.Abs(*issued)
		}
		if bought != nil {
			net -= math.Abs(*bought)
		}
		m.EquityIssuance = types.F(net)
	}
	if op, rev := get("annualOperatingIncome"), get("annualTotalRevenue"); op != nil && rev != nil && *rev != 0 {
		m.OperatingMargin = types.F(*op / *rev)
	}
	m.Derive()
	return m
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
	} `json:"chart"`
}

func (y *Yahoo) price(ctx context.Context, ticker string) (*float64, error) {
	path := fmt.Sprintf("/v8/finance/chart/%s?range=1d&interval=1d",
		url.PathEscape(exchangeSymbol(ticker, y.cfg.Exchange)))
	var resp chartResponse
	if err := y.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	if len(resp.Chart.Result) == 0 || resp.Chart.Result[0].Meta.RegularMarketPrice <= 0 {
		return nil, ErrNotFound
	}
	return types.F(resp.Chart.Result[0].Meta.RegularMarketPrice), nil
}

func (y *Yahoo) get(ctx context.Context, path string, out any) error {
	resp, err := y.client.GET(ctx, path)
	if api.IsStatus(err, http.StatusNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("yahoo: %w", err)
	}
	return resp.ParseJSON(out)
}
