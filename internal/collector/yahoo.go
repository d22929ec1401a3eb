package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"

	"StockDash/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	BaseURL    string
	Client     *http.Client
	MaxRetries uint64
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	return &YahooFetcher{
		BaseURL:    yahooBaseURL,
		Client:     newHTTPClient(proxyURL, timeout),
		MaxRetries: 2,
		SymbolMap: map[string]string{
			"BRK.B": "BRK-B",
		},
	}
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote values stay untyped: Yahoo sends null for missing bars.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []any `json:"open"`
					High   []any `json:"high"`
					Low    []any `json:"low"`
					Close  []any `json:"close"`
					Volume []any `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDaily downloads daily bars, retrying transient failures with
// exponential backoff.
func (f *YahooFetcher) FetchDaily(ctx context.Context, symbol, period string) (*model.OHLCVTable, error) {
	if period == "" {
		period = DefaultPeriod
	}
	var table *model.OHLCVTable
	op := func() error {
		t, err := f.fetchChart(ctx, symbol, "1d", period)
		if err != nil {
			return err
		}
		table = t
		return nil
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), f.MaxRetries), ctx)
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("ticker", symbol).Dur("retry_in", wait).Msg("yahoo fetch failed, retrying")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return table, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) (*model.OHLCVTable, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("yahoo decode: %w", err))
	}
	if chart.Chart.Error != nil {
		return nil, backoff.Permanent(fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, backoff.Permanent(fmt.Errorf("yahoo: no data returned"))
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	table := &model.OHLCVTable{Symbol: symbol, Index: make([]time.Time, len(result.Timestamp))}
	for i, ts := range result.Timestamp {
		table.Index[i] = time.Unix(ts, 0).UTC()
	}
	for _, c := range []struct {
		name   string
		values []any
	}{
		{"Open", quote.Open},
		{"High", quote.High},
		{"Low", quote.Low},
		{"Close", quote.Close},
		{"Volume", quote.Volume},
	} {
		if c.values == nil {
			continue
		}
		table.Columns = append(table.Columns, model.Column{Levels: []string{c.name, symbol}, Values: c.values})
	}
	return table, nil
}
