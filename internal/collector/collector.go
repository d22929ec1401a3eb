package collector

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"StockDash/internal/model"
)

// MockFetcher returns a fixed table or error for development and testing.
type MockFetcher struct {
	Table *model.OHLCVTable
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, _ string, _ string) (*model.OHLCVTable, error) {
	m.Calls++
	return m.Table, m.Err
}

// Collector fetches a ticker's history, substituting sample data when the
// provider fails or returns nothing.
type Collector struct {
	Fetcher   Fetcher
	Synthetic *SyntheticGenerator
	Period    string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, period string) *Collector {
	if period == "" {
		period = DefaultPeriod
	}
	return &Collector{Fetcher: fetcher, Synthetic: NewSyntheticGenerator(), Period: period}
}

// Collect returns the raw table for symbol and where it came from. Provider
// failures are not returned; they trigger the synthetic fallback.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.OHLCVTable, model.DataSource, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("collect %s: %w", symbol, err)
	}
	if c.Fetcher != nil {
		table, err := c.Fetcher.FetchDaily(ctx, symbol, c.Period)
		switch {
		case err != nil:
			log.Warn().Err(fmt.Errorf("%w: %w", model.ErrDataUnavailable, err)).
				Str("ticker", symbol).Str("fetcher", c.Fetcher.Name()).
				Msg("fetch failed, using sample data")
		case table.Empty():
			log.Warn().Str("ticker", symbol).Str("fetcher", c.Fetcher.Name()).
				Msg("provider returned no rows, using sample data")
		default:
			if table.Symbol == "" {
				table.Symbol = symbol
			}
			log.Info().Str("ticker", symbol).Int("rows", len(table.Index)).Msg("market data loaded")
			return table, model.SourceMarket, nil
		}
	}
	return c.Synthetic.Generate(symbol), model.SourceSynthetic, nil
}
