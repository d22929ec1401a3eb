package collector

import (
	"context"

	"StockDash/internal/model"
)

// DefaultPeriod is the history length the dashboard asks providers for.
const DefaultPeriod = "2y"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDaily returns the raw daily OHLCV table for period ("1mo" ... "2y").
	FetchDaily(ctx context.Context, symbol, period string) (*model.OHLCVTable, error)
	Name() string
}
