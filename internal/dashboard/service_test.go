package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/collector"
	"StockDash/internal/forecast"
	"StockDash/internal/model"
)

func barsOf(n int, price func(i int) float64) []model.OHLCV {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := range bars {
		p := price(i)
		bars[i] = model.OHLCV{Time: start.AddDate(0, 0, i), Open: p, High: p, Low: p, Close: p, Volume: 1000}
	}
	return bars
}

func newTestService(fetcher collector.Fetcher) *Service {
	col := collector.NewCollector(fetcher, "")
	col.Synthetic.Now = func() time.Time { return time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC) }
	return NewService(col, forecast.NewSeededEngine(7), nil)
}

func TestOverview_MarketData(t *testing.T) {
	table := model.TableFromBars("AAPL", barsOf(60, func(i int) float64 { return 100 + float64(i) }))
	svc := newTestService(&collector.MockFetcher{Table: table})

	ov, err := svc.Overview(context.Background(), " aapl ")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", ov.Ticker)
	assert.Equal(t, model.SourceMarket, ov.Source)
	assert.Equal(t, 60, ov.Summary.Points)
	assert.InDelta(t, 159, ov.Summary.Current, 1e-9)
	assert.InDelta(t, 1, ov.Summary.DailyChange, 1e-9)
	require.Len(t, ov.Recent, RecentCount)
	assert.InDelta(t, 159, ov.Recent[4].Price, 1e-9)
	assert.Len(t, ov.MA20, 41)
	assert.Len(t, ov.MA50, 11)
}

func TestOverview_FallsBackToSynthetic(t *testing.T) {
	svc := newTestService(&collector.MockFetcher{Err: errors.New("connection refused")})

	ov, err := svc.Overview(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, model.SourceSynthetic, ov.Source)
	assert.Equal(t, 731, ov.Summary.Points)
	assert.True(t, ov.Summary.HasVolatility)
}

func TestOverview_ShortSeriesSkipsMovingAverages(t *testing.T) {
	table := model.TableFromBars("MSFT", barsOf(15, func(i int) float64 { return 300 }))
	svc := newTestService(&collector.MockFetcher{Table: table})

	ov, err := svc.Overview(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Nil(t, ov.MA20)
	assert.Nil(t, ov.MA50)
}

func TestOverview_UnknownTicker(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	svc := newTestService(fetcher)

	_, err := svc.Overview(context.Background(), "NFLX")
	assert.ErrorIs(t, err, model.ErrInvalidControl)
	assert.Zero(t, fetcher.Calls)
}

func TestOverview_MissingClose(t *testing.T) {
	table := &model.OHLCVTable{
		Symbol:  "AAPL",
		Index:   []time.Time{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		Columns: []model.Column{{Levels: []string{"Open"}, Values: []any{1.0}}},
	}
	svc := newTestService(&collector.MockFetcher{Table: table})

	_, err := svc.Overview(context.Background(), "AAPL")
	assert.ErrorIs(t, err, model.ErrMissingField)
	assert.Equal(t, "No Close price data available", UserMessage(err))
}

func TestForecast_LinearOnMarketData(t *testing.T) {
	table := model.TableFromBars("GOOGL", barsOf(60, func(i int) float64 { return 100 + 2*float64(i) }))
	svc := newTestService(&collector.MockFetcher{Table: table})

	rep, err := svc.Forecast(context.Background(), Controls{Ticker: "GOOGL", Days: 7, Method: model.LinearRegression})
	require.NoError(t, err)

	assert.Equal(t, model.SourceMarket, rep.Source)
	assert.Equal(t, 7, rep.Days)
	require.Len(t, rep.Result.Points, 7)
	assert.InDelta(t, 220, rep.Result.Points[0].Price, 1e-6)
	assert.Equal(t, rep.History.Last().Date.AddDate(0, 0, 1), rep.Result.Points[0].Date)
	assert.True(t, rep.Summary.Bullish)
	assert.InDelta(t, 232, rep.Summary.End, 1e-6)
}

func TestForecast_AllMethodsOnSynthetic(t *testing.T) {
	svc := newTestService(&collector.MockFetcher{Err: errors.New("offline")})

	for _, m := range model.Methods {
		for _, days := range []int{MinDays, 30, MaxDays} {
			t.Run(fmt.Sprintf("%s/%d", m.Key(), days), func(t *testing.T) {
				rep, err := svc.Forecast(context.Background(), Controls{Ticker: "AMZN", Days: days, Method: m})
				require.NoError(t, err)
				require.Len(t, rep.Result.Points, days)
				for _, p := range rep.Result.Points {
					assert.GreaterOrEqual(t, p.Price, forecast.PriceFloor)
				}
			})
		}
	}
}

func TestForecast_InvalidControls(t *testing.T) {
	fetcher := &collector.MockFetcher{}
	svc := newTestService(fetcher)

	tests := []struct {
		name string
		c    Controls
		want string
	}{
		{"days too low", Controls{Ticker: "AAPL", Days: 6}, "days must be between 7 and 90"},
		{"days too high", Controls{Ticker: "AAPL", Days: 91}, "days must be between 7 and 90"},
		{"ticker", Controls{Ticker: "NFLX", Days: 30}, "is not one of"},
		{"method", Controls{Ticker: "AAPL", Days: 30, Method: model.Method(9)}, "unknown forecast method"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Forecast(context.Background(), tt.c)
			require.ErrorIs(t, err, model.ErrInvalidControl)
			assert.Contains(t, UserMessage(err), tt.want)
		})
	}
	assert.Zero(t, fetcher.Calls)
}

func TestForecast_CancelledContext(t *testing.T) {
	svc := newTestService(&collector.MockFetcher{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Forecast(ctx, Controls{Ticker: "AAPL", Days: 30})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Request cancelled", UserMessage(err))
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "No valid price data available", UserMessage(fmt.Errorf("x: %w", model.ErrDataUnavailable)))
	assert.Equal(t, "Invalid input: days must be between 7 and 90",
		UserMessage(fmt.Errorf("%w: days must be between 7 and 90", model.ErrInvalidControl)))
	assert.Contains(t, UserMessage(fmt.Errorf("%w: bad", model.ErrComputation)), "Try selecting a different forecasting method")
	assert.Equal(t, "Data processing error: boom", UserMessage(errors.New("boom")))
}
