package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"StockDash/internal/calculator"
	"StockDash/internal/collector"
	"StockDash/internal/forecast"
	"StockDash/internal/model"
	"StockDash/internal/sanitizer"
)

// RecentCount is how many of the latest closes the overview lists.
const RecentCount = 5

// Service runs one synchronous pipeline pass per user action:
// fetch, sanitize, then statistics or a forecast. Nothing is kept between calls.
type Service struct {
	collector *collector.Collector
	engine    *forecast.Engine
	tickers   []string
	validate  *validator.Validate
}

// NewService creates a Service offering the given tickers.
func NewService(col *collector.Collector, engine *forecast.Engine, tickers []string) *Service {
	if len(tickers) == 0 {
		tickers = model.KnownTickers
	}
	return &Service{
		collector: col,
		engine:    engine,
		tickers:   tickers,
		validate:  newValidator(tickers),
	}
}

// Tickers returns the selectable symbols.
func (s *Service) Tickers() []string {
	return append([]string(nil), s.tickers...)
}

// Overview loads a ticker and computes everything shown before a forecast.
func (s *Service) Overview(ctx context.Context, ticker string) (*model.Overview, error) {
	ticker = normalizeTicker(ticker)
	if err := s.validate.Var(ticker, "required,ticker"); err != nil {
		return nil, fmt.Errorf("%w: ticker %q is not one of %s", model.ErrInvalidControl, ticker, strings.Join(s.tickers, ", "))
	}
	series, source, err := s.load(ctx, ticker)
	if err != nil {
		return nil, err
	}
	summary, err := calculator.Summarize(series)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrDataUnavailable, err)
	}
	ma20, ma50 := calculator.MovingAverages(series)
	return &model.Overview{
		Ticker:  ticker,
		Source:  source,
		Series:  series,
		Summary: summary,
		Recent:  series.Tail(RecentCount),
		MA20:    ma20,
		MA50:    ma50,
	}, nil
}

// Forecast validates the controls and produces a forecast report.
func (s *Service) Forecast(ctx context.Context, c Controls) (*model.ForecastReport, error) {
	c.Ticker = normalizeTicker(c.Ticker)
	if err := s.validate.Struct(c); err != nil {
		return nil, validationError(err, s.tickers)
	}
	series, source, err := s.load(ctx, c.Ticker)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Run(model.ForecastRequest{Series: series, HorizonDays: c.Days, Method: c.Method})
	if err != nil {
		return nil, fmt.Errorf("forecast %s: %w", c.Ticker, err)
	}
	summary, err := calculator.SummarizeForecast(series.Last().Price, result)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrComputation, err)
	}
	log.Info().Str("ticker", c.Ticker).Str("method", c.Method.String()).Int("days", c.Days).
		Str("source", string(source)).Msg("forecast generated")

	return &model.ForecastReport{
		Ticker:  c.Ticker,
		Source:  source,
		Days:    c.Days,
		History: series,
		Result:  result,
		Summary: summary,
	}, nil
}

func (s *Service) load(ctx context.Context, ticker string) (model.PriceSeries, model.DataSource, error) {
	table, source, err := s.collector.Collect(ctx, ticker)
	if err != nil {
		return model.PriceSeries{}, "", err
	}
	series, err := sanitizer.Sanitize(table)
	if err != nil {
		return model.PriceSeries{}, source, fmt.Errorf("sanitize %s: %w", ticker, err)
	}
	return series, source, nil
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// UserMessage renders a pipeline error as the short text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, model.ErrInvalidControl):
		return "Invalid input: " + strings.TrimPrefix(err.Error(), model.ErrInvalidControl.Error()+": ")
	case errors.Is(err, model.ErrMissingField):
		return "No Close price data available"
	case errors.Is(err, model.ErrDataUnavailable):
		return "No valid price data available"
	case errors.Is(err, model.ErrComputation):
		return fmt.Sprintf("Forecasting error: %v. Try selecting a different forecasting method or check your data.", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "Request cancelled"
	default:
		return fmt.Sprintf("Data processing error: %v", err)
	}
}
