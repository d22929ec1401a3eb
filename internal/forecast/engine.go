package forecast

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"StockDash/internal/model"
)

// PriceFloor is the lowest price any forecast step may produce.
const PriceFloor = 0.1

// Normal is the random source the stochastic methods draw from.
// *rand.Rand satisfies it.
type Normal interface {
	NormFloat64() float64
}

// pathFunc extrapolates horizon future prices from the observed prices.
type pathFunc func(prices []float64, horizon int, rng Normal) []float64

var paths = map[model.Method]pathFunc{
	model.LinearRegression:   linearPath,
	model.MovingAverageTrend: trendPath,
	model.SimpleProjection:   projectionPath,
}

// Engine produces price forecasts. It is safe for concurrent use; calls
// share the random source under a lock.
type Engine struct {
	mu  sync.Mutex
	rng Normal
}

// NewEngine creates an Engine drawing from rng. A nil rng seeds a fresh
// generator from runtime entropy.
func NewEngine(rng Normal) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Engine{rng: rng}
}

// NewSeededEngine creates an Engine whose stochastic output is reproducible.
func NewSeededEngine(seed uint64) *Engine {
	return NewEngine(rand.New(rand.NewPCG(seed, seed)))
}

// Run executes a forecast request.
func (e *Engine) Run(req model.ForecastRequest) (model.ForecastResult, error) {
	return e.Forecast(req.Series, req.HorizonDays, req.Method)
}

// Forecast extends series by horizonDays calendar days using method.
func (e *Engine) Forecast(series model.PriceSeries, horizonDays int, method model.Method) (model.ForecastResult, error) {
	if horizonDays <= 0 {
		return model.ForecastResult{}, fmt.Errorf("%w: horizon must be at least 1 day, got %d", model.ErrComputation, horizonDays)
	}
	gen, ok := paths[method]
	if !ok {
		return model.ForecastResult{}, fmt.Errorf("%w: unknown method %s", model.ErrComputation, method)
	}
	prices, err := observed(series)
	if err != nil {
		return model.ForecastResult{}, err
	}

	e.mu.Lock()
	path := gen(prices, horizonDays, e.rng)
	e.mu.Unlock()

	if !finite(path) || len(path) != horizonDays {
		log.Warn().Str("ticker", series.Symbol).Str("method", method.String()).
			Msg("forecast produced non-finite values, falling back to flat projection")
		path = flat(prices[len(prices)-1], horizonDays)
	}
	return build(method, series.Last().Date, path), nil
}

// observed extracts the usable prices. Points with a non-finite or
// non-positive price are ignored; if none remain the series is rejected.
func observed(series model.PriceSeries) ([]float64, error) {
	if series.Len() == 0 {
		return nil, fmt.Errorf("%w: empty price series", model.ErrComputation)
	}
	prices := make([]float64, 0, series.Len())
	for _, p := range series.Points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
			continue
		}
		prices = append(prices, p.Price)
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%w: series %s has no valid prices", model.ErrComputation, series.Symbol)
	}
	return prices, nil
}

// build dates each step one calendar day after the previous and applies the
// price floor. Dates continue from the series' final point.
func build(method model.Method, lastDate time.Time, path []float64) model.ForecastResult {
	points := make([]model.PricePoint, len(path))
	for i, p := range path {
		points[i] = model.PricePoint{
			Date:  lastDate.AddDate(0, 0, i+1),
			Price: math.Max(PriceFloor, p),
		}
	}
	return model.ForecastResult{Method: method, Points: points}
}

func flat(price float64, horizon int) []float64 {
	out := make([]float64, horizon)
	for i := range out {
		out[i] = price
	}
	return out
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
