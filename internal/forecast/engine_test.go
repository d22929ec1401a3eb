package forecast

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockDash/internal/model"
)

var start = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func seriesOf(prices ...float64) model.PriceSeries {
	pts := make([]model.PricePoint, len(prices))
	for i, p := range prices {
		pts[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Price: p}
	}
	return model.PriceSeries{Symbol: "TEST", Points: pts}
}

func linearSeries(n int, base, slope float64) model.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = base + slope*float64(i)
	}
	return seriesOf(prices...)
}

func wavySeries(n int) model.PriceSeries {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 150 + 10*math.Sin(float64(i)/5) + 0.3*float64(i)
	}
	return seriesOf(prices...)
}

// scripted replays a fixed sequence of normal draws.
type scripted struct {
	draws []float64
	i     int
}

func (s *scripted) NormFloat64() float64 {
	v := s.draws[s.i%len(s.draws)]
	s.i++
	return v
}

func assertShape(t *testing.T, series model.PriceSeries, res model.ForecastResult, horizon int) {
	t.Helper()
	require.Len(t, res.Points, horizon)
	last := series.Last().Date
	for i, p := range res.Points {
		assert.Equal(t, last.AddDate(0, 0, i+1), p.Date, "step %d", i)
		assert.GreaterOrEqual(t, p.Price, PriceFloor, "step %d", i)
		assert.False(t, math.IsNaN(p.Price))
	}
}

func TestForecast_ShapeForAllMethods(t *testing.T) {
	e := NewEngine(nil)
	series := wavySeries(120)
	for _, m := range model.Methods {
		for _, h := range []int{1, 7, 30, 90} {
			res, err := e.Forecast(series, h, m)
			require.NoError(t, err, "%s h=%d", m, h)
			assert.Equal(t, m, res.Method)
			assertShape(t, series, res, h)
		}
	}
}

func TestLinearRegression_PerfectLine(t *testing.T) {
	series := linearSeries(60, 100, 2)
	res, err := NewEngine(nil).Forecast(series, 5, model.LinearRegression)
	require.NoError(t, err)

	want := []float64{220, 222, 224, 226, 228}
	for i, p := range res.Points {
		assert.InDelta(t, want[i], p.Price, 1e-9)
	}
}

func TestLinearRegression_Deterministic(t *testing.T) {
	series := wavySeries(200)
	a, err := NewEngine(nil).Forecast(series, 30, model.LinearRegression)
	require.NoError(t, err)
	b, err := NewEngine(nil).Forecast(series, 30, model.LinearRegression)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLinearRegression_SinglePointIsFlat(t *testing.T) {
	series := seriesOf(87.5)
	res, err := NewEngine(nil).Forecast(series, 10, model.LinearRegression)
	require.NoError(t, err)
	assertShape(t, series, res, 10)
	for _, p := range res.Points {
		assert.Equal(t, 87.5, p.Price)
	}
}

func TestLinearRegression_FloorsNegativeExtrapolation(t *testing.T) {
	series := linearSeries(20, 40, -2) // reaches zero at t=20
	res, err := NewEngine(nil).Forecast(series, 10, model.LinearRegression)
	require.NoError(t, err)
	for _, p := range res.Points {
		assert.Equal(t, PriceFloor, p.Price)
	}
}

func TestMovingAverageTrend_ScriptedNoise(t *testing.T) {
	// last 10 prices rise by 1 per step, trend = 1, noise sigma = 0.5
	series := linearSeries(40, 10, 1)
	e := NewEngine(&scripted{draws: []float64{0, 1, -2}})
	res, err := e.Forecast(series, 3, model.MovingAverageTrend)
	require.NoError(t, err)

	last := series.Last().Price // 49
	want := []float64{last + 1, last + 1 + 1.5, last + 1 + 1.5 + 0}
	for i, p := range res.Points {
		assert.InDelta(t, want[i], p.Price, 1e-9)
	}
}

func TestMovingAverageTrend_UsesLastTenOfThirty(t *testing.T) {
	// early history falls steeply, only the final ten points matter
	prices := make([]float64, 0, 40)
	for i := 0; i < 30; i++ {
		prices = append(prices, 500-float64(i)*10)
	}
	for i := 0; i < 10; i++ {
		prices = append(prices, 300+float64(i)*3)
	}
	series := seriesOf(prices...)
	res, err := NewEngine(&scripted{draws: []float64{0}}).Forecast(series, 2, model.MovingAverageTrend)
	require.NoError(t, err)
	assert.InDelta(t, 327+3, res.Points[0].Price, 1e-9)
	assert.InDelta(t, 327+6, res.Points[1].Price, 1e-9)
}

func TestMovingAverageTrend_SinglePointZeroTrend(t *testing.T) {
	series := seriesOf(12)
	res, err := NewSeededEngine(1).Forecast(series, 5, model.MovingAverageTrend)
	require.NoError(t, err)
	for _, p := range res.Points {
		assert.Equal(t, 12.0, p.Price)
	}
}

func TestMovingAverageTrend_FloorHoldsOnCrash(t *testing.T) {
	series := linearSeries(30, 300, -10) // trend -10 from price 10
	res, err := NewEngine(&scripted{draws: []float64{0}}).Forecast(series, 20, model.MovingAverageTrend)
	require.NoError(t, err)
	assertShape(t, series, res, 20)
	for _, p := range res.Points {
		assert.Equal(t, PriceFloor, p.Price)
	}

	res, err = NewSeededEngine(3).Forecast(series, 20, model.MovingAverageTrend)
	require.NoError(t, err)
	assertShape(t, series, res, 20)
}

func TestSimpleProjection_ScriptedNoise(t *testing.T) {
	// constant 1% growth: mean return 0.01, stddev ~0
	prices := []float64{100}
	for i := 0; i < 40; i++ {
		prices = append(prices, prices[len(prices)-1]*1.01)
	}
	series := seriesOf(prices...)
	res, err := NewEngine(&scripted{draws: []float64{3, -3}}).Forecast(series, 3, model.SimpleProjection)
	require.NoError(t, err)

	p := series.Last().Price
	for i := 0; i < 3; i++ {
		p *= 1.01
		assert.InDelta(t, p, res.Points[i].Price, 1e-6)
	}
}

func TestSimpleProjection_DegenerateInputs(t *testing.T) {
	// one point: no returns, flat
	res, err := NewSeededEngine(9).Forecast(seriesOf(50), 4, model.SimpleProjection)
	require.NoError(t, err)
	for _, p := range res.Points {
		assert.Equal(t, 50.0, p.Price)
	}

	// two points: one return, zero stddev, deterministic drift
	res, err = NewSeededEngine(9).Forecast(seriesOf(100, 110), 2, model.SimpleProjection)
	require.NoError(t, err)
	assert.InDelta(t, 121, res.Points[0].Price, 1e-9)
	assert.InDelta(t, 133.1, res.Points[1].Price, 1e-9)
}

func TestStochasticMethods_SeedBehaviour(t *testing.T) {
	series := wavySeries(100)
	for _, m := range []model.Method{model.MovingAverageTrend, model.SimpleProjection} {
		a, err := NewSeededEngine(42).Forecast(series, 30, m)
		require.NoError(t, err)
		b, err := NewSeededEngine(42).Forecast(series, 30, m)
		require.NoError(t, err)
		c, err := NewSeededEngine(7).Forecast(series, 30, m)
		require.NoError(t, err)

		assert.Equal(t, a, b, "%s same seed", m)
		assert.NotEqual(t, a.Points, c.Points, "%s different seed", m)
		assertShape(t, series, c, 30)
	}
}

func TestStochasticMethods_RepeatedCallsDiffer(t *testing.T) {
	e := NewEngine(nil)
	series := wavySeries(100)
	for _, m := range []model.Method{model.MovingAverageTrend, model.SimpleProjection} {
		a, err := e.Forecast(series, 30, m)
		require.NoError(t, err)
		b, err := e.Forecast(series, 30, m)
		require.NoError(t, err)
		assert.NotEqual(t, a.Points, b.Points, m.String())
	}
}

func TestForecast_Errors(t *testing.T) {
	e := NewEngine(nil)
	series := wavySeries(10)

	_, err := e.Forecast(series, 0, model.LinearRegression)
	assert.True(t, errors.Is(err, model.ErrComputation))

	_, err = e.Forecast(series, -3, model.SimpleProjection)
	assert.True(t, errors.Is(err, model.ErrComputation))

	_, err = e.Forecast(model.PriceSeries{}, 5, model.LinearRegression)
	assert.True(t, errors.Is(err, model.ErrComputation))

	_, err = e.Forecast(seriesOf(math.NaN(), math.NaN()), 5, model.MovingAverageTrend)
	assert.True(t, errors.Is(err, model.ErrComputation))

	_, err = e.Forecast(series, 5, model.Method(99))
	assert.True(t, errors.Is(err, model.ErrComputation))
}

func TestForecast_SkipsInvalidPoints(t *testing.T) {
	series := seriesOf(100, math.NaN(), 102, math.Inf(1), 104)
	res, err := NewEngine(nil).Forecast(series, 3, model.LinearRegression)
	require.NoError(t, err)
	assertShape(t, series, res, 3)
	assert.InDelta(t, 106, res.Points[0].Price, 1e-9)
}

func TestForecast_NonFiniteDrawFallsBackToFlat(t *testing.T) {
	series := wavySeries(50)
	e := NewEngine(&scripted{draws: []float64{math.Inf(1)}})
	res, err := e.Forecast(series, 5, model.SimpleProjection)
	require.NoError(t, err)
	for _, p := range res.Points {
		assert.Equal(t, series.Last().Price, p.Price)
	}
}

func TestRun(t *testing.T) {
	series := linearSeries(10, 1, 1)
	res, err := NewEngine(nil).Run(model.ForecastRequest{Series: series, HorizonDays: 2, Method: model.LinearRegression})
	require.NoError(t, err)
	assert.InDelta(t, 11, res.Points[0].Price, 1e-9)
}
