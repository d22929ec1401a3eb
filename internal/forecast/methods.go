package forecast

import (
	"math"

	"StockDash/internal/calculator"
)

const (
	// recentWindow is how much recent history the stochastic methods look at.
	recentWindow = 30
	// trendWindow is the tail of recentWindow used for the drift estimate.
	trendWindow = 10
	// trendNoise scales the trend into its noise stddev.
	trendNoise = 0.5
)

// linearPath fits price = a + b*t by least squares over t = 0..n-1 and
// evaluates it at t = n..n+horizon-1.
func linearPath(prices []float64, horizon int, _ Normal) []float64 {
	n := len(prices)
	a, b := prices[0], 0.0
	if n > 1 {
		a, b = fitLine(prices)
	}
	out := make([]float64, horizon)
	for i := range out {
		out[i] = a + b*float64(n+i)
	}
	return out
}

func fitLine(y []float64) (intercept, slope float64) {
	n := float64(len(y))
	tMean := (n - 1) / 2
	yMean := calculator.Mean(y)
	var sxy, sxx float64
	for i, v := range y {
		dt := float64(i) - tMean
		sxy += dt * (v - yMean)
		sxx += dt * dt
	}
	if sxx == 0 {
		return yMean, 0
	}
	slope = sxy / sxx
	return yMean - slope*tMean, slope
}

// trendPath walks forward from the last price by the mean recent first
// difference plus normal noise proportional to that trend.
func trendPath(prices []float64, horizon int, rng Normal) []float64 {
	recent := tail(prices, recentWindow)
	trend := calculator.Mean(calculator.Diff(tail(recent, trendWindow)))
	if math.IsNaN(trend) {
		trend = 0
	}
	sigma := trendNoise * math.Abs(trend)

	out := make([]float64, horizon)
	current := prices[len(prices)-1]
	for i := range out {
		change := trend + sigma*rng.NormFloat64()
		current = math.Max(PriceFloor, current+change)
		out[i] = current
	}
	return out
}

// projectionPath is a random walk whose daily return is drawn from the mean
// and sample stddev of the most recent returns.
func projectionPath(prices []float64, horizon int, rng Normal) []float64 {
	returns := tail(calculator.PctChange(prices), recentWindow)
	mu := calculator.Mean(returns)
	if math.IsNaN(mu) {
		mu = 0
	}
	sigma := calculator.SampleStd(returns)
	if math.IsNaN(sigma) {
		sigma = 0
	}

	out := make([]float64, horizon)
	current := prices[len(prices)-1]
	for i := range out {
		r := mu + sigma*rng.NormFloat64()
		current = math.Max(PriceFloor, current+current*r)
		out[i] = current
	}
	return out
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}
