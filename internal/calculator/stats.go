package calculator

import (
	"errors"
	"math"

	"StockDash/internal/model"
)

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// SampleStd returns the sample (n-1) standard deviation, or NaN with fewer
// than two values.
func SampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// PctChange returns the day-over-day fractional returns. Pairs whose base is
// zero or whose result is not finite are skipped.
func PctChange(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		r := (prices[i] - prices[i-1]) / prices[i-1]
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// Diff returns the first differences of prices.
func Diff(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		out[i-1] = prices[i] - prices[i-1]
	}
	return out
}

// Range returns the highest and lowest price.
func Range(prices []float64) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	return high, low, nil
}

// Volatility is the sample stddev of daily returns in percent. It needs at
// least two returns.
func Volatility(prices []float64) (float64, error) {
	returns := PctChange(prices)
	if len(returns) < 2 {
		return 0, errors.New("not enough data for volatility")
	}
	return SampleStd(returns) * 100, nil
}

// Summarize computes the descriptive statistics shown next to a chart.
func Summarize(series model.PriceSeries) (model.Summary, error) {
	prices := series.Prices()
	high, low, err := Range(prices)
	if err != nil {
		return model.Summary{}, err
	}
	sum := model.Summary{
		Points:  len(prices),
		High:    high,
		Low:     low,
		Mean:    Mean(prices),
		Current: prices[len(prices)-1],
	}
	if n := len(prices); n > 1 {
		prev := prices[n-2]
		sum.DailyChange = sum.Current - prev
		sum.DailyChangePct = sum.DailyChange / prev * 100
		sum.HasDailyChange = true
	}
	if v, err := Volatility(prices); err == nil {
		sum.Volatility = v
		sum.HasVolatility = true
	}
	return sum, nil
}

// SummarizeForecast reports the extremes and end point of a forecast relative
// to the last observed price.
func SummarizeForecast(lastPrice float64, result model.ForecastResult) (model.ForecastSummary, error) {
	if len(result.Points) == 0 {
		return model.ForecastSummary{}, errors.New("empty forecast")
	}
	prices := make([]float64, len(result.Points))
	for i, p := range result.Points {
		prices[i] = p.Price
	}
	high, low, _ := Range(prices)
	end := prices[len(prices)-1]
	fs := model.ForecastSummary{High: high, Low: low, End: end, Bullish: end > lastPrice}
	if lastPrice != 0 {
		fs.ChangePct = (end - lastPrice) / lastPrice * 100
	}
	return fs, nil
}
