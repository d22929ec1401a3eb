package calculator

import (
	"errors"

	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/trend"

	"StockDash/internal/model"
)

// MinPointsForMA is the history length below which no moving averages are drawn.
const MinPointsForMA = 20

// MovingAverage returns the rolling simple moving average over period,
// dated by the last day of each window.
func MovingAverage(series model.PriceSeries, period int) ([]model.PricePoint, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if series.Len() < period {
		return nil, errors.New("not enough data for SMA calculation")
	}

	sma := trend.NewSmaWithPeriod[float64](period)
	values := helper.ChanToSlice(sma.Compute(helper.SliceToChan(series.Prices())))

	// values[i] covers the window ending at point i+period-1
	out := make([]model.PricePoint, 0, len(values))
	for i, v := range values {
		idx := i + period - 1
		if idx >= series.Len() {
			break
		}
		out = append(out, model.PricePoint{Date: series.Points[idx].Date, Price: v})
	}
	return out, nil
}

// MovingAverages returns the 20- and 50-day averages. Both are nil when the
// series has MinPointsForMA points or fewer; MA50 is nil below 50 points.
func MovingAverages(series model.PriceSeries) (ma20, ma50 []model.PricePoint) {
	if series.Len() <= MinPointsForMA {
		return nil, nil
	}
	ma20, _ = MovingAverage(series, 20)
	ma50, _ = MovingAverage(series, 50)
	return ma20, ma50
}
