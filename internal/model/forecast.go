package model

import (
	"fmt"
	"strings"
)

// Method selects a forecast algorithm.
type Method int

const (
	LinearRegression Method = iota
	MovingAverageTrend
	SimpleProjection
)

// Methods lists every forecast method in display order.
var Methods = []Method{LinearRegression, MovingAverageTrend, SimpleProjection}

func (m Method) String() string {
	switch m {
	case LinearRegression:
		return "Linear Regression"
	case MovingAverageTrend:
		return "Moving Average Trend"
	case SimpleProjection:
		return "Simple Projection"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Key is the short identifier used in commands, config and the API.
func (m Method) Key() string {
	switch m {
	case LinearRegression:
		return "linear"
	case MovingAverageTrend:
		return "trend"
	case SimpleProjection:
		return "projection"
	default:
		return ""
	}
}

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	return m >= LinearRegression && m <= SimpleProjection
}

// ParseMethod accepts a method key or its display name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, m := range Methods {
		if v == m.Key() || v == strings.ToLower(m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown forecast method %q", ErrInvalidControl, s)
}

// ForecastRequest is built fresh for every forecast action.
type ForecastRequest struct {
	Series      PriceSeries
	HorizonDays int
	Method      Method
}

// ForecastResult is the predicted path: HorizonDays points, one calendar day apart.
type ForecastResult struct {
	Method Method
	Points []PricePoint
}

// ForecastSummary condenses a forecast for display.
type ForecastSummary struct {
	High      float64
	Low       float64
	End       float64
	ChangePct float64
	Bullish   bool
}
