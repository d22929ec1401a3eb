package model

// Summary holds descriptive statistics over a price series.
type Summary struct {
	Points int
	High   float64
	Low    float64
	Mean   float64

	Current        float64
	DailyChange    float64
	DailyChangePct float64
	HasDailyChange bool

	// Volatility is the stddev of daily returns, in percent.
	Volatility    float64
	HasVolatility bool
}

// Overview is everything the dashboard shows for a ticker before forecasting.
type Overview struct {
	Ticker  string
	Source  DataSource
	Series  PriceSeries
	Summary Summary
	Recent  []PricePoint
	MA20    []PricePoint
	MA50    []PricePoint
}

// ForecastReport bundles a forecast with the history it extends.
type ForecastReport struct {
	Ticker  string
	Source  DataSource
	Days    int
	History PriceSeries
	Result  ForecastResult
	Summary ForecastSummary
}
