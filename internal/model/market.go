package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Column is one raw column of an OHLCV table. Levels[0] is the field name
// ("Open", "Close", ...); a multi-symbol batch fetch adds the ticker as a
// second level. Values keep whatever the provider sent, nil included.
type Column struct {
	Levels []string
	Values []any
}

// Name returns the top-level field name of the column.
func (c Column) Name() string {
	if len(c.Levels) == 0 {
		return ""
	}
	return c.Levels[0]
}

// OHLCVTable is a provider's raw, time-indexed price table.
type OHLCVTable struct {
	Symbol  string
	Index   []time.Time
	Columns []Column
}

// Empty reports whether the table carries no rows.
func (t *OHLCVTable) Empty() bool {
	return t == nil || len(t.Index) == 0
}

// TableFromBars lays bars out as a table whose columns are tagged with the
// symbol as a second level, the way a batch download presents them.
func TableFromBars(symbol string, bars []OHLCV) *OHLCVTable {
	t := &OHLCVTable{Symbol: symbol, Index: make([]time.Time, len(bars))}
	fields := []string{"Open", "High", "Low", "Close", "Volume"}
	cols := make([][]any, len(fields))
	for i := range cols {
		cols[i] = make([]any, len(bars))
	}
	for i, b := range bars {
		t.Index[i] = b.Time
		cols[0][i] = b.Open
		cols[1][i] = b.High
		cols[2][i] = b.Low
		cols[3][i] = b.Close
		cols[4][i] = b.Volume
	}
	for i, f := range fields {
		t.Columns = append(t.Columns, Column{Levels: []string{f, symbol}, Values: cols[i]})
	}
	return t
}

// DataSource tells where a price series came from.
type DataSource string

const (
	SourceMarket    DataSource = "MARKET"
	SourceSynthetic DataSource = "SYNTHETIC"
)

// PricePoint is one dated closing price.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// PriceSeries is a chronological, gap-free close-price series.
type PriceSeries struct {
	Symbol string
	Points []PricePoint
}

func (s PriceSeries) Len() int { return len(s.Points) }

// Prices returns the closing prices in order.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Points))
	for i, p := range s.Points {
		prices[i] = p.Price
	}
	return prices
}

// Last returns the most recent point. The series must not be empty.
func (s PriceSeries) Last() PricePoint {
	return s.Points[len(s.Points)-1]
}

// Tail returns the last n points, or all of them when the series is shorter.
func (s PriceSeries) Tail(n int) []PricePoint {
	if n >= len(s.Points) {
		return s.Points
	}
	return s.Points[len(s.Points)-n:]
}

// KnownTickers is the closed set of symbols the dashboard offers.
var KnownTickers = []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"}
