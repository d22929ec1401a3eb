package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in   string
		want Method
	}{
		{"linear", LinearRegression},
		{"Linear Regression", LinearRegression},
		{" TREND ", MovingAverageTrend},
		{"moving average trend", MovingAverageTrend},
		{"projection", SimpleProjection},
		{"Simple Projection", SimpleProjection},
	}
	for _, tt := range tests {
		m, err := ParseMethod(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, m, tt.in)
	}

	_, err := ParseMethod("arima")
	assert.True(t, errors.Is(err, ErrInvalidControl))
}

func TestMethod_Valid(t *testing.T) {
	for _, m := range Methods {
		assert.True(t, m.Valid())
		assert.NotEmpty(t, m.Key())
	}
	assert.False(t, Method(7).Valid())
	assert.Equal(t, "Method(7)", Method(7).String())
}

func TestTableFromBars(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []OHLCV{
		{Time: day, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100},
		{Time: day.AddDate(0, 0, 1), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200},
	}
	tbl := TableFromBars("AAPL", bars)

	require.Len(t, tbl.Index, 2)
	require.Len(t, tbl.Columns, 5)
	assert.False(t, tbl.Empty())
	assert.Equal(t, "Close", tbl.Columns[3].Name())
	assert.Equal(t, []string{"Close", "AAPL"}, tbl.Columns[3].Levels)
	assert.Equal(t, []any{1.5, 2.0}, tbl.Columns[3].Values)

	var nilTable *OHLCVTable
	assert.True(t, nilTable.Empty())
}

func TestPriceSeries_Tail(t *testing.T) {
	s := PriceSeries{Points: []PricePoint{{Price: 1}, {Price: 2}, {Price: 3}}}
	assert.Len(t, s.Tail(2), 2)
	assert.Len(t, s.Tail(10), 3)
	assert.Equal(t, 3.0, s.Last().Price)
	assert.Equal(t, []float64{1, 2, 3}, s.Prices())
}
