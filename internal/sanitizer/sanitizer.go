package sanitizer

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"

	"StockDash/internal/model"
)

const closeField = "Close"

// Sanitize reduces a raw OHLCV table to a clean close-price series: numeric,
// NaN-free, one point per calendar day, oldest first. The table is not modified.
func Sanitize(table *model.OHLCVTable) (model.PriceSeries, error) {
	if table.Empty() {
		return model.PriceSeries{}, fmt.Errorf("%w: empty table", model.ErrDataUnavailable)
	}

	col, ok := closeColumn(table.Columns)
	if !ok {
		return model.PriceSeries{}, fmt.Errorf("%w: %s", model.ErrMissingField, table.Symbol)
	}

	byDay := make(map[time.Time]float64, len(table.Index))
	for i, ts := range table.Index {
		if i >= len(col.Values) {
			break
		}
		price, ok := toPrice(col.Values[i])
		if !ok {
			continue
		}
		// later rows win on duplicate dates
		byDay[calendarDay(ts)] = price
	}
	if len(byDay) == 0 {
		return model.PriceSeries{}, fmt.Errorf("%w: no valid close prices for %s", model.ErrDataUnavailable, table.Symbol)
	}

	points := make([]model.PricePoint, 0, len(byDay))
	for d, p := range byDay {
		points = append(points, model.PricePoint{Date: d, Price: p})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	return model.PriceSeries{Symbol: table.Symbol, Points: points}, nil
}

// closeColumn flattens hierarchical headers to their first level and returns
// the first column named Close.
func closeColumn(cols []model.Column) (model.Column, bool) {
	for _, c := range cols {
		if strings.EqualFold(strings.TrimSpace(c.Name()), closeField) {
			return c, true
		}
	}
	return model.Column{}, false
}

func toPrice(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case string:
		if strings.TrimSpace(n) == "" {
			return 0, false
		}
	case json.Number:
		if n == "" {
			return 0, false
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, false
	}
	return f, true
}

func calendarDay(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
