package collector

import (
	"math/rand/v2"
	"time"

	"StockDash/internal/model"
)

const syntheticSeed = 42

// priceRange is the low/high band sample prices are drawn from.
type priceRange struct {
	Low, High float64
}

var (
	syntheticRanges = map[string]priceRange{
		"AAPL":  {140, 200},
		"MSFT":  {240, 400},
		"GOOGL": {80, 160},
		"AMZN":  {100, 180},
		"TSLA":  {150, 300},
	}
	defaultRange = priceRange{100, 200}
)

// SyntheticGenerator produces a plausible two-year daily series when no
// market data can be fetched. Output depends only on the ticker and the clock.
type SyntheticGenerator struct {
	Now  func() time.Time
	Days int
}

// NewSyntheticGenerator creates a generator covering the last two years.
func NewSyntheticGenerator() *SyntheticGenerator {
	return &SyntheticGenerator{Now: time.Now, Days: 730}
}

// Generate builds the sample table for symbol: uniform noise inside the
// ticker's band plus a linear climb of 30% of the band over the period.
func (g *SyntheticGenerator) Generate(symbol string) *model.OHLCVTable {
	rg, ok := syntheticRanges[symbol]
	if !ok {
		rg = defaultRange
	}

	end := g.Now()
	y, m, d := end.Date()
	end = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	n := g.Days + 1

	r := rand.New(rand.NewPCG(syntheticSeed, syntheticSeed))
	span := rg.High - rg.Low
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = rg.Low + r.Float64()*span
	}

	bars := make([]model.OHLCV, n)
	for i := range bars {
		trend := 0.0
		if n > 1 {
			trend = span * 0.3 * float64(i) / float64(n-1)
		}
		c := closes[i] + trend
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, i-g.Days),
			Open:   c * 0.99,
			High:   c * 1.02,
			Low:    c * 0.98,
			Close:  c,
			Volume: float64(10_000_000 + r.IntN(40_000_000)),
		}
	}

	table := model.TableFromBars(symbol, bars)
	// single-symbol sample data carries flat headers
	for i := range table.Columns {
		table.Columns[i].Levels = table.Columns[i].Levels[:1]
	}
	return table
}
