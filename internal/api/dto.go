package api

import "StockDash/internal/model"

const dateLayout = "2006-01-02"

type pointDTO struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

func points(pp []model.PricePoint) []pointDTO {
	out := make([]pointDTO, len(pp))
	for i, p := range pp {
		out[i] = pointDTO{Date: p.Date.Format(dateLayout), Price: p.Price}
	}
	return out
}

type summaryDTO struct {
	Points         int      `json:"points"`
	High           float64  `json:"high"`
	Low            float64  `json:"low"`
	Mean           float64  `json:"mean"`
	Current        float64  `json:"current"`
	DailyChange    *float64 `json:"daily_change"`
	DailyChangePct *float64 `json:"daily_change_pct"`
	Volatility     *float64 `json:"volatility"`
}

type overviewResponse struct {
	Ticker  string     `json:"ticker"`
	Source  string     `json:"source"`
	Summary summaryDTO `json:"summary"`
	Recent  []pointDTO `json:"recent"`
	MA20    []pointDTO `json:"ma20"`
	MA50    []pointDTO `json:"ma50"`
	History []pointDTO `json:"history"`
}

func newOverviewResponse(ov *model.Overview) overviewResponse {
	s := ov.Summary
	sum := summaryDTO{Points: s.Points, High: s.High, Low: s.Low, Mean: s.Mean, Current: s.Current}
	if s.HasDailyChange {
		sum.DailyChange, sum.DailyChangePct = &s.DailyChange, &s.DailyChangePct
	}
	if s.HasVolatility {
		sum.Volatility = &s.Volatility
	}
	return overviewResponse{
		Ticker:  ov.Ticker,
		Source:  string(ov.Source),
		Summary: sum,
		Recent:  points(ov.Recent),
		MA20:    points(ov.MA20),
		MA50:    points(ov.MA50),
		History: points(ov.Series.Points),
	}
}

type forecastRequest struct {
	Ticker string `json:"ticker" binding:"required"`
	Days   int    `json:"days"`
	Method string `json:"method"`
}

type forecastSummaryDTO struct {
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	End       float64 `json:"end"`
	ChangePct float64 `json:"change_pct"`
	Outlook   string  `json:"outlook"`
}

type forecastResponse struct {
	Ticker     string             `json:"ticker"`
	Source     string             `json:"source"`
	Method     string             `json:"method"`
	Days       int                `json:"days"`
	LastClose  pointDTO           `json:"last_close"`
	Summary    forecastSummaryDTO `json:"summary"`
	Forecast   []pointDTO         `json:"forecast"`
	Disclaimer string             `json:"disclaimer"`
}

type errorResponse struct {
	Error string `json:"error"`
}
