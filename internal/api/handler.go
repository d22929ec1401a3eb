package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"StockDash/internal/dashboard"
	"StockDash/internal/model"
	"StockDash/internal/notifier"
)

// Dashboard is the pipeline the HTTP handlers expose.
type Dashboard interface {
	Tickers() []string
	Overview(ctx context.Context, ticker string) (*model.Overview, error)
	Forecast(ctx context.Context, c dashboard.Controls) (*model.ForecastReport, error)
}

// Handler serves the dashboard over HTTP.
type Handler struct {
	dash          Dashboard
	defaultDays   int
	defaultMethod model.Method
}

// NewHandler creates a new Handler.
func NewHandler(dash Dashboard, defaultDays int, defaultMethod model.Method) *Handler {
	return &Handler{dash: dash, defaultDays: defaultDays, defaultMethod: defaultMethod}
}

// ListTickers handles GET /api/v1/tickers
func (h *Handler) ListTickers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tickers": h.dash.Tickers()})
}

// GetOverview handles GET /api/v1/tickers/:ticker
func (h *Handler) GetOverview(c *gin.Context) {
	ov, err := h.dash.Overview(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newOverviewResponse(ov))
}

// CreateForecast handles POST /api/v1/forecast
func (h *Handler) CreateForecast(c *gin.Context) {
	var req forecastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body: ticker is required"})
		return
	}

	ctl := dashboard.Controls{Ticker: req.Ticker, Days: req.Days, Method: h.defaultMethod}
	if ctl.Days == 0 {
		ctl.Days = h.defaultDays
	}
	if req.Method != "" {
		m, err := model.ParseMethod(req.Method)
		if err != nil {
			h.fail(c, err)
			return
		}
		ctl.Method = m
	}

	rep, err := h.dash.Forecast(c.Request.Context(), ctl)
	if err != nil {
		h.fail(c, err)
		return
	}

	outlook := "bearish"
	if rep.Summary.Bullish {
		outlook = "bullish"
	}
	last := rep.History.Last()
	c.JSON(http.StatusOK, forecastResponse{
		Ticker:    rep.Ticker,
		Source:    string(rep.Source),
		Method:    rep.Result.Method.Key(),
		Days:      rep.Days,
		LastClose: pointDTO{Date: last.Date.Format(dateLayout), Price: last.Price},
		Summary: forecastSummaryDTO{
			High:      rep.Summary.High,
			Low:       rep.Summary.Low,
			End:       rep.Summary.End,
			ChangePct: rep.Summary.ChangePct,
			Outlook:   outlook,
		},
		Forecast:   points(rep.Result.Points),
		Disclaimer: notifier.Disclaimer,
	})
}

// Health handles GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, errorResponse{Error: dashboard.UserMessage(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrInvalidControl):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrMissingField), errors.Is(err, model.ErrDataUnavailable), errors.Is(err, model.ErrComputation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
