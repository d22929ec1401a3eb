package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Logger logs one line per HTTP request.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// NewRouter wires the HTTP routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), Logger())

	r.GET("/healthz", h.Health)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/tickers", h.ListTickers)
		v1.GET("/tickers/:ticker", h.GetOverview)
		v1.POST("/forecast", h.CreateForecast)
	}
	return r
}
