package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"

	"StockDash/internal/dashboard"
	"StockDash/internal/model"
	"StockDash/internal/notifier"
)

// Dashboard is the pipeline the scheduler and the bot commands drive.
type Dashboard interface {
	Tickers() []string
	Overview(ctx context.Context, ticker string) (*model.Overview, error)
	Forecast(ctx context.Context, c dashboard.Controls) (*model.ForecastReport, error)
}

// Sender delivers a formatted message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages the cron digest and answers bot commands.
type Scheduler struct {
	Cron          *cron.Cron
	Dashboard     Dashboard
	Notifier      Sender
	Ctx           context.Context
	DefaultDays   int
	DefaultMethod model.Method
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, dash Dashboard, sender Sender, days int, method model.Method) *Scheduler {
	return &Scheduler{
		Cron:          cron.New(cron.WithSeconds()),
		Dashboard:     dash,
		Notifier:      sender,
		Ctx:           ctx,
		DefaultDays:   days,
		DefaultMethod: method,
	}
}

// RegisterDigest schedules a forecast digest for ticker on a six-field cron expression.
func (s *Scheduler) RegisterDigest(expr, ticker string) error {
	if _, err := s.Cron.AddFunc(expr, func() { s.RunDigestNow(ticker) }); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	log.Info().Str("cron", expr).Str("ticker", ticker).Msg("digest registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running digest to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunDigestNow builds and sends the forecast digest for ticker.
func (s *Scheduler) RunDigestNow(ticker string) {
	log.Info().Str("ticker", ticker).Msg("running digest task")
	rep, err := s.Dashboard.Forecast(s.Ctx, dashboard.Controls{
		Ticker: ticker,
		Days:   s.DefaultDays,
		Method: s.DefaultMethod,
	})
	if err != nil {
		log.Error().Err(err).Str("ticker", ticker).Msg("digest forecast")
		s.trySend(notifier.FormatError(dashboard.UserMessage(err)))
		return
	}
	s.trySend(notifier.FormatForecast(rep))
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	name := strings.ToLower(fields[0])
	// Group chats address commands as /cmd@BotName.
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	args := fields[1:]

	switch name {
	case "/tickers":
		return notifier.FormatTickers(s.Dashboard.Tickers())
	case "/overview":
		if len(args) < 1 {
			return notifier.FormatError("usage: /overview <TICKER>")
		}
		ov, err := s.Dashboard.Overview(ctx, args[0])
		if err != nil {
			return notifier.FormatError(dashboard.UserMessage(err))
		}
		return notifier.FormatOverview(ov)
	case "/forecast":
		c, err := s.parseForecast(args)
		if err != nil {
			return notifier.FormatError(dashboard.UserMessage(err))
		}
		rep, err := s.Dashboard.Forecast(ctx, c)
		if err != nil {
			return notifier.FormatError(dashboard.UserMessage(err))
		}
		return notifier.FormatForecast(rep)
	default:
		return notifier.FormatHelp()
	}
}

// parseForecast reads "/forecast TICKER [days] [method]".
func (s *Scheduler) parseForecast(args []string) (dashboard.Controls, error) {
	c := dashboard.Controls{Days: s.DefaultDays, Method: s.DefaultMethod}
	if len(args) < 1 {
		return c, fmt.Errorf("%w: usage: /forecast <TICKER> [days] [method]", model.ErrInvalidControl)
	}
	c.Ticker = args[0]
	if len(args) > 1 {
		days, err := cast.ToIntE(args[1])
		if err != nil {
			return c, fmt.Errorf("%w: days must be a number, got %q", model.ErrInvalidControl, args[1])
		}
		c.Days = days
	}
	if len(args) > 2 {
		m, err := model.ParseMethod(strings.Join(args[2:], " "))
		if err != nil {
			return c, err
		}
		c.Method = m
	}
	return c, nil
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
