package main

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"StockDash/internal/api"
	"StockDash/internal/collector"
	"StockDash/internal/config"
	"StockDash/internal/dashboard"
	"StockDash/internal/forecast"
	"StockDash/internal/logging"
	"StockDash/internal/model"
	"StockDash/internal/notifier"
	"StockDash/internal/scheduler"
)

var tagRE = regexp.MustCompile(`<[^>]+>`)

func main() {
	mode := flag.String("mode", "report", "run mode: report, bot or serve")
	ticker := flag.String("ticker", "AAPL", "ticker for report mode")
	days := flag.Int("days", 0, "forecast horizon in days for report mode (7-90)")
	method := flag.String("method", "", "forecast method for report mode: linear, trend or projection")
	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" && !flag.CommandLine.Changed("config") {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format, nil); err != nil {
		fmt.Fprintf(os.Stderr, "setup logging: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("mode", *mode).Msg("StockDash starting...")

	defaultMethod, err := model.ParseMethod(cfg.Forecast.DefaultMethod)
	if err != nil {
		log.Fatal().Err(err).Msg("forecast.default_method")
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.Timeout)
	}
	log.Info().Str("fetcher", fetcher.Name()).Msg("data source")

	col := collector.NewCollector(fetcher, cfg.DataSource.Period)
	svc := dashboard.NewService(col, forecast.NewEngine(nil), cfg.Tickers)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "report":
		c := dashboard.Controls{Ticker: *ticker, Days: cfg.Forecast.DefaultDays, Method: defaultMethod}
		if *days != 0 {
			c.Days = *days
		}
		if *method != "" {
			if c.Method, err = model.ParseMethod(*method); err != nil {
				fmt.Fprintln(os.Stderr, dashboard.UserMessage(err))
				os.Exit(2)
			}
		}
		if err := runReport(ctx, svc, c); err != nil {
			fmt.Fprintln(os.Stderr, dashboard.UserMessage(err))
			os.Exit(1)
		}
	case "bot":
		if err := cfg.ValidateBot(); err != nil {
			log.Fatal().Err(err).Msg("config validation")
		}
		runBot(ctx, cfg, svc, defaultMethod)
	case "serve":
		runServer(ctx, cfg, svc, defaultMethod)
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}
	log.Info().Msg("StockDash stopped")
}

// runReport prints an overview and a forecast for one ticker.
func runReport(ctx context.Context, svc *dashboard.Service, c dashboard.Controls) error {
	ov, err := svc.Overview(ctx, c.Ticker)
	if err != nil {
		return err
	}
	rep, err := svc.Forecast(ctx, c)
	if err != nil {
		return err
	}
	fmt.Println(plain(notifier.FormatOverview(ov)))
	fmt.Println()
	fmt.Println(plain(notifier.FormatForecast(rep)))
	return nil
}

func plain(s string) string {
	return html.UnescapeString(tagRE.ReplaceAllString(s, ""))
}

func newTelegram(cfg *config.Config, handler notifier.CommandHandler) *notifier.TelegramNotifier {
	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, handler)
	if err != nil {
		log.Fatal().Err(err).Msg("init telegram notifier")
	}
	return tn
}

// startDigest registers the optional cron digest and reports whether the
// scheduler was started.
func startDigest(sched *scheduler.Scheduler, cfg *config.Config) bool {
	if cfg.Schedule.DigestCron == "" {
		return false
	}
	if err := sched.RegisterDigest(cfg.Schedule.DigestCron, cfg.Schedule.DigestTicker); err != nil {
		log.Fatal().Err(err).Msg("register cron tasks")
	}
	sched.Start()
	return true
}

func runBot(ctx context.Context, cfg *config.Config, svc *dashboard.Service, method model.Method) {
	sched := scheduler.NewScheduler(ctx, svc, nil, cfg.Forecast.DefaultDays, method)
	tn := newTelegram(cfg, sched.HandleCommand)
	sched.Notifier = tn

	if startDigest(sched, cfg) {
		defer sched.Stop()
	}

	log.Info().Msg("StockDash bot is running. Press Ctrl+C to stop.")
	tn.StartPolling(ctx)
	log.Info().Msg("shutdown signal received, stopping...")
}

func runServer(ctx context.Context, cfg *config.Config, svc *dashboard.Service, method model.Method) {
	if cfg.Schedule.DigestCron != "" {
		sched := scheduler.NewScheduler(ctx, svc, nil, cfg.Forecast.DefaultDays, method)
		sched.Notifier = newTelegram(cfg, nil)
		if startDigest(sched, cfg) {
			defer sched.Stop()
		}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(api.NewHandler(svc, cfg.Forecast.DefaultDays, method)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}
