package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StockDash/internal/model"
)

// Config holds all application configuration.
type Config struct {
	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`
	DataSource struct {
		BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
		APIKey  string        `yaml:"api_key"`
		Period  string        `yaml:"period" default:"2y" validate:"oneof=1mo 3mo 6mo 1y 2y 5y"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"data_source"`
	Tickers  []string `yaml:"tickers" validate:"min=1,dive,required,uppercase"`
	Forecast struct {
		DefaultDays   int    `yaml:"default_days" default:"30" validate:"min=7,max=90"`
		DefaultMethod string `yaml:"default_method" default:"linear" validate:"oneof=linear trend projection"`
	} `yaml:"forecast"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		DigestCron   string `yaml:"digest_cron"`
		DigestTicker string `yaml:"digest_ticker" default:"AAPL"`
	} `yaml:"schedule"`
	Server struct {
		Addr string `yaml:"addr" default:":8080"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, fills defaults, then applies
// environment variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_DIGEST"); v != "" {
		cfg.Schedule.DigestCron = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	// Defaults
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = append([]string(nil), model.KnownTickers...)
	}

	return cfg, nil
}

// Validate checks field formats and ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	if c.Schedule.DigestCron != "" && c.Telegram.BotToken == "" {
		return fmt.Errorf("schedule.digest_cron requires telegram.bot_token")
	}
	return nil
}

// ValidateBot checks the fields the Telegram bot needs.
func (c *Config) ValidateBot() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}
