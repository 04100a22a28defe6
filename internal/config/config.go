package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of every date in the configuration.
const DateLayout = time.DateOnly

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Symbol    string `yaml:"symbol"`
		StartDate string `yaml:"start_date"`
		EndDate   string `yaml:"end_date"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		Adjusted  *bool  `yaml:"adjusted"`
	} `yaml:"data_source"`
	Backtest struct {
		InitialCapital *float64 `yaml:"initial_capital"`
	} `yaml:"backtest"`
	Chart struct {
		OutputPath string `yaml:"output_path"`
		OpenViewer *bool  `yaml:"open_viewer"`
	} `yaml:"chart"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from an optional YAML file and an optional .env file,
// then applies environment variable overrides and defaults.
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

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	// Environment variable overrides
	if v := os.Getenv("TICKER"); v != "" {
		cfg.DataSource.Symbol = v
	}
	if v := os.Getenv("START_DATE"); v != "" {
		cfg.DataSource.StartDate = v
	}
	if v := os.Getenv("END_DATE"); v != "" {
		cfg.DataSource.EndDate = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("INITIAL_CAPITAL"); v != "" {
		capital, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("parse INITIAL_CAPITAL: %w", err)
		}
		cfg.Backtest.InitialCapital = &capital
	}
	if v := os.Getenv("CHART_PATH"); v != "" {
		cfg.Chart.OutputPath = v
	}
	if v := os.Getenv("CHART_OPEN"); v != "" {
		open, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse CHART_OPEN: %w", err)
		}
		cfg.Chart.OpenViewer = &open
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	cfg.DataSource.Symbol = strings.ToUpper(strings.TrimSpace(cfg.DataSource.Symbol))
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "AAPL"
	}
	if cfg.DataSource.StartDate == "" {
		cfg.DataSource.StartDate = "2020-01-01"
	}
	if cfg.DataSource.EndDate == "" {
		cfg.DataSource.EndDate = time.Now().Format(DateLayout)
	}
	if cfg.DataSource.Adjusted == nil {
		adjusted := true
		cfg.DataSource.Adjusted = &adjusted
	}
	if cfg.Backtest.InitialCapital == nil {
		capital := 10000.0
		cfg.Backtest.InitialCapital = &capital
	}
	if cfg.Chart.OutputPath == "" {
		cfg.Chart.OutputPath = "golden_cross.png"
	}
	if cfg.Chart.OpenViewer == nil {
		open := true
		cfg.Chart.OpenViewer = &open
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.DataSource.Symbol == "" {
		return fmt.Errorf("data_source.symbol is required")
	}
	start, err := c.Start()
	if err != nil {
		return fmt.Errorf("data_source.start_date: %w", err)
	}
	end, err := c.End()
	if err != nil {
		return fmt.Errorf("data_source.end_date: %w", err)
	}
	if !start.Before(end) {
		return fmt.Errorf("data_source.start_date must be before end_date")
	}
	if c.Backtest.InitialCapital == nil || *c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// Start is the first date of the backtest window.
func (c *Config) Start() (time.Time, error) {
	return time.Parse(DateLayout, c.DataSource.StartDate)
}

// End is the exclusive last date of the backtest window.
func (c *Config) End() (time.Time, error) {
	return time.Parse(DateLayout, c.DataSource.EndDate)
}

// TelegramEnabled reports whether run summaries should also go to Telegram.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
