package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"GoldenCross/internal/chart"
	"GoldenCross/internal/collector"
	"GoldenCross/internal/config"
	"GoldenCross/internal/notifier"
	"GoldenCross/internal/runner"
)

func main() {
	setupLogging("info")

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	setupLogging(cfg.Logging.Level)

	start, _ := cfg.Start()
	end, _ := cfg.End()

	var source collector.PriceDataSource
	if cfg.DataSource.BaseURL != "" {
		source = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		source = collector.NewYahooFetcher(cfg.Proxy, *cfg.DataSource.Adjusted)
	}
	log.Info().Str("source", source.Name()).Msg("data source selected")

	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	}

	r := runner.NewRunner(
		collector.NewCollector(source, start, end),
		chart.NewPlotSink(cfg.Chart.OutputPath, *cfg.Chart.OpenViewer),
		notifier.NewConsole(os.Stdout),
		tn,
		*cfg.Backtest.InitialCapital,
		cfg.DataSource.StartDate,
		cfg.DataSource.EndDate,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	symbol := runner.ReadTicker(os.Stdin, os.Stdout, cfg.DataSource.Symbol)
	if _, err := r.Run(ctx, symbol); err != nil {
		if errors.Is(err, runner.ErrNoData) {
			return
		}
		stop()
		log.Fatal().Err(err).Str("symbol", symbol).Msg("backtest failed")
	}
}

func setupLogging(level string) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(output).Level(lvl)
}
