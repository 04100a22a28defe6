package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"GoldenCross/internal/chart"
	"GoldenCross/internal/collector"
	"GoldenCross/internal/model"
	"GoldenCross/internal/notifier"
	"GoldenCross/internal/strategy"
)

// ErrNoData is returned by Run when the source has no prices for the symbol.
var ErrNoData = errors.New("no price data")

const tickerPrompt = "Enter Stock Ticker (e.g., AAPL, TSLA, NVDA): "

// ReadTicker prompts on w and reads one line from r. Blank input, or no
// input at all, yields fallback.
func ReadTicker(r io.Reader, w io.Writer, fallback string) string {
	fmt.Fprint(w, tickerPrompt)
	line, _ := bufio.NewReader(r).ReadString('\n')
	symbol := strings.ToUpper(strings.TrimSpace(line))
	if symbol == "" {
		return strings.ToUpper(strings.TrimSpace(fallback))
	}
	return symbol
}

// Runner executes one backtest from fetch to chart.
type Runner struct {
	Collector *collector.Collector
	Sink      chart.Sink
	Console   *notifier.Console
	// Notifier is optional.
	Notifier *notifier.TelegramNotifier

	Capital    float64
	StartLabel string
	EndLabel   string

	logger zerolog.Logger
}

// NewRunner wires a Runner. notif may be nil.
func NewRunner(col *collector.Collector, sink chart.Sink, console *notifier.Console, notif *notifier.TelegramNotifier, capital float64, startLabel, endLabel string) *Runner {
	return &Runner{
		Collector:  col,
		Sink:       sink,
		Console:    console,
		Notifier:   notif,
		Capital:    capital,
		StartLabel: startLabel,
		EndLabel:   endLabel,
		logger:     log.With().Str("component", "runner").Logger(),
	}
}

// Run backtests symbol and returns the evaluated result. An empty price
// history prints the no-data line and returns ErrNoData without charting.
func (r *Runner) Run(ctx context.Context, symbol string) (*model.BacktestResult, error) {
	r.Console.Fetching(symbol)
	series, err := r.Collector.Collect(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", symbol, err)
	}
	if series.Empty() {
		r.Console.NoData()
		return nil, ErrNoData
	}

	res, err := strategy.Evaluate(series, r.Capital)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", symbol, err)
	}
	r.logger.Info().
		Str("symbol", symbol).
		Float64("market", res.FinalMarket).
		Float64("strategy", res.FinalStrategy).
		Int("days_in_market", res.DaysInMarket()).
		Msg("backtest finished")

	r.Console.Summary(res, r.StartLabel, r.EndLabel)
	r.trySend(ctx, notifier.FormatTelegramSummary(res, r.StartLabel, r.EndLabel))

	r.Console.GeneratingChart()
	if err := r.Sink.Render(ctx, chart.NewComparison(res)); err != nil {
		return res, fmt.Errorf("render chart: %w", err)
	}
	return res, nil
}

func (r *Runner) trySend(ctx context.Context, msg string) {
	if r.Notifier == nil {
		return
	}
	if err := r.Notifier.SendWithRetry(ctx, msg, 3); err != nil {
		r.logger.Error().Err(err).Msg("send telegram summary")
	}
}
