package chart

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"time"

	"gonum.org/v1/plot/vg"

	"GoldenCross/internal/model"
)

var ErrNoSeries = errors.New("chart has no data")

// Line is one dated series of a chart.
type Line struct {
	Label  string
	Dates  []time.Time
	Values []float64
	Color  color.Color
	Width  vg.Length
	Dashed bool
}

// Chart is everything a Sink needs to draw a comparison.
type Chart struct {
	Title  string
	XLabel string
	YLabel string
	Lines  []Line
	Grid   bool
}

// Sink consumes a finished chart. Render returns once the chart has been
// handed off.
type Sink interface {
	Render(ctx context.Context, c Chart) error
}

var (
	gray  = color.Gray{Y: 128}
	green = color.RGBA{G: 128, A: 255}
)

// NewComparison plots buy & hold against the Golden Cross portfolio.
func NewComparison(res *model.BacktestResult) Chart {
	return Chart{
		Title:  fmt.Sprintf("Backtest: %s (Golden Cross Strategy)", res.Symbol),
		XLabel: "Date",
		YLabel: "Portfolio Value ($)",
		Grid:   true,
		Lines: []Line{
			{
				Label:  "Buy & Hold",
				Dates:  res.Dates,
				Values: res.MarketCumulative,
				Color:  gray,
				Width:  vg.Points(1.5),
				Dashed: true,
			},
			{
				Label:  "Golden Cross Strategy",
				Dates:  res.Dates,
				Values: res.StrategyCumulative,
				Color:  green,
				Width:  vg.Points(2),
			},
		},
	}
}

func (c Chart) validate() error {
	if len(c.Lines) == 0 {
		return ErrNoSeries
	}
	for _, l := range c.Lines {
		if len(l.Values) == 0 {
			return fmt.Errorf("%w: %q is empty", ErrNoSeries, l.Label)
		}
		if len(l.Dates) != len(l.Values) {
			return fmt.Errorf("line %q: %d dates for %d values", l.Label, len(l.Dates), len(l.Values))
		}
	}
	return nil
}

// NoopSink discards charts. It keeps the last one for inspection.
type NoopSink struct {
	Calls int
	Last  *Chart
}

func (n *NoopSink) Render(_ context.Context, c Chart) error {
	n.Calls++
	n.Last = &c
	return nil
}
