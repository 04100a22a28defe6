package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// MoneyTicks labels the value axis in whole dollars.
type MoneyTicks struct{}

func (MoneyTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			dollars := int64(math.Round(ticks[i].Value))
			ticks[i].Label = strings.TrimSuffix(money.New(dollars*100, money.USD).Display(), ".00")
		}
	}
	return ticks
}

// PlotSink writes charts as images with gonum/plot and optionally hands them
// to the desktop viewer. Render waits for the launcher process only; on macOS
// that is the viewer itself (open -W), while xdg-open and rundll32 usually
// return as soon as the viewer has started.
type PlotSink struct {
	OutputPath string
	Width      vg.Length
	Height     vg.Length
	Open       bool

	// Viewer builds the command that displays path; nil uses the OS default.
	Viewer func(ctx context.Context, path string) *exec.Cmd
}

// NewPlotSink creates a 12x6 inch sink writing to path. The format follows
// the file extension (png, svg, pdf, ...).
func NewPlotSink(path string, open bool) *PlotSink {
	return &PlotSink{
		OutputPath: path,
		Width:      12 * vg.Inch,
		Height:     6 * vg.Inch,
		Open:       open,
	}
}

func (s *PlotSink) Render(ctx context.Context, c Chart) error {
	if err := c.validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Y.Tick.Marker = MoneyTicks{}
	if c.Grid {
		grid := plotter.NewGrid()
		dashes := []vg.Length{vg.Points(2), vg.Points(2)}
		grid.Horizontal.Dashes = dashes
		grid.Vertical.Dashes = dashes
		p.Add(grid)
	}

	for _, l := range c.Lines {
		xys := make(plotter.XYs, len(l.Values))
		for i, v := range l.Values {
			xys[i].X = float64(l.Dates[i].Unix())
			xys[i].Y = v
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("line %q: %w", l.Label, err)
		}
		line.LineStyle = draw.LineStyle{Color: l.Color, Width: l.Width}
		if l.Dashed {
			line.LineStyle.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		}
		p.Add(line)
		p.Legend.Add(l.Label, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(s.Width, s.Height, s.OutputPath); err != nil {
		return fmt.Errorf("save chart %s: %w", s.OutputPath, err)
	}
	log.Info().Str("component", "chart").Str("path", s.OutputPath).Msg("chart written")

	if !s.Open {
		return nil
	}
	return s.show(ctx)
}

func (s *PlotSink) show(ctx context.Context) error {
	viewer := s.Viewer
	if viewer == nil {
		viewer = defaultViewer
	}
	cmd := viewer(ctx, s.OutputPath)
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			log.Warn().Str("component", "chart").Str("path", s.OutputPath).Msg("no image viewer available, chart left on disk")
			return nil
		}
		return fmt.Errorf("open chart viewer: %w", err)
	}
	return nil
}

func defaultViewer(ctx context.Context, path string) *exec.Cmd {
	return viewerFor(ctx, runtime.GOOS, path)
}

// viewerFor returns the opener for goos. Only the darwin command waits for
// the viewer window to close.
func viewerFor(ctx context.Context, goos, path string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.CommandContext(ctx, "open", "-W", path)
	case "windows":
		return exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.CommandContext(ctx, "xdg-open", path)
	}
}
