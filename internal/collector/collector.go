package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"GoldenCross/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Days   int
	Series *model.PriceSeries
	Err    error

	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyCloses(_ context.Context, symbol string, start, _ time.Time) (*model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Source:    m.Name(),
		Points:    generateMockPoints(m.Price, m.Days, start),
		FetchedAt: time.Now(),
	}, nil
}

func generateMockPoints(basePrice float64, count int, start time.Time) []model.PricePoint {
	points := make([]model.PricePoint, count)
	day := dateOnly(start)
	for i := 0; i < count; i++ {
		points[i] = model.PricePoint{
			Date:  day.AddDate(0, 0, i),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return points
}

// Collector fetches the price series of one backtest window.
type Collector struct {
	Source PriceDataSource
	Start  time.Time
	End    time.Time

	logger zerolog.Logger
}

// NewCollector creates a new Collector over [start, end).
func NewCollector(source PriceDataSource, start, end time.Time) *Collector {
	return &Collector{
		Source: source,
		Start:  start,
		End:    end,
		logger: log.With().Str("component", "collector").Str("source", source.Name()).Logger(),
	}
}

// Collect fetches the daily closes of symbol. The result is chronologically
// ordered with one point per date; it may be empty.
func (c *Collector) Collect(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	c.logger.Info().
		Str("symbol", symbol).
		Str("start", c.Start.Format(time.DateOnly)).
		Str("end", c.End.Format(time.DateOnly)).
		Msg("fetching daily closes")

	fetched, err := c.Source.FetchDailyCloses(ctx, symbol, c.Start, c.End)
	if err != nil {
		return nil, fmt.Errorf("fetch daily closes: %w", err)
	}
	series := &model.PriceSeries{Symbol: symbol, Source: c.Source.Name()}
	if fetched != nil {
		*series = *fetched
		series.Points = normalize(fetched.Points)
	}

	if series.Empty() {
		c.logger.Warn().Str("symbol", symbol).Msg("no data returned")
		return series, nil
	}
	c.logger.Info().
		Str("symbol", symbol).
		Int("bars", series.Len()).
		Str("first", series.First().Format(time.DateOnly)).
		Str("last", series.Last().Format(time.DateOnly)).
		Msg("collected")
	return series, nil
}

// normalize returns points sorted by date with the last point of each date
// kept. The input slice is not modified.
func normalize(in []model.PricePoint) []model.PricePoint {
	if len(in) == 0 {
		return in
	}
	points := make([]model.PricePoint, len(in))
	copy(points, in)
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := points[:1]
	for _, p := range points[1:] {
		if p.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// dateOnly maps a timestamp onto its calendar date (in t's location) at UTC midnight.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
