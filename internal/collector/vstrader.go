package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"GoldenCross/internal/model"
	"GoldenCross/internal/netutil"
)

// VsTraderFetcher implements PriceDataSource using the vstrader REST API.
type VsTraderFetcher struct {
	BaseURL    string
	APIKey     string
	Client     *http.Client
	MaxElapsed time.Duration

	logger zerolog.Logger
}

// NewVsTraderFetcher creates a new fetcher with optional proxy support.
func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	return &VsTraderFetcher{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Client:     netutil.NewHTTPClient(proxyURL),
		MaxElapsed: defaultMaxElapsed,
		logger:     log.With().Str("component", "vstrader").Logger(),
	}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

// vsBar is the expected JSON shape from the vstrader API.
type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	Close     float64 `json:"close"`
}

// FetchDailyCloses downloads daily closes in [start, end).
func (f *VsTraderFetcher) FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	series := &model.PriceSeries{Symbol: symbol, Source: f.Name(), FetchedAt: time.Now()}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("from", dateOnly(start).Format(time.DateOnly))
	q.Set("to", dateOnly(end).Format(time.DateOnly))
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?%s", f.BaseURL, q.Encode())

	var vsBars []vsBar
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		if f.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+f.APIKey)
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			f.logger.Warn().Err(err).Msg("request failed, retrying")
			return fmt.Errorf("fetch bars: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("fetch bars: %w", statusError(resp.StatusCode, body))
		}
		if err := json.NewDecoder(resp.Body).Decode(&vsBars); err != nil {
			return backoff.Permanent(fmt.Errorf("decode bars: %w", err))
		}
		return nil
	}
	err := retry(ctx, f.MaxElapsed, op)
	if errors.Is(err, errNotFound) {
		f.logger.Warn().Str("symbol", symbol).Err(err).Msg("symbol not found")
		return series, nil
	}
	if err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(vsBars))
	for _, vb := range vsBars {
		if vb.Close <= 0 {
			continue
		}
		day := dateOnly(time.Unix(vb.Timestamp, 0).UTC())
		if day.Before(dateOnly(start)) || !day.Before(dateOnly(end)) {
			continue
		}
		points = append(points, model.PricePoint{Date: day, Close: vb.Close})
	}
	series.Points = normalize(points)
	return series, nil
}
