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

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"GoldenCross/internal/model"
	"GoldenCross/internal/netutil"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements PriceDataSource using the Yahoo Finance chart API.
type YahooFetcher struct {
	Client     *http.Client
	BaseURL    string
	SymbolMap  map[string]string // maps internal symbol to Yahoo ticker
	Adjusted   bool              // prefer split/dividend adjusted closes
	MaxElapsed time.Duration     // retry budget for transient failures

	logger zerolog.Logger
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, adjusted bool) *YahooFetcher {
	return &YahooFetcher{
		Client:  netutil.NewHTTPClient(proxyURL),
		BaseURL: yahooBaseURL,
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
		Adjusted:   adjusted,
		MaxElapsed: defaultMaxElapsed,
		logger:     log.With().Str("component", "yahoo").Logger(),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol               string `json:"symbol"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyCloses downloads daily closes in [start, end).
func (f *YahooFetcher) FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	series := &model.PriceSeries{Symbol: symbol, Source: f.Name(), FetchedAt: time.Now()}

	body, err := f.fetchChart(ctx, symbol, start, end)
	if errors.Is(err, errNotFound) {
		f.logger.Warn().Str("symbol", symbol).Err(err).Msg("symbol not found")
		return series, nil
	}
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		if chart.Chart.Error.Code == "Not Found" {
			f.logger.Warn().Str("symbol", symbol).Msg(chart.Chart.Error.Description)
			return series, nil
		}
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return series, nil
	}

	result := chart.Chart.Result[0]
	loc := exchangeLocation(result.Meta.ExchangeTimezoneName, result.Meta.GMTOffset)

	var closes, adjusted []*float64
	if len(result.Indicators.Quote) > 0 {
		closes = result.Indicators.Quote[0].Close
	}
	if f.Adjusted && len(result.Indicators.AdjClose) > 0 {
		adjusted = result.Indicators.AdjClose[0].AdjClose
	}

	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		c := pick(adjusted, closes, i)
		if c <= 0 {
			continue // null bars (holidays, halted sessions)
		}
		day := dateOnly(time.Unix(ts, 0).In(loc))
		if day.Before(dateOnly(start)) || !day.Before(dateOnly(end)) {
			continue
		}
		points = append(points, model.PricePoint{Date: day, Close: c})
	}
	series.Points = normalize(points)

	f.logger.Debug().Str("symbol", symbol).Int("bars", len(series.Points)).Msg("fetched daily closes")
	return series, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, start, end time.Time) ([]byte, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?period1=%d&period2=%d&interval=1d&events=history&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), dateOnly(start).Unix(), dateOnly(end).Unix())

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0")
		req.Header.Set("Accept", "application/json")

		resp, err := f.Client.Do(req)
		if err != nil {
			f.logger.Warn().Err(err).Msg("request failed, retrying")
			return fmt.Errorf("yahoo fetch: %w", err)
		}
		defer resp.Body.Close()

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("yahoo read body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("yahoo: %w", statusError(resp.StatusCode, b))
		}
		body = b
		return nil
	}
	if err := retry(ctx, f.MaxElapsed, op); err != nil {
		return nil, err
	}
	return body, nil
}

// pick reads bar i from the adjusted series when there is one and from the
// raw closes otherwise. The two are never mixed within a series.
func pick(adjusted, closes []*float64, i int) float64 {
	src := closes
	if len(adjusted) > 0 {
		src = adjusted
	}
	if i < len(src) && src[i] != nil {
		return *src[i]
	}
	return 0
}

func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", gmtOffset)
}
