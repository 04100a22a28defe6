package runner

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/chart"
	"GoldenCross/internal/collector"
	"GoldenCross/internal/notifier"
)

var (
	start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

type failingSink struct{ err error }

func (f failingSink) Render(context.Context, chart.Chart) error { return f.err }

func newTestRunner(src collector.PriceDataSource, sink chart.Sink, out *bytes.Buffer, tn *notifier.TelegramNotifier) *Runner {
	col := collector.NewCollector(src, start, end)
	return NewRunner(col, sink, notifier.NewConsole(out), tn, 10000, "2020-01-01", "2024-01-01")
}

func TestReadTicker(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"upper-cased", "  tsla \n", "TSLA"},
		{"blank uses fallback", "\n", "AAPL"},
		{"eof uses fallback", "", "AAPL"},
		{"no newline", "nvda", "NVDA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ReadTicker(strings.NewReader(tt.input), &out, "aapl")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Enter Stock Ticker (e.g., AAPL, TSLA, NVDA): ", out.String())
		})
	}
}

func TestRun_NoData(t *testing.T) {
	var out bytes.Buffer
	sink := &chart.NoopSink{}
	r := newTestRunner(&collector.MockFetcher{Days: 0}, sink, &out, nil)

	res, err := r.Run(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNoData)
	assert.Nil(t, res)
	assert.Equal(t, "[*] FETCHING DATA FOR NOPE...\n[!] No data found.\n", out.String())
	assert.Zero(t, sink.Calls)
}

func TestRun_FullPipeline(t *testing.T) {
	var out bytes.Buffer
	sink := &chart.NoopSink{}
	r := newTestRunner(&collector.MockFetcher{Price: 100, Days: 300}, sink, &out, nil)

	res, err := r.Run(context.Background(), "AAPL")
	require.NoError(t, err)
	require.Len(t, res.Dates, 300)

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "[*] FETCHING DATA FOR AAPL...\n"))
	assert.Contains(t, text, "BACKTEST RESULTS: AAPL (2020-01-01 to 2024-01-01)")
	assert.Contains(t, text, "Initial Capital:   $10,000.00")
	assert.True(t, strings.HasSuffix(text, "[*] Generating Chart...\n"))

	require.Equal(t, 1, sink.Calls)
	assert.Equal(t, "Backtest: AAPL (Golden Cross Strategy)", sink.Last.Title)
	assert.Equal(t, res.StrategyCumulative, sink.Last.Lines[1].Values)
}

func TestRun_FetchError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("connection reset")
	r := newTestRunner(&collector.MockFetcher{Err: boom}, &chart.NoopSink{}, &out, nil)

	_, err := r.Run(context.Background(), "AAPL")
	assert.ErrorIs(t, err, boom)
	assert.NotContains(t, out.String(), "No data found")
}

func TestRun_ChartError(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("disk full")
	r := newTestRunner(&collector.MockFetcher{Price: 50, Days: 10}, failingSink{boom}, &out, nil)

	res, err := r.Run(context.Background(), "AAPL")
	assert.ErrorIs(t, err, boom)
	require.NotNil(t, res)
	assert.Contains(t, out.String(), "VERDICT:")
}

func TestRun_TelegramIsBestEffort(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	tn := notifier.NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.Client = srv.Client()

	var out bytes.Buffer
	sink := &chart.NoopSink{}
	r := newTestRunner(&collector.MockFetcher{Price: 100, Days: 20}, sink, &out, tn)

	_, err := r.Run(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 1, sink.Calls)
}
