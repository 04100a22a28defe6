package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const defaultMaxElapsed = 30 * time.Second

// errNotFound marks a provider answer that means "no such symbol / no data".
var errNotFound = errors.New("no data for symbol")

// statusError classifies a non-200 response: 429 and 5xx are retried,
// 404 means no data, everything else is permanent.
func statusError(code int, body []byte) error {
	err := fmt.Errorf("status %d, body: %s", code, truncate(body, 200))
	switch {
	case code == http.StatusNotFound:
		return backoff.Permanent(fmt.Errorf("%w: %w", errNotFound, err))
	case code == http.StatusTooManyRequests || code >= 500:
		return err
	default:
		return backoff.Permanent(err)
	}
}

func retry(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	b := backoff.NewExponentialBackOff()
	if maxElapsed <= 0 {
		maxElapsed = defaultMaxElapsed
	}
	b.MaxElapsedTime = maxElapsed
	return backoff.Retry(op, backoff.WithContext(b, ctx))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
