package collector

import (
	"context"
	"time"

	"GoldenCross/internal/model"
)

// PriceDataSource fetches daily closes for a symbol over [start, end).
// An empty series with a nil error means the provider has no data for it.
type PriceDataSource interface {
	FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}
