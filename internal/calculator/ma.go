package calculator

import (
	"errors"

	"gonum.org/v1/gonum/stat"

	"GoldenCross/internal/model"
)

var (
	ErrNonPositivePeriod = errors.New("period must be positive")
	ErrNotEnoughData     = errors.New("not enough data for SMA calculation")
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, ErrNonPositivePeriod
	}
	if len(prices) < period {
		return 0, ErrNotEnoughData
	}
	return stat.Mean(prices[len(prices)-period:], nil), nil
}

// RollingSMA returns the trailing simple moving average for every index of
// prices. Entries before the window fills are undefined.
func RollingSMA(prices []float64, window int) ([]model.NullFloat, error) {
	if window <= 0 {
		return nil, ErrNonPositivePeriod
	}
	out := make([]model.NullFloat, len(prices))
	for i := window - 1; i < len(prices); i++ {
		sma, err := CalculateSMA(prices[:i+1], window)
		if err != nil {
			return nil, err
		}
		out[i] = model.Some(sma)
	}
	return out, nil
}
