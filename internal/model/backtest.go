package model

import "time"

// BacktestResult holds every derived series of a Golden Cross run, aligned
// 1:1 with the input price series.
type BacktestResult struct {
	Symbol  string
	Capital float64

	Dates          []time.Time
	Closes         []float64
	SMAFast        []NullFloat
	SMASlow        []NullFloat
	Signal         []int // 1 bullish, 0 otherwise
	MarketReturn   []NullFloat
	StrategyReturn []NullFloat

	MarketCumulative   []float64
	StrategyCumulative []float64

	FinalMarket   float64
	FinalStrategy float64
}

// Outperformed reports whether the strategy finished strictly above buy & hold.
func (r *BacktestResult) Outperformed() bool {
	return r.FinalStrategy > r.FinalMarket
}

// MarketTotalReturn is the fractional buy & hold gain over the whole period.
func (r *BacktestResult) MarketTotalReturn() float64 {
	return r.FinalMarket/r.Capital - 1
}

// StrategyTotalReturn is the fractional strategy gain over the whole period.
func (r *BacktestResult) StrategyTotalReturn() float64 {
	return r.FinalStrategy/r.Capital - 1
}

// DaysInMarket counts the dates on which the strategy held the asset, i.e.
// the previous close was bullish.
func (r *BacktestResult) DaysInMarket() int {
	n := 0
	for t := 1; t < len(r.Signal); t++ {
		if r.Signal[t-1] == 1 {
			n++
		}
	}
	return n
}
