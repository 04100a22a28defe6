package strategy

import (
	"errors"
	"fmt"

	"GoldenCross/internal/calculator"
	"GoldenCross/internal/model"
)

// Window sizes of the Golden Cross.
const (
	FastWindow = 50
	SlowWindow = 200
)

var (
	ErrEmptySeries    = errors.New("price series is empty")
	ErrInvalidCapital = errors.New("initial capital must be positive")
)

// Signals returns 1 where the fast average is strictly above the slow one and
// 0 everywhere else, including wherever either average is undefined.
func Signals(fast, slow []model.NullFloat) []int {
	out := make([]int, len(fast))
	for t := range fast {
		if t >= len(slow) {
			break
		}
		if fast[t].Valid && slow[t].Valid && fast[t].Float64 > slow[t].Float64 {
			out[t] = 1
		}
	}
	return out
}

// LaggedReturns applies the previous close's signal to each market return, so
// a position opened on a crossover only earns from the next session on.
func LaggedReturns(market []model.NullFloat, signal []int) []model.NullFloat {
	out := make([]model.NullFloat, len(market))
	for t := 1; t < len(market); t++ {
		if !market[t].Valid {
			continue
		}
		out[t] = model.Some(market[t].Float64 * float64(signal[t-1]))
	}
	return out
}

// Evaluate runs the Golden Cross against buy & hold over series, starting
// both portfolios at capital.
func Evaluate(series *model.PriceSeries, capital float64) (*model.BacktestResult, error) {
	if series.Empty() {
		return nil, ErrEmptySeries
	}
	if capital <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCapital, capital)
	}

	closes := series.Closes()
	fast, err := calculator.RollingSMA(closes, FastWindow)
	if err != nil {
		return nil, fmt.Errorf("sma%d: %w", FastWindow, err)
	}
	slow, err := calculator.RollingSMA(closes, SlowWindow)
	if err != nil {
		return nil, fmt.Errorf("sma%d: %w", SlowWindow, err)
	}

	signal := Signals(fast, slow)
	market := calculator.PctChange(closes)
	strat := LaggedReturns(market, signal)

	marketCum := calculator.Compound(capital, market)
	stratCum := calculator.Compound(capital, strat)

	return &model.BacktestResult{
		Symbol:             series.Symbol,
		Capital:            capital,
		Dates:              series.Dates(),
		Closes:             closes,
		SMAFast:            fast,
		SMASlow:            slow,
		Signal:             signal,
		MarketReturn:       market,
		StrategyReturn:     strat,
		MarketCumulative:   marketCum,
		StrategyCumulative: stratCum,
		FinalMarket:        marketCum[len(marketCum)-1],
		FinalStrategy:      stratCum[len(stratCum)-1],
	}, nil
}
