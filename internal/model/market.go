package model

import "time"

// PricePoint is a single daily close.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceSeries holds the daily closes of one symbol in chronological order.
type PriceSeries struct {
	Symbol    string
	Source    string
	Points    []PricePoint
	FetchedAt time.Time
}

func (s *PriceSeries) Len() int { return len(s.Points) }

// Empty reports whether the provider returned no data.
func (s *PriceSeries) Empty() bool { return s == nil || len(s.Points) == 0 }

// Closes returns the closing prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates returns the series index.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// First and Last return the boundary dates of a non-empty series.
func (s *PriceSeries) First() time.Time { return s.Points[0].Date }
func (s *PriceSeries) Last() time.Time  { return s.Points[len(s.Points)-1].Date }
