package calculator

import "GoldenCross/internal/model"

// PctChange returns the simple fractional change of each price vs. the prior
// one. The first entry is undefined, as is any entry whose prior price is 0.
func PctChange(prices []float64) []model.NullFloat {
	out := make([]model.NullFloat, len(prices))
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		out[i] = model.Some(prices[i]/prev - 1)
	}
	return out
}

// Compound grows capital through a sequence of periodic returns. The first
// value is always capital; undefined returns contribute nothing.
func Compound(capital float64, returns []model.NullFloat) []float64 {
	if len(returns) == 0 {
		return nil
	}
	out := make([]float64, len(returns))
	out[0] = capital
	for t := 1; t < len(returns); t++ {
		out[t] = out[t-1] * (1 + returns[t].OrZero())
	}
	return out
}
