package model

// NullFloat is a series entry that may be undefined, e.g. a moving average
// before its window fills or the return on the first date.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Some wraps a defined value.
func Some(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

// OrZero returns the value, or 0 when undefined.
func (n NullFloat) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Float64
}
