package strategy

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldenCross/internal/model"
)

func seriesOf(closes []float64) *model.PriceSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &model.PriceSeries{Symbol: "TEST"}
	for i, c := range closes {
		s.Points = append(s.Points, model.PricePoint{Date: start.AddDate(0, 0, i), Close: c})
	}
	return s
}

func generate(n int, f func(i int) float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = f(i)
	}
	return out
}

// wave rises and falls enough for the averages to cross several times.
func wave(n int) []float64 {
	return generate(n, func(i int) float64 {
		return 100 + 30*math.Sin(float64(i)/60) + 0.02*float64(i)
	})
}

func TestEvaluate_Rejects(t *testing.T) {
	_, err := Evaluate(&model.PriceSeries{}, 10000)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Evaluate(nil, 10000)
	assert.ErrorIs(t, err, ErrEmptySeries)

	_, err = Evaluate(seriesOf([]float64{1, 2}), 0)
	assert.ErrorIs(t, err, ErrInvalidCapital)
}

func TestEvaluate_StartsAtCapital(t *testing.T) {
	res, err := Evaluate(seriesOf(wave(400)), 10000)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, res.MarketCumulative[0])
	assert.Equal(t, 10000.0, res.StrategyCumulative[0])
}

func TestEvaluate_SeriesAreAligned(t *testing.T) {
	n := 320
	res, err := Evaluate(seriesOf(wave(n)), 10000)
	require.NoError(t, err)
	assert.Len(t, res.Dates, n)
	assert.Len(t, res.SMAFast, n)
	assert.Len(t, res.SMASlow, n)
	assert.Len(t, res.Signal, n)
	assert.Len(t, res.MarketReturn, n)
	assert.Len(t, res.StrategyReturn, n)
	assert.Len(t, res.MarketCumulative, n)
	assert.Len(t, res.StrategyCumulative, n)
	assert.Equal(t, res.MarketCumulative[n-1], res.FinalMarket)
	assert.Equal(t, res.StrategyCumulative[n-1], res.FinalStrategy)
}

func TestEvaluate_SignalDefinition(t *testing.T) {
	res, err := Evaluate(seriesOf(wave(700)), 10000)
	require.NoError(t, err)

	var bulls, bears int
	for i, s := range res.Signal {
		require.Contains(t, []int{0, 1}, s)
		fast, slow := res.SMAFast[i], res.SMASlow[i]
		want := 0
		if fast.Valid && slow.Valid && fast.Float64 > slow.Float64 {
			want = 1
		}
		assert.Equal(t, want, s, "index %d", i)
		if s == 1 {
			bulls++
		} else if slow.Valid {
			bears++
		}
	}
	assert.Positive(t, bulls, "wave should produce bullish days")
	assert.Positive(t, bears, "wave should produce bearish days after warm-up")
}

func TestEvaluate_NoReturnAfterBearishClose(t *testing.T) {
	res, err := Evaluate(seriesOf(wave(700)), 10000)
	require.NoError(t, err)

	assert.False(t, res.StrategyReturn[0].Valid)
	for i := 1; i < len(res.StrategyReturn); i++ {
		if res.StrategyReturn[i].OrZero() != 0 {
			assert.Equal(t, 1, res.Signal[i-1], "index %d earned without a bullish prior close", i)
		}
		if res.Signal[i-1] == 1 {
			assert.Equal(t, res.MarketReturn[i], res.StrategyReturn[i], "index %d", i)
		}
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	series := seriesOf(wave(500))
	a, err := Evaluate(series, 2500)
	require.NoError(t, err)
	b, err := Evaluate(series, 2500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEvaluate_ShortSeriesNeverInvests(t *testing.T) {
	closes := generate(SlowWindow-1, func(i int) float64 { return 50 + float64(i) })
	res, err := Evaluate(seriesOf(closes), 10000)
	require.NoError(t, err)

	for i, s := range res.Signal {
		assert.Zero(t, s, "index %d", i)
	}
	for i, v := range res.StrategyCumulative {
		assert.Equal(t, 10000.0, v, "index %d", i)
	}
	assert.Greater(t, res.FinalMarket, 10000.0)
	assert.False(t, res.Outperformed())
}

func TestEvaluate_ConstantPrice(t *testing.T) {
	closes := generate(250, func(int) float64 { return 100 })
	res, err := Evaluate(seriesOf(closes), 10000)
	require.NoError(t, err)

	for i := 1; i < len(closes); i++ {
		assert.Equal(t, 0.0, res.MarketReturn[i].Float64)
		assert.Equal(t, 0.0, res.StrategyReturn[i].OrZero())
	}
	// Equal averages are a tie, which is not bullish.
	for _, s := range res.Signal {
		assert.Zero(t, s)
	}
	assert.Equal(t, 10000.0, res.FinalMarket)
	assert.Equal(t, 10000.0, res.FinalStrategy)
	assert.False(t, res.Outperformed())
}

func TestEvaluate_MissesWarmUpMovement(t *testing.T) {
	closes := generate(300, func(i int) float64 { return 100 * math.Pow(1.01, float64(i)) })
	res, err := Evaluate(seriesOf(closes), 10000)
	require.NoError(t, err)

	// Both averages first exist on the 200th observation and the fast one
	// leads from then on.
	for i := range closes {
		want := 0
		if i >= SlowWindow-1 {
			want = 1
		}
		require.Equal(t, want, res.Signal[i], "index %d", i)
	}

	wantMarket := 10000 * closes[len(closes)-1] / closes[0]
	wantStrategy := 10000 * closes[len(closes)-1] / closes[SlowWindow-1]
	assert.InEpsilon(t, wantMarket, res.FinalMarket, 1e-9)
	assert.InEpsilon(t, wantStrategy, res.FinalStrategy, 1e-9)
	assert.InEpsilon(t, res.FinalMarket*closes[0]/closes[SlowWindow-1], res.FinalStrategy, 1e-9)
	assert.Equal(t, len(closes)-SlowWindow, res.DaysInMarket())
}

func TestSignals_TieIsBearish(t *testing.T) {
	fast := []model.NullFloat{{}, model.Some(10), model.Some(10), model.Some(11)}
	slow := []model.NullFloat{model.Some(9), model.Some(10), {}, model.Some(10)}
	assert.Equal(t, []int{0, 0, 0, 1}, Signals(fast, slow))
}

func TestLaggedReturns(t *testing.T) {
	market := []model.NullFloat{{}, model.Some(0.1), model.Some(0.2), model.Some(-0.3)}
	got := LaggedReturns(market, []int{1, 0, 1, 1})
	assert.Equal(t, []model.NullFloat{{}, model.Some(0.1), model.Some(0), model.Some(-0.3)}, got)
}
