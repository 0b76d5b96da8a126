package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/services/trend"
)

func TestEnsembleBlendsActiveMethods(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3, 4, 5})

	points, err := Ensemble(s, Config{Periods: 2, Window: 3, Alpha: 0.5}, EnsembleWeights{
		MethodMovingAverage: 1,
		MethodExponential:   3,
	})
	require.NoError(t, err)
	require.Len(t, points, 2)

	ma, err := MovingAverage(s, Config{Periods: 2, Window: 3})
	require.NoError(t, err)
	es, err := ExponentialSmoothing(s, Config{Periods: 2, Alpha: 0.5})
	require.NoError(t, err)

	want := 0.25*ma[0].Value + 0.75*es[0].Value
	assert.InDelta(t, want, points[0].Value, 1e-9)
	assert.Equal(t, MethodEnsemble, points[0].Method)
}

func TestEnsembleRenormalizesWhenMethodSkipped(t *testing.T) {
	// 5 points: seasonal needs 2 full cycles (24), so only the moving
	// average participates and must receive the full weight
	s := trend.FromValues([]float64{10, 20, 30, 40, 50})

	points, err := Ensemble(s, Config{Periods: 2, Window: 3}, EnsembleWeights{
		MethodMovingAverage: 0.4,
		MethodSeasonal:      0.6,
	})
	require.NoError(t, err)

	ma, err := MovingAverage(s, Config{Periods: 2, Window: 3})
	require.NoError(t, err)
	assert.InDelta(t, ma[0].Value, points[0].Value, 1e-9)
}

func TestEnsembleZeroActiveMethods(t *testing.T) {
	points, err := Ensemble(trend.FromValues(nil), Config{Periods: 3}, nil)
	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.Equal(t, 0.0, p.Value)
		assert.Empty(t, p.Components)
	}
}

func TestEnsembleRetainsComponentValues(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3, 4, 5})

	points, err := Ensemble(s, Config{Periods: 1, Window: 3, Alpha: 0.5}, EnsembleWeights{
		MethodMovingAverage: 1,
		MethodLinear:        1,
	})
	require.NoError(t, err)

	ma, err := MovingAverage(s, Config{Periods: 1, Window: 3})
	require.NoError(t, err)
	lr, err := Linear(s, Config{Periods: 1})
	require.NoError(t, err)

	require.Len(t, points[0].Components, 2)
	assert.InDelta(t, ma[0].Value, points[0].Components[MethodMovingAverage], 1e-9)
	assert.InDelta(t, lr[0].Value, points[0].Components[MethodLinear], 1e-9)
}

func TestEnsemblePropagatesParamErrors(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3})

	_, err := Ensemble(s, Config{Periods: 1, Weights: []float64{-1}}, EnsembleWeights{
		MethodWeighted: 1,
	})
	assert.Error(t, err)
}

func TestDefaultEnsembleWeightsCoverAllMethods(t *testing.T) {
	w := DefaultEnsembleWeights()
	assert.Len(t, w, 5)
	var sum float64
	for _, v := range w {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
