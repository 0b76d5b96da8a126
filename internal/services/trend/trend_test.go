package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverageLength(t *testing.T) {
	s := FromValues([]float64{1, 2, 3, 4, 5})

	out, err := MovingAverage(s, 3)
	require.NoError(t, err)
	assert.Equal(t, s.Len()-3+1, out.Len())
	assert.Equal(t, []float64{2, 3, 4}, out.Values())
}

func TestMovingAverageWindowLargerThanSeries(t *testing.T) {
	s := FromValues([]float64{1, 2})

	_, err := MovingAverage(s, 3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestMovingAverageInvalidWindow(t *testing.T) {
	s := FromValues([]float64{1, 2, 3})

	_, err := MovingAverage(s, 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}

func TestEMASeedAndLength(t *testing.T) {
	s := FromValues([]float64{100, 200, 150})

	out, err := EMA(s, 0.5)
	require.NoError(t, err)
	require.Equal(t, s.Len(), out.Len())
	assert.Equal(t, 100.0, out.Points[0].Value)
	assert.Equal(t, 150.0, out.Points[1].Value)  // 0.5*200 + 0.5*100
	assert.Equal(t, 150.0, out.Points[2].Value)  // 0.5*150 + 0.5*150
}

func TestEMAInvalidAlpha(t *testing.T) {
	s := FromValues([]float64{1, 2})

	_, err := EMA(s, 0)
	assert.Error(t, err)

	_, err = EMA(s, 1.5)
	assert.Error(t, err)
}

func TestEMAEmptySeries(t *testing.T) {
	_, err := EMA(FromValues(nil), 0.3)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestLinearRegressionIncreasingSeries(t *testing.T) {
	s := FromValues([]float64{10, 20, 30, 40, 50})

	tr, err := LinearRegression(s)
	require.NoError(t, err)
	assert.Greater(t, tr.Slope, 0.0)
	assert.InDelta(t, 10.0, tr.Slope, 1e-9)
	assert.InDelta(t, 10.0, tr.Intercept, 1e-9)
	assert.InDelta(t, 1.0, tr.R2, 1e-9)
}

func TestLinearRegressionTooFewPoints(t *testing.T) {
	tr, err := LinearRegression(FromValues([]float64{42}))
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Equal(t, 0.0, tr.Slope)
	assert.Equal(t, 0.0, tr.Intercept)
	assert.Equal(t, 0.0, tr.R2)
}

func TestLinearRegressionConstantSeries(t *testing.T) {
	tr, err := LinearRegression(FromValues([]float64{5, 5, 5, 5}))
	require.NoError(t, err)
	assert.InDelta(t, 0.0, tr.Slope, 1e-9)
	assert.InDelta(t, 5.0, tr.Intercept, 1e-9)
}
