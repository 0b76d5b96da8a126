package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrowthRates(t *testing.T) {
	s := FromValues([]float64{100, 150, 120})

	rates, err := GrowthRates(s)
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.InDelta(t, 0.5, rates[0], 1e-9)
	assert.InDelta(t, -0.2, rates[1], 1e-9)
}

func TestGrowthRateZeroDenominator(t *testing.T) {
	s := FromValues([]float64{0, 50, 0, 75})

	rates, err := GrowthRates(s)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rates[0]) // previous is 0, never Inf/NaN
	assert.Equal(t, -1.0, rates[1])
	assert.Equal(t, 0.0, rates[2])
}

func TestGrowthRatesTooFewPoints(t *testing.T) {
	_, err := GrowthRates(FromValues([]float64{10}))
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestCumulativeSum(t *testing.T) {
	s := FromValues([]float64{10, 20, 30})

	assert.Equal(t, []float64{10, 30, 60}, CumulativeSum(s))
	assert.Empty(t, CumulativeSum(FromValues(nil)))
}
