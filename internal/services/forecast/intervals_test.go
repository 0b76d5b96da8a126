package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
	"SalesPulse/internal/services/trend"
)

func TestIntervalsContainForecastValue(t *testing.T) {
	s := trend.FromValues([]float64{100, 120, 110, 130, 150})
	points := []models.ForecastPoint{{Value: 140}, {Value: 150}, {Value: 160}}

	bounded := WithIntervals(s, points, 0.95)
	for _, p := range bounded {
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
		assert.Equal(t, 0.95, p.Confidence)
	}
}

func TestIntervalWidthOrderedByConfidence(t *testing.T) {
	s := trend.FromValues([]float64{100, 120, 110, 130, 150})
	points := []models.ForecastPoint{{Value: 140}}

	width := func(confidence float64) float64 {
		b := WithIntervals(s, points, confidence)
		return b[0].Upper - b[0].Lower
	}

	w90 := width(0.90)
	w95 := width(0.95)
	w99 := width(0.99)
	assert.Greater(t, w95, w90)
	assert.Greater(t, w99, w95)
}

func TestIntervalWidensWithHorizon(t *testing.T) {
	s := trend.FromValues([]float64{100, 120, 110, 130, 150})
	points := []models.ForecastPoint{{Value: 500}, {Value: 500}, {Value: 500}}

	bounded := WithIntervals(s, points, 0.95)
	m0 := bounded[0].Upper - bounded[0].Value
	m1 := bounded[1].Upper - bounded[1].Value
	m2 := bounded[2].Upper - bounded[2].Value
	assert.InDelta(t, m0*1.1, m1, 1e-9)
	assert.InDelta(t, m0*1.2, m2, 1e-9)
}

func TestIntervalLowerBoundClampedAtZero(t *testing.T) {
	s := trend.FromValues([]float64{0, 1000, 0, 1000})
	points := []models.ForecastPoint{{Value: 10}}

	bounded := WithIntervals(s, points, 0.95)
	assert.Equal(t, 0.0, bounded[0].Lower)
	assert.Greater(t, bounded[0].Upper, 10.0)
}

func TestUnrecognizedConfidenceFallsBackToDefault(t *testing.T) {
	s := trend.FromValues([]float64{100, 120, 110, 130, 150})
	points := []models.ForecastPoint{{Value: 140}}

	odd := WithIntervals(s, points, 0.42)
	std := WithIntervals(s, points, 0.95)
	assert.Equal(t, std[0].Upper, odd[0].Upper)
	assert.Equal(t, std[0].Lower, odd[0].Lower)
}

func TestIntervalsEmptyForecast(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3})
	require.Empty(t, WithIntervals(s, nil, 0.95))
}
