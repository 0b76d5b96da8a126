package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/repository"
	"SalesPulse/internal/services/trend"
)

func TestMovingAverageForecastRepeatsLastWindow(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3, 4, 5})

	points, err := MovingAverage(s, Config{Periods: 3, Window: 3})
	require.NoError(t, err)
	require.Len(t, points, 3)
	for _, p := range points {
		assert.Equal(t, 4.0, p.Value) // mean of 3,4,5
		assert.Equal(t, MethodMovingAverage, p.Method)
		assert.Nil(t, p.Timestamp)
	}
}

func TestMovingAverageForecastInsufficientData(t *testing.T) {
	s := trend.FromValues([]float64{1, 2})

	_, err := MovingAverage(s, Config{Periods: 3, Window: 5})
	assert.ErrorIs(t, err, trend.ErrInsufficientData)
}

func TestExponentialSmoothingForecastSinglePoint(t *testing.T) {
	s := trend.FromValues([]float64{42})

	points, err := ExponentialSmoothing(s, Config{Periods: 2, Alpha: 0.3})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 42.0, points[0].Value)
	assert.Equal(t, 42.0, points[1].Value)
}

func TestLinearForecastEvaluatesLine(t *testing.T) {
	s := trend.FromValues([]float64{10, 20, 30, 40})

	points, err := Linear(s, Config{Periods: 3})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 50.0, points[0].Value, 1e-9)
	assert.InDelta(t, 60.0, points[1].Value, 1e-9)
	assert.InDelta(t, 70.0, points[2].Value, 1e-9)
}

func TestLinearForecastTooFewPoints(t *testing.T) {
	_, err := Linear(trend.FromValues([]float64{7}), Config{Periods: 3})
	assert.ErrorIs(t, err, trend.ErrInsufficientData)
}

func TestSeasonalForecastCyclePosition(t *testing.T) {
	// flat series with a strong peak at position 1 of a 4-step cycle
	s := trend.FromValues([]float64{100, 200, 100, 100, 100, 200, 100, 100})

	points, err := Seasonal(s, Config{Periods: 4, SeasonLength: 4})
	require.NoError(t, err)
	require.Len(t, points, 4)
	// history has 8 points, so future positions are 0,1,2,3; position 1
	// carries the peak index and must dominate its neighbors
	assert.Greater(t, points[1].Value, points[0].Value)
	assert.Greater(t, points[1].Value, points[2].Value)
}

func TestSeasonalForecastNeedsTwoCycles(t *testing.T) {
	s := trend.FromValues([]float64{1, 2, 3, 4, 5, 6, 7})

	_, err := Seasonal(s, Config{Periods: 2, SeasonLength: 4})
	assert.ErrorIs(t, err, trend.ErrInsufficientData)
}

func TestWeightedAverageForecast(t *testing.T) {
	s := trend.FromValues([]float64{10, 20, 30})

	points, err := WeightedAverage(s, Config{Periods: 2, Weights: []float64{0.5, 0.3, 0.2}})
	require.NoError(t, err)
	require.Len(t, points, 2)
	// 0.5*30 + 0.3*20 + 0.2*10, most recent first
	assert.InDelta(t, 23.0, points[0].Value, 1e-9)
	assert.InDelta(t, 23.0, points[1].Value, 1e-9)
}

func TestWeightedAverageForecastShortSeries(t *testing.T) {
	s := trend.FromValues([]float64{10, 20})

	_, err := WeightedAverage(s, Config{Periods: 1, Weights: []float64{0.5, 0.3, 0.2}})
	assert.ErrorIs(t, err, trend.ErrInsufficientData)
}

func TestRunRejectsUnknownMethod(t *testing.T) {
	_, err := Run(trend.FromValues([]float64{1, 2, 3}), "holt_winters", Config{})
	assert.Error(t, err)
}

func TestForecastTimestampsAdvanceByUnit(t *testing.T) {
	base := time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base.AddDate(0, -2, 0), base.AddDate(0, -1, 0), base}
	s := trend.FromTimedValues(times, []float64{10, 20, 30})

	points, err := ExponentialSmoothing(s, Config{Periods: 2, Unit: repository.PeriodMonth})
	require.NoError(t, err)
	require.NotNil(t, points[0].Timestamp)
	assert.Equal(t, base.AddDate(0, 1, 0), *points[0].Timestamp)
	assert.Equal(t, base.AddDate(0, 2, 0), *points[1].Timestamp)
}

func TestForecastOmitsTimestampsForUntimedSeries(t *testing.T) {
	points, err := ExponentialSmoothing(trend.FromValues([]float64{1, 2, 3}), Config{Periods: 2})
	require.NoError(t, err)
	for _, p := range points {
		assert.Nil(t, p.Timestamp)
	}
}

func TestEndToEndLinearWithIntervals(t *testing.T) {
	values := []float64{100, 120, 110, 130, 150, 140, 160, 200, 190, 210, 230, 250}
	s := trend.FromValues(values)

	points, err := Linear(s, Config{Periods: 3})
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Greater(t, points[1].Value, points[0].Value)
	assert.Greater(t, points[2].Value, points[1].Value)

	bounded := WithIntervals(s, points, 0.95)
	require.Len(t, bounded, 3)
	w0 := bounded[0].Upper - bounded[0].Lower
	w1 := bounded[1].Upper - bounded[1].Lower
	w2 := bounded[2].Upper - bounded[2].Lower
	assert.Greater(t, w1, w0)
	assert.Greater(t, w2, w1)
}
