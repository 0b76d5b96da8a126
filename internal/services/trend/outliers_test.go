package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutliersConstantSeries(t *testing.T) {
	s := FromValues([]float64{100, 100, 100, 100, 100})

	flagged, err := Outliers(s, 2.0)
	require.NoError(t, err)
	assert.Empty(t, flagged)
}

func TestOutliersDetectsSpike(t *testing.T) {
	values := []float64{100, 100, 100, 100, 100, 100, 100, 100, 100, 1000}
	s := FromValues(values)

	flagged, err := Outliers(s, 2.0)
	require.NoError(t, err)
	require.Len(t, flagged, 1)
	assert.Equal(t, 9, flagged[0])
}

func TestOutliersEmptySeries(t *testing.T) {
	_, err := Outliers(FromValues(nil), 2.0)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestOutliersInvalidThreshold(t *testing.T) {
	_, err := Outliers(FromValues([]float64{1, 2}), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}
