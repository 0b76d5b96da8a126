package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeasonalIndicesMeanIsOne(t *testing.T) {
	// two full yearly cycles with a repeating intra-year pattern
	values := []float64{
		100, 120, 90, 110, 130, 95, 105, 125, 92, 108, 128, 97,
		102, 122, 93, 112, 132, 96, 107, 127, 94, 110, 130, 99,
	}
	s := FromValues(values)

	profile, err := SeasonalIndices(s, 12)
	require.NoError(t, err)
	require.Len(t, profile, 12)
	assert.InDelta(t, 1.0, profile.Mean(), 0.05)
}

func TestSeasonalIndicesHighSeasonGetsHigherIndex(t *testing.T) {
	// quarterly pattern: position 1 consistently highest
	values := []float64{100, 200, 100, 100, 100, 200, 100, 100}
	s := FromValues(values)

	profile, err := SeasonalIndices(s, 4)
	require.NoError(t, err)
	for p := 0; p < 4; p++ {
		if p == 1 {
			continue
		}
		assert.Greater(t, profile[1], profile[p])
	}
}

func TestSeasonalIndicesInsufficientData(t *testing.T) {
	s := FromValues([]float64{1, 2, 3, 4, 5, 6, 7})

	_, err := SeasonalIndices(s, 4)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSeasonalIndicesInvalidPeriod(t *testing.T) {
	s := FromValues([]float64{1, 2, 3, 4})

	_, err := SeasonalIndices(s, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInsufficientData)
}
