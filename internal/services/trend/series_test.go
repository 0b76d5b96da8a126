package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSortsByTimestamp(t *testing.T) {
	records := []interface{}{
		map[string]interface{}{"amount": 300.0, "date": "2025-03-01"},
		map[string]interface{}{"amount": 100.0, "date": "2025-01-01"},
		map[string]interface{}{"amount": 200.0, "date": "2025-02-01"},
	}

	s, err := Normalize(records, NormalizeConfig{})
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.True(t, s.Timed)
	assert.Equal(t, []float64{100, 200, 300}, s.Values())
}

func TestNormalizeCustomFields(t *testing.T) {
	records := []interface{}{
		map[string]interface{}{"revenue": 42.5, "closed_at": "2025-01-15"},
	}

	s, err := Normalize(records, NormalizeConfig{ValueField: "revenue", TimeField: "closed_at"})
	require.NoError(t, err)
	assert.Equal(t, 42.5, s.Points[0].Value)
	assert.True(t, s.Points[0].HasTime)
}

func TestNormalizeBareNumbers(t *testing.T) {
	records := []interface{}{10.0, 20.0, 30.0}

	s, err := Normalize(records, NormalizeConfig{})
	require.NoError(t, err)
	assert.False(t, s.Timed)
	assert.Equal(t, []float64{10, 20, 30}, s.Values())
}

func TestNormalizeUnparseableValueCoercesToZero(t *testing.T) {
	records := []interface{}{
		map[string]interface{}{"amount": "not-a-number", "date": "2025-01-01"},
		map[string]interface{}{"amount": "250", "date": "2025-02-01"},
	}

	s, err := Normalize(records, NormalizeConfig{})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 250}, s.Values())
}

func TestNormalizeEmptyInput(t *testing.T) {
	_, err := Normalize(nil, NormalizeConfig{})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = Normalize([]interface{}{}, NormalizeConfig{})
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestNormalizeMissingTimestampFallsBackToIndexOrder(t *testing.T) {
	records := []interface{}{
		map[string]interface{}{"amount": 1.0, "date": "2025-02-01"},
		map[string]interface{}{"amount": 2.0},
	}

	s, err := Normalize(records, NormalizeConfig{})
	require.NoError(t, err)
	assert.False(t, s.Timed)
	assert.Equal(t, []float64{1, 2}, s.Values())
}

func TestXCoordsTimedUsesDays(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := FromTimedValues([]time.Time{base, base.AddDate(0, 0, 10), base.AddDate(0, 0, 20)}, []float64{1, 2, 3})

	xs := XCoords(s)
	assert.Equal(t, []float64{0, 10, 20}, xs)
}

func TestXCoordsUntimedUsesIndex(t *testing.T) {
	s := FromValues([]float64{5, 6, 7})
	assert.Equal(t, []float64{0, 1, 2}, XCoords(s))
}
