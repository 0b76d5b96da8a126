package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
)

func TestAggregateDailySumsAndSorts(t *testing.T) {
	day1 := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	deals := []*models.Deal{
		{ID: "c", Pipeline: "smb", Amount: 300, Date: day2},
		{ID: "a", Pipeline: "smb", Amount: 100, Date: day1.Add(9 * time.Hour)},
		{ID: "b", Pipeline: "smb", Amount: 50, Date: day1.Add(17 * time.Hour)},
	}

	s := aggregateDaily(deals)
	require.Equal(t, 2, s.Len())
	assert.True(t, s.Timed)
	assert.Equal(t, day1, s.Points[0].Timestamp)
	assert.Equal(t, 150.0, s.Points[0].Value)
	assert.Equal(t, 300.0, s.Points[1].Value)
}

func TestAggregateDailyEmpty(t *testing.T) {
	assert.Equal(t, 0, aggregateDaily(nil).Len())
}

func TestDailySeriesFetchesAndCaches(t *testing.T) {
	src := &stubSource{deals: dealsOverDays("smb", []float64{10, 20, 30})}
	b := NewSeriesBuilder(src, newFakeCache(), time.Minute, testLogger())

	s, err := b.DailySeries(context.Background(), "smb", 30)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 1, src.calls)

	// second read comes from cache
	s2, err := b.DailySeries(context.Background(), "smb", 30)
	require.NoError(t, err)
	assert.Equal(t, s.Values(), s2.Values())
	assert.Equal(t, 1, src.calls)
}

func TestInvalidateForcesRefetch(t *testing.T) {
	src := &stubSource{deals: dealsOverDays("smb", []float64{10})}
	b := NewSeriesBuilder(src, newFakeCache(), time.Minute, testLogger())

	_, err := b.DailySeries(context.Background(), "smb", 30)
	require.NoError(t, err)
	require.NoError(t, b.Invalidate(context.Background(), "smb"))

	_, err = b.DailySeries(context.Background(), "smb", 30)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestDailySeriesSourceError(t *testing.T) {
	src := &stubSource{err: assert.AnError}
	b := NewSeriesBuilder(src, nil, time.Minute, testLogger())

	_, err := b.DailySeries(context.Background(), "smb", 30)
	assert.Error(t, err)
}
