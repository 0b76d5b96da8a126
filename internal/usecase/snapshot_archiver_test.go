package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SalesPulse/internal/domain/models"
)

func snap(pipeline string, step int) *models.ForecastSnapshot {
	return &models.ForecastSnapshot{
		ForecastID:  "forecast-20250801-deadbeef",
		Pipeline:    pipeline,
		GeneratedAt: time.Now().UTC(),
		Method:      "ensemble",
		Step:        step,
		Value:       100,
		Lower:       80,
		Upper:       120,
		Confidence:  0.95,
	}
}

func TestArchiverFlushesWhenBatchFull(t *testing.T) {
	store := &stubStore{}
	m := newStubMetrics()
	a := NewSnapshotArchiver(&stubPublisher{}, store, m, "clickhouse", 2, time.Hour, testLogger())

	require.NoError(t, a.Archive(context.Background(), snap("smb", 1)))
	assert.Empty(t, store.batches)

	require.NoError(t, a.Archive(context.Background(), snap("smb", 2)))
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 2)
	assert.Equal(t, 2, m.sent["clickhouse/smb"])
}

func TestArchiverRoutesToKafkaBackend(t *testing.T) {
	pub := &stubPublisher{}
	store := &stubStore{}
	a := NewSnapshotArchiver(pub, store, newStubMetrics(), "kafka", 1, time.Hour, testLogger())

	require.NoError(t, a.Archive(context.Background(), snap("enterprise", 1)))
	assert.Len(t, pub.batches, 1)
	assert.Empty(t, store.batches)
}

func TestArchiverUnknownBackend(t *testing.T) {
	m := newStubMetrics()
	a := NewSnapshotArchiver(&stubPublisher{}, &stubStore{}, m, "postgres", 1, time.Hour, testLogger())

	err := a.Archive(context.Background(), snap("smb", 1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
	assert.Equal(t, 1, m.errors["archive_batch"])
}

func TestArchiverRejectsNilSnapshot(t *testing.T) {
	a := NewSnapshotArchiver(&stubPublisher{}, &stubStore{}, newStubMetrics(), "clickhouse", 10, time.Hour, testLogger())
	assert.Error(t, a.Archive(context.Background(), nil))
}

func TestArchiverCloseFlushesRemainder(t *testing.T) {
	store := &stubStore{}
	a := NewSnapshotArchiver(&stubPublisher{}, store, newStubMetrics(), "clickhouse", 100, time.Hour, testLogger())
	a.Start(context.Background())

	require.NoError(t, a.Archive(context.Background(), snap("smb", 1)))
	require.Empty(t, store.batches)

	a.Close()
	require.Len(t, store.batches, 1)
	assert.Len(t, store.batches[0], 1)
}

func TestArchiverFlushEmptyIsNoop(t *testing.T) {
	store := &stubStore{}
	a := NewSnapshotArchiver(&stubPublisher{}, store, newStubMetrics(), "clickhouse", 10, time.Hour, testLogger())
	require.NoError(t, a.Flush(context.Background()))
	assert.Empty(t, store.batches)
}
